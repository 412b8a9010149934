package engine

// UpdateScheduler coalesces per-pointer-move element updates into one
// store commit per animation frame. It holds at most one pending
// batch: a later Enqueue replaces the whole pending object
// (last-write-wins, no partial merge across calls), and Flush drains
// it on the next frame tick.
//
// Everything runs on the main thread per the store's single-writer
// convention, so there is no locking.
type UpdateScheduler struct {
	store   Store
	pending map[string]Patch
}

func NewUpdateScheduler(store Store) *UpdateScheduler {
	return &UpdateScheduler{store: store}
}

// Enqueue replaces the pending batch with the given one.
func (s *UpdateScheduler) Enqueue(updates map[string]Patch) {
	if len(updates) == 0 {
		return
	}
	s.pending = updates
}

// Flush commits the pending batch, if any. Called once per frame.
// A batch scheduled before a gesture was cancelled still commits: it
// reflects the last real pointer position.
func (s *UpdateScheduler) Flush() {
	if s.pending == nil {
		return
	}
	batch := s.pending
	s.pending = nil
	s.store.ApplyUpdates(batch)
}

// HasPending reports whether a batch is waiting for the next flush.
func (s *UpdateScheduler) HasPending() bool {
	return s.pending != nil
}
