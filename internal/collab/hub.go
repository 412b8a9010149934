package collab

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/linea-app/linea/backend-go/internal/document"
)

// DocLoader loads the latest persisted document for a project.
type DocLoader func(projectID string) (*document.LineaDocument, error)

// DocSaver persists the document for a project.
type DocSaver func(projectID string, doc *document.LineaDocument) error

const saveInterval = 30 * time.Second

type Room struct {
	projectID string
	clients   map[string]*Client // clientID -> client
	presence  *PresenceManager
	state     *DocumentState
	dirty     bool
}

func NewRoom(projectID string, state *DocumentState) *Room {
	return &Room{
		projectID: projectID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		state:     state,
	}
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // projectID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopped    chan struct{}
	loadDoc    DocLoader
	saveDoc    DocSaver
}

func NewHub(loader DocLoader, saver DocSaver) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		loadDoc:    loader,
		saveDoc:    saver,
	}
}

func (h *Hub) Run() {
	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()

	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ticker.C:
			h.saveDirtyRooms()
		case <-h.done:
			h.saveDirtyRooms()
			close(h.stopped)
			return
		}
	}
}

// Stop shuts the hub down and saves all dirty documents before returning.
func (h *Hub) Stop() {
	close(h.done)
	<-h.stopped
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		state := h.loadState(client.ProjectID)
		room = NewRoom(client.ProjectID, state)
		h.rooms[client.ProjectID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Send the authoritative document to the new client
	if room.state != nil {
		docJSON, err := json.Marshal(room.state.GetDocument())
		if err == nil {
			payload, _ := json.Marshal(DocSyncPayload{
				Document:  docJSON,
				ServerSeq: room.state.ServerSeq(),
			})
			client.Send(&Message{Type: TypeDocSync, Payload: payload})
		} else {
			slog.Error("marshal document for sync", "error", err, "project", client.ProjectID)
		}
	}

	// Send current presence state to new client
	stateMsg := room.presence.StateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}

	// Broadcast join to other clients
	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}
	h.broadcastToRoom(client.ProjectID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) loadState(projectID string) *DocumentState {
	if h.loadDoc == nil {
		return NewDocumentState(document.NewEmptyDocument(projectID, "Untitled", "scene_default"))
	}
	doc, err := h.loadDoc(projectID)
	if err != nil {
		slog.Warn("load document, starting empty", "error", err, "project", projectID)
		return NewDocumentState(document.NewEmptyDocument(projectID, "Untitled", "scene_default"))
	}
	return NewDocumentState(doc)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.ProjectID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.ProjectID)
	}
	h.mu.Unlock()

	if empty {
		h.saveRoom(room)
	}

	// Broadcast leave to remaining clients
	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID: client.UserID,
	})
	leaveMsg := &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}
	h.broadcastToRoom(client.ProjectID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "project", client.ProjectID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var payload OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		slog.Warn("invalid op payload", "error", err, "user", sender.UserID)
		return
	}
	op := payload.Operation

	h.mu.RLock()
	room, ok := h.rooms[sender.ProjectID]
	h.mu.RUnlock()
	if !ok || room.state == nil {
		return
	}

	serverSeq, err := room.state.ApplyOperation(op)
	if err != nil {
		nack, _ := json.Marshal(OperationNackPayload{
			OperationID: op.ID,
			Reason:      err.Error(),
		})
		sender.Send(&Message{Type: TypeOpNack, Payload: nack})
		return
	}

	h.mu.Lock()
	room.dirty = true
	h.mu.Unlock()

	ack, _ := json.Marshal(OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       serverSeq,
		ServerTimestamp: GetServerTimestamp(),
	})
	sender.Send(&Message{Type: TypeOpAck, Payload: ack})

	broadcast, _ := json.Marshal(OperationBroadcastPayload{
		Operation: op,
		UserID:    sender.UserID,
		ServerSeq: serverSeq,
	})
	h.broadcastToRoom(sender.ProjectID, &Message{
		Type:    TypeOpBroadcast,
		UserID:  sender.UserID,
		Payload: broadcast,
	}, sender.ClientID)
}

func (h *Hub) saveDirtyRooms() {
	h.mu.Lock()
	var dirty []*Room
	for _, room := range h.rooms {
		if room.dirty {
			room.dirty = false
			dirty = append(dirty, room)
		}
	}
	h.mu.Unlock()

	for _, room := range dirty {
		h.saveRoom(room)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if h.saveDoc == nil || room.state == nil {
		return
	}
	if err := h.saveDoc(room.projectID, room.state.GetDocument()); err != nil {
		slog.Error("save document", "error", err, "project", room.projectID)
		return
	}
	slog.Info("document saved", "project", room.projectID, "seq", room.state.ServerSeq())
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.ProjectID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	room.presence.Update(sender.UserID, &presence)

	// Broadcast to other clients in room
	outPayload, _ := json.Marshal(presence)
	outMsg := &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}
	h.broadcastToRoom(sender.ProjectID, outMsg, sender.ClientID)
}

func (h *Hub) broadcastToRoom(projectID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[projectID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
