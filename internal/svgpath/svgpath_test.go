package svgpath

import (
	"testing"

	"github.com/linea-app/linea/backend-go/internal/engine"
)

func resize(t *testing.T, d string, from, to engine.Bounds) string {
	t.Helper()
	return Resizer{}.Resize(d, from, to)
}

func TestResizeAbsoluteCoordinates(t *testing.T) {
	from := engine.NewBounds(0, 0, 100, 100)
	to := engine.NewBounds(10, 20, 210, 220)

	got := resize(t, "M 0 0 L 100 100", from, to)
	want := "M 10 20 L 210 220"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResizeRelativeCoordinatesScaleOnly(t *testing.T) {
	from := engine.NewBounds(0, 0, 100, 100)
	to := engine.NewBounds(10, 20, 210, 220)

	got := resize(t, "m 10 10 l 20 0", from, to)
	want := "m 20 20 l 40 0"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResizeSingleAxisCommands(t *testing.T) {
	from := engine.NewBounds(0, 0, 100, 100)
	to := engine.NewBounds(10, 20, 210, 220)

	got := resize(t, "M 0 0 H 50 V 100 h 10 v 5", from, to)
	want := "M 10 20 H 110 V 220 h 20 v 10"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResizeCurves(t *testing.T) {
	from := engine.NewBounds(0, 0, 100, 100)
	to := engine.NewBounds(0, 0, 200, 200)

	got := resize(t, "M 0 0 C 10 20 30 40 50 60 q 5 5 10 10", from, to)
	want := "M 0 0 C 20 40 60 80 100 120 q 10 10 20 20"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResizeArcs(t *testing.T) {
	from := engine.NewBounds(0, 0, 100, 100)
	to := engine.NewBounds(10, 20, 210, 220)

	// Radii scale on both forms; flags and rotation pass through;
	// only the absolute form translates its endpoint.
	got := resize(t, "M 0 0 A 50 25 0 1 0 100 100", from, to)
	want := "M 10 20 A 100 50 0 1 0 210 220"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got = resize(t, "M 0 0 a 50 25 0 1 0 100 100", from, to)
	want = "M 10 20 a 100 50 0 1 0 200 200"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResizeClosePathPreserved(t *testing.T) {
	from := engine.NewBounds(0, 0, 100, 100)
	to := engine.NewBounds(0, 0, 200, 200)

	got := resize(t, "M 0 0 L 10 0 Z", from, to)
	want := "M 0 0 L 20 0 Z"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResizeCommaSeparatedArgs(t *testing.T) {
	from := engine.NewBounds(0, 0, 100, 100)
	to := engine.NewBounds(0, 0, 200, 200)

	got := resize(t, "M0,0 L100,50", from, to)
	want := "M 0 0 L 200 100"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResizeZeroWidthSourceAxis(t *testing.T) {
	from := engine.NewBounds(0, 0, 0, 100)
	to := engine.NewBounds(0, 0, 50, 200)

	// A degenerate source axis keeps scale 1 instead of dividing by
	// zero.
	got := resize(t, "M 0 0 L 0 100", from, to)
	want := "M 0 0 L 0 200"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestResizeMalformedInputUnchanged(t *testing.T) {
	from := engine.NewBounds(0, 0, 100, 100)
	to := engine.NewBounds(0, 0, 200, 200)

	for _, d := range []string{"", "not a path", "123 456"} {
		if got := resize(t, d, from, to); got != d {
			t.Errorf("Resize(%q) = %q, want input unchanged", d, got)
		}
	}
}
