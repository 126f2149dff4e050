package selection

import (
	"image"
	"image/color"
	"testing"

	"gopaint/internal/raster"
	"gopaint/pkg/geometry"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

type testHost struct {
	buf *raster.Buffer
	bg  color.RGBA
}

func (h *testHost) Buffer() *raster.Buffer  { return h.buf }
func (h *testHost) Background() color.RGBA { return h.bg }

func newTestHost(w, h int) *testHost {
	return &testHost{buf: raster.New(w, h), bg: white}
}

// drag runs a full press/move/release gesture.
func drag(m *Machine, from, to geometry.Point2D) {
	m.Press(from)
	m.Move(to)
	m.Release(to)
}

func pixel(t *testing.T, b *raster.Buffer, x, y int, want color.RGBA) {
	t.Helper()
	got, ok := b.At(x, y)
	if !ok {
		t.Fatalf("pixel (%d,%d) out of bounds", x, y)
	}
	if got != want {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func TestSelectDetachesSnippetAndClearsSource(t *testing.T) {
	host := newTestHost(100, 100)
	host.buf.FillRect(image.Rect(10, 10, 60, 60), red)
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 60, Y: 60})

	if m.State() != Selected {
		t.Fatalf("state = %v, want selected", m.State())
	}
	if r := m.Rect(); r != geometry.NewRect(10, 10, 50, 50) {
		t.Fatalf("rect = %+v, want (10,10,50,50)", r)
	}
	if s := m.Snippet(); s == nil || s.Width() != 50 || s.Height() != 50 {
		t.Fatalf("snippet = %v, want 50x50", s)
	}
	pixel(t, m.Snippet(), 0, 0, red)
	pixel(t, m.Snippet(), 49, 49, red)
	// Source region is cleared to the background.
	pixel(t, host.buf, 10, 10, white)
	pixel(t, host.buf, 35, 35, white)
}

func TestDegenerateDragDiscarded(t *testing.T) {
	host := newTestHost(100, 100)
	host.buf.FillRect(image.Rect(0, 0, 100, 100), red)
	before := host.buf.Clone()
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 11, Y: 40})

	if m.State() != Idle {
		t.Fatalf("state = %v, want idle", m.State())
	}
	if m.Snippet() != nil {
		t.Fatal("snippet should be nil after degenerate drag")
	}
	if !host.buf.Equal(before) {
		t.Error("degenerate drag must not touch the buffer")
	}
}

func TestMoveAndCommit(t *testing.T) {
	host := newTestHost(100, 100)
	host.buf.FillRect(image.Rect(10, 10, 60, 60), red)
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 60, Y: 60})

	// Grab the interior and drag +20/+20.
	drag(m, geometry.Point2D{X: 35, Y: 35}, geometry.Point2D{X: 55, Y: 55})
	if r := m.Rect(); r != geometry.NewRect(30, 30, 50, 50) {
		t.Fatalf("rect after move = %+v, want (30,30,50,50)", r)
	}

	m.Flush()
	if m.State() != Idle {
		t.Fatalf("state after flush = %v, want idle", m.State())
	}
	pixel(t, host.buf, 30, 30, red)
	pixel(t, host.buf, 79, 79, red)
	pixel(t, host.buf, 10, 10, white) // old location cleared
	pixel(t, host.buf, 25, 25, white)
}

func TestMoveAwayAndBackIsIdentity(t *testing.T) {
	host := newTestHost(100, 100)
	host.buf.FillRect(image.Rect(10, 10, 60, 60), red)
	before := host.buf.Clone()
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 60, Y: 60})
	drag(m, geometry.Point2D{X: 35, Y: 35}, geometry.Point2D{X: 55, Y: 55})
	drag(m, geometry.Point2D{X: 55, Y: 55}, geometry.Point2D{X: 35, Y: 35})
	m.Flush()

	if !host.buf.Equal(before) {
		t.Error("moving a selection away and back must restore the buffer exactly")
	}
}

func TestResizeEastHandle(t *testing.T) {
	host := newTestHost(200, 200)
	host.buf.FillRect(image.Rect(20, 20, 60, 60), red)
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 20, Y: 20}, geometry.Point2D{X: 60, Y: 60})

	// East handle sits at the midpoint of the right edge.
	if h := m.HitHandle(geometry.Point2D{X: 60, Y: 40}); h != HandleE {
		t.Fatalf("HitHandle = %v, want east", h)
	}
	drag(m, geometry.Point2D{X: 60, Y: 40}, geometry.Point2D{X: 100, Y: 40})

	if r := m.Rect(); r != geometry.NewRect(20, 20, 80, 40) {
		t.Fatalf("rect after resize = %+v, want (20,20,80,40)", r)
	}

	m.Flush()
	pixel(t, host.buf, 50, 30, red)
	pixel(t, host.buf, 99, 59, red)
	pixel(t, host.buf, 101, 30, white)
}

func TestResizeFloor(t *testing.T) {
	host := newTestHost(200, 200)
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 20, Y: 20}, geometry.Point2D{X: 60, Y: 60})

	// Drag the east handle past the west anchor.
	drag(m, geometry.Point2D{X: 60, Y: 40}, geometry.Point2D{X: 21, Y: 40})

	if w := m.Rect().Width; w != 4 {
		t.Errorf("width = %v, want floor of 4", w)
	}
	if h := m.Rect().Height; h != 40 {
		t.Errorf("height = %v, want unchanged 40", h)
	}
}

func TestRotateHandle(t *testing.T) {
	host := newTestHost(100, 100)
	host.buf.FillRect(image.Rect(30, 30, 70, 70), red)
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 30, Y: 30}, geometry.Point2D{X: 70, Y: 70})

	if h := m.HitHandle(geometry.Point2D{X: 50, Y: 10}); h != HandleRotate {
		t.Fatalf("HitHandle = %v, want rotate", h)
	}
	m.Press(geometry.Point2D{X: 50, Y: 10})
	m.Move(geometry.Point2D{X: 90, Y: 50})
	m.Release(geometry.Point2D{X: 90, Y: 50})

	if a := m.Angle(); a < 89.9 || a > 90.1 {
		t.Fatalf("angle = %v, want 90", a)
	}

	m.Flush()
	// A square rotated a quarter turn about its center covers the same area.
	pixel(t, host.buf, 50, 50, red)
	pixel(t, host.buf, 35, 35, red)
	pixel(t, host.buf, 20, 20, white)
}

func TestCommitBeyondEdgeExpandsBuffer(t *testing.T) {
	host := newTestHost(100, 100)
	host.buf.FillRect(image.Rect(40, 40, 90, 90), red)
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 40, Y: 40}, geometry.Point2D{X: 90, Y: 90})
	// Drag the selection 30 px right and down so it overhangs the canvas.
	drag(m, geometry.Point2D{X: 65, Y: 65}, geometry.Point2D{X: 95, Y: 95})
	m.Flush()

	if host.buf.Width() != 120 || host.buf.Height() != 120 {
		t.Fatalf("buffer = %dx%d, want 120x120", host.buf.Width(), host.buf.Height())
	}
	pixel(t, host.buf, 119, 119, red)
	pixel(t, host.buf, 110, 30, white) // expansion area fills with background
}

func TestStartsNewSelection(t *testing.T) {
	host := newTestHost(100, 100)
	m := NewMachine(host)

	if !m.StartsNewSelection(geometry.Point2D{X: 5, Y: 5}) {
		t.Error("idle machine: every press starts a new selection")
	}

	drag(m, geometry.Point2D{X: 20, Y: 20}, geometry.Point2D{X: 60, Y: 60})

	if m.StartsNewSelection(geometry.Point2D{X: 40, Y: 40}) {
		t.Error("press inside the selection must not start a new one")
	}
	if m.StartsNewSelection(geometry.Point2D{X: 60, Y: 40}) {
		t.Error("press on a handle must not start a new one")
	}
	if !m.StartsNewSelection(geometry.Point2D{X: 90, Y: 90}) {
		t.Error("press outside starts a new selection")
	}
}

func TestDeleteLeavesSourceCleared(t *testing.T) {
	host := newTestHost(100, 100)
	host.buf.FillRect(image.Rect(10, 10, 60, 60), red)
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 60, Y: 60})
	m.Delete()

	if m.State() != Idle || m.Snippet() != nil {
		t.Fatal("delete must reset the machine")
	}
	pixel(t, host.buf, 35, 35, white)
}

func TestSelectAll(t *testing.T) {
	host := newTestHost(80, 60)
	host.buf.Fill(red)
	m := NewMachine(host)

	m.SelectAll()

	if m.State() != Selected {
		t.Fatalf("state = %v, want selected", m.State())
	}
	if r := m.Rect(); r != geometry.NewRect(0, 0, 80, 60) {
		t.Fatalf("rect = %+v, want full canvas", r)
	}
	pixel(t, m.Snippet(), 40, 30, red)
	pixel(t, host.buf, 40, 30, white)
}

func TestPasteLargerThanCanvasExpands(t *testing.T) {
	host := newTestHost(100, 100)
	m := NewMachine(host)

	img := raster.NewFilled(150, 120, red)
	m.Paste(img, nil)

	if host.buf.Width() != 150 || host.buf.Height() != 120 {
		t.Fatalf("buffer = %dx%d, want 150x120", host.buf.Width(), host.buf.Height())
	}
	if r := m.Rect(); r != geometry.NewRect(0, 0, 150, 120) {
		t.Fatalf("rect = %+v, want anchored at origin", r)
	}

	m.Flush()
	pixel(t, host.buf, 0, 0, red)
	pixel(t, host.buf, 149, 119, red)
}

func TestPasteAtCenter(t *testing.T) {
	host := newTestHost(100, 100)
	m := NewMachine(host)

	img := raster.NewFilled(20, 20, red)
	c := geometry.Point2D{X: 50, Y: 50}
	m.Paste(img, &c)

	if r := m.Rect(); r != geometry.NewRect(40, 40, 20, 20) {
		t.Fatalf("rect = %+v, want centered at (50,50)", r)
	}
}

func TestPressOutsideCommitsFloat(t *testing.T) {
	host := newTestHost(100, 100)
	host.buf.FillRect(image.Rect(10, 10, 40, 40), red)
	m := NewMachine(host)

	drag(m, geometry.Point2D{X: 10, Y: 10}, geometry.Point2D{X: 40, Y: 40})
	drag(m, geometry.Point2D{X: 25, Y: 25}, geometry.Point2D{X: 65, Y: 65})

	// Press well away from the floating selection: it commits, and a new
	// selecting drag begins.
	m.Press(geometry.Point2D{X: 5, Y: 90})
	if m.State() != Selecting {
		t.Fatalf("state = %v, want selecting", m.State())
	}
	pixel(t, host.buf, 60, 60, red)
	m.Release(geometry.Point2D{X: 5, Y: 90})
}
