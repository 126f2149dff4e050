package canvas

import (
	"testing"

	"fyne.io/fyne/v2"
)

func TestAnchoredOffsetKeepsCursorPointFixed(t *testing.T) {
	off := fyne.NewPos(100, 40)
	pos := fyne.NewPos(200, 150)

	// Content point under the cursor is off+pos = (300, 190). Doubling the
	// zoom doubles its content coordinate, so the offset must absorb it.
	got := anchoredOffset(off, pos, 1.0, 2.0)
	if want := fyne.NewPos(400, 230); got != want {
		t.Errorf("offset after zoom in = %v, want %v", got, want)
	}

	// Zooming back out restores the original offset.
	if back := anchoredOffset(got, pos, 2.0, 1.0); back != off {
		t.Errorf("offset after zoom out = %v, want %v", back, off)
	}
}

func TestAnchoredOffsetDegenerateZooms(t *testing.T) {
	off := fyne.NewPos(10, 20)
	pos := fyne.NewPos(5, 5)
	if got := anchoredOffset(off, pos, 1.5, 1.5); got != off {
		t.Errorf("unchanged zoom moved the offset to %v", got)
	}
	if got := anchoredOffset(off, pos, 0, 2); got != off {
		t.Errorf("zero old zoom moved the offset to %v", got)
	}
}
