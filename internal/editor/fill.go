package editor

import (
	"github.com/fogleman/gg"

	"gopaint/internal/raster"
)

// fillTool flood-fills the contiguous color region under the click.
type fillTool struct {
	e *Editor
}

// WillMutate is false when the seed pixel already has the fill color or lies
// outside the canvas, so no undo snapshot is recorded for a no-op fill.
func (t *fillTool) WillMutate(ev PointerEvent) bool {
	if ev.Button == ButtonNone {
		return false
	}
	target, ok := t.e.buf.At(int(ev.Pos.X), int(ev.Pos.Y))
	return ok && target != t.e.colorFor(ev.Button)
}

func (t *fillTool) Press(ev PointerEvent) {
	raster.FloodFill(t.e.buf, int(ev.Pos.X), int(ev.Pos.Y), t.e.colorFor(ev.Button))
}

func (t *fillTool) Move(ev PointerEvent)    {}
func (t *fillTool) Release(ev PointerEvent) {}

func (t *fillTool) DrawOverlay(dc *gg.Context) {}

// pickerTool samples the pixel under the click into the foreground (left
// button) or background (right button) color.
type pickerTool struct {
	e *Editor
}

func (t *pickerTool) WillMutate(ev PointerEvent) bool { return false }

func (t *pickerTool) Press(ev PointerEvent) {
	c, ok := t.e.buf.At(int(ev.Pos.X), int(ev.Pos.Y))
	if !ok {
		return
	}
	if ev.Button == ButtonRight {
		t.e.SetBackground(c)
	} else {
		t.e.SetForeground(c)
	}
}

func (t *pickerTool) Move(ev PointerEvent)    {}
func (t *pickerTool) Release(ev PointerEvent) {}

func (t *pickerTool) DrawOverlay(dc *gg.Context) {}
