package editor

import (
	"github.com/fogleman/gg"

	"gopaint/internal/raster"
	"gopaint/pkg/geometry"
)

// alphaBrushTool erases pixels to full transparency rather than painting the
// background color. Shift-clicking instead clears a whole contiguous color
// region, like a flood fill that fills with transparency.
type alphaBrushTool struct {
	e       *Editor
	drawing bool
	last    geometry.Point2D
}

func (t *alphaBrushTool) WillMutate(ev PointerEvent) bool {
	if ev.Button == ButtonNone {
		return false
	}
	if ev.Shift {
		// The region fill is a no-op on already transparent pixels.
		c, ok := t.e.buf.At(int(ev.Pos.X), int(ev.Pos.Y))
		return ok && c.A != 0
	}
	return true
}

func (t *alphaBrushTool) Press(ev PointerEvent) {
	if ev.Shift {
		raster.AlphaFloodFill(t.e.buf, int(ev.Pos.X), int(ev.Pos.Y))
		return
	}
	t.drawing = true
	t.last = ev.Pos
	t.clearStroke(ev.Pos, ev.Pos)
}

func (t *alphaBrushTool) Move(ev PointerEvent) {
	if !t.drawing {
		return
	}
	t.clearStroke(t.last, ev.Pos)
	t.last = ev.Pos
}

func (t *alphaBrushTool) Release(ev PointerEvent) { t.drawing = false }

func (t *alphaBrushTool) DrawOverlay(dc *gg.Context) {}

// clearStroke zeroes every pixel under a round-capped segment. The segment is
// rasterized into a coverage mask and pixels at half coverage or more are
// cleared, so the result has hard edges with no semi-transparent fringe.
func (t *alphaBrushTool) clearStroke(from, to geometry.Point2D) {
	buf := t.e.buf
	width := t.e.strokeWidth(ToolBrush)
	dc := gg.NewContext(buf.Width(), buf.Height())
	dc.SetRGB(1, 1, 1)
	if from == to {
		// An empty path strokes no coverage; a click clears a dot.
		dc.DrawCircle(from.X, from.Y, width/2)
		dc.Fill()
	} else {
		dc.SetLineWidth(width)
		dc.SetLineCapRound()
		dc.DrawLine(from.X, from.Y, to.X, to.Y)
		dc.Stroke()
	}

	mask := dc.AsMask()
	pix := buf.RGBA().Pix
	for i, a := range mask.Pix {
		if a >= 128 {
			o := i * 4
			pix[o+0] = 0
			pix[o+1] = 0
			pix[o+2] = 0
			pix[o+3] = 0
		}
	}
}
