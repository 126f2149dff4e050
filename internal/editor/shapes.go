package editor

import (
	"image/color"

	"github.com/fogleman/gg"

	"gopaint/pkg/geometry"
)

// shapeTool implements the line, rectangle, and ellipse tools: the shape is
// previewed in the overlay while dragging and drawn onto the buffer on
// release. The pressed button picks the primary color; the other color is
// secondary, used as the fill in ShapeFilledOutline mode.
type shapeTool struct {
	e          *Editor
	kind       ToolType
	active     bool
	start, cur geometry.Point2D
	primary    color.RGBA
	secondary  color.RGBA
}

func (t *shapeTool) WillMutate(ev PointerEvent) bool { return ev.Button != ButtonNone }

func (t *shapeTool) Press(ev PointerEvent) {
	t.primary = t.e.colorFor(ev.Button)
	if ev.Button == ButtonRight {
		t.secondary = t.e.fg
	} else {
		t.secondary = t.e.bg
	}
	t.active = true
	t.start = ev.Pos
	t.cur = ev.Pos
}

func (t *shapeTool) Move(ev PointerEvent) {
	if t.active {
		t.cur = ev.Pos
	}
}

func (t *shapeTool) Release(ev PointerEvent) {
	if !t.active {
		return
	}
	t.cur = ev.Pos
	t.active = false
	dc := gg.NewContextForRGBA(t.e.buf.RGBA())
	t.render(dc)
}

func (t *shapeTool) DrawOverlay(dc *gg.Context) {
	if t.active {
		t.render(dc)
	}
}

func (t *shapeTool) render(dc *gg.Context) {
	width := float64(t.e.brushSize)

	if t.kind == ToolLine {
		dc.SetColor(t.primary)
		dc.SetLineWidth(width)
		dc.SetLineCapRound()
		dc.DrawLine(t.start.X, t.start.Y, t.cur.X, t.cur.Y)
		dc.Stroke()
		return
	}

	r := geometry.RectFromPoints(t.start, t.cur)
	switch t.kind {
	case ToolRect:
		dc.DrawRectangle(r.X, r.Y, r.Width, r.Height)
	case ToolEllipse:
		c := r.Center()
		dc.DrawEllipse(c.X, c.Y, r.Width/2, r.Height/2)
	}

	switch t.e.fillMode {
	case ShapeOutline:
		dc.SetColor(t.primary)
		dc.SetLineWidth(width)
		dc.Stroke()
	case ShapeFilledOutline:
		dc.SetColor(t.secondary)
		dc.FillPreserve()
		dc.SetColor(t.primary)
		dc.SetLineWidth(width)
		dc.Stroke()
	case ShapeFilled:
		dc.SetColor(t.primary)
		dc.Fill()
	}
}
