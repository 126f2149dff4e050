package editor

import (
	"image/color"

	"github.com/fogleman/gg"

	"gopaint/pkg/geometry"
)

// colorFor maps a pointer button to a drawing color: left draws with the
// foreground, right with the background.
func (e *Editor) colorFor(b Button) color.RGBA {
	if b == ButtonRight {
		return e.bg
	}
	return e.fg
}

// strokeWidth returns the line width for a stroke tool kind.
func (e *Editor) strokeWidth(kind ToolType) float64 {
	if kind == ToolPencil {
		return 1
	}
	return float64(e.brushSize)
}

// paintStroke draws a round-capped line segment directly onto the buffer.
// A zero-length segment strokes nothing, so a bare click is painted as a
// filled dot the size of the cap instead.
func (e *Editor) paintStroke(from, to geometry.Point2D, c color.RGBA, width float64) {
	dc := gg.NewContextForRGBA(e.buf.RGBA())
	dc.SetColor(c)
	if from == to {
		dc.DrawCircle(from.X, from.Y, width/2)
		dc.Fill()
		return
	}
	dc.SetLineWidth(width)
	dc.SetLineCapRound()
	dc.DrawLine(from.X, from.Y, to.X, to.Y)
	dc.Stroke()
}

// strokeTool implements the pencil, brush, and eraser: freehand strokes
// rendered segment by segment as the pointer moves. The eraser always paints
// the background color; pencil and brush pick by button.
type strokeTool struct {
	e       *Editor
	kind    ToolType
	drawing bool
	color   color.RGBA
	last    geometry.Point2D
}

func (t *strokeTool) WillMutate(ev PointerEvent) bool { return ev.Button != ButtonNone }

func (t *strokeTool) Press(ev PointerEvent) {
	if t.kind == ToolEraser {
		t.color = t.e.bg
	} else {
		t.color = t.e.colorFor(ev.Button)
	}
	t.drawing = true
	t.last = ev.Pos
	t.e.paintStroke(ev.Pos, ev.Pos, t.color, t.e.strokeWidth(t.kind))
}

func (t *strokeTool) Move(ev PointerEvent) {
	if !t.drawing {
		return
	}
	t.e.paintStroke(t.last, ev.Pos, t.color, t.e.strokeWidth(t.kind))
	t.last = ev.Pos
}

func (t *strokeTool) Release(ev PointerEvent) { t.drawing = false }

func (t *strokeTool) DrawOverlay(dc *gg.Context) {}
