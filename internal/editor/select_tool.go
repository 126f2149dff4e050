package editor

import (
	"math"

	"github.com/fogleman/gg"

	"gopaint/internal/selection"
)

// selectTool adapts the selection machine to the tool interface and renders
// the selection overlay: the floating snippet preview, the dashed outline,
// and the resize and rotation handles.
type selectTool struct {
	e *Editor
	m *selection.Machine
}

// WillMutate is true only for presses that flush the current float and start
// a new selecting drag; grabbing a handle or the interior continues the
// gesture covered by the existing snapshot.
func (t *selectTool) WillMutate(ev PointerEvent) bool {
	return t.m.StartsNewSelection(ev.Pos)
}

func (t *selectTool) Press(ev PointerEvent)   { t.m.Press(ev.Pos) }
func (t *selectTool) Move(ev PointerEvent)    { t.m.Move(ev.Pos) }
func (t *selectTool) Release(ev PointerEvent) { t.m.Release(ev.Pos) }

// Flush commits the floating snippet; see Editor.Press for when this runs.
func (t *selectTool) Flush() { t.m.Flush() }

// Deactivate commits the float when the user switches tools.
func (t *selectTool) Deactivate() { t.m.Flush() }

func (t *selectTool) DrawOverlay(dc *gg.Context) {
	switch t.m.State() {
	case selection.Idle:
		return
	case selection.Selecting:
		t.drawOutline(dc)
		return
	}

	// Floating snippet preview at live transform quality.
	if img := t.m.Transformed(); img != nil {
		c := t.m.Rect().Center()
		x := int(math.Round(c.X - float64(img.Width())/2))
		y := int(math.Round(c.Y - float64(img.Height())/2))
		dc.DrawImage(img.RGBA(), x, y)
	}
	t.drawOutline(dc)
	t.drawHandles(dc)
}

// drawOutline draws the rotated selection rectangle as a dashed black line
// over a solid white one, visible on any background. Line widths are divided
// by zoom so they stay one device pixel on screen.
func (t *selectTool) drawOutline(dc *gg.Context) {
	z := t.e.zoom
	corners := t.m.Corners()

	dc.NewSubPath()
	dc.MoveTo(corners[0].X, corners[0].Y)
	for _, p := range corners[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.ClosePath()

	dc.SetLineWidth(1 / z)
	dc.SetRGB(1, 1, 1)
	dc.StrokePreserve()
	dc.SetDash(4/z, 4/z)
	dc.SetRGB(0, 0, 0)
	dc.Stroke()
	dc.SetDash()
}

func (t *selectTool) drawHandles(dc *gg.Context) {
	positions := t.m.HandlePositions()
	if positions == nil {
		return
	}
	z := t.e.zoom
	size := 6 / z

	// Stem from the top edge to the rotation handle.
	if rot, ok := positions[selection.HandleRotate]; ok {
		if n, ok := positions[selection.HandleN]; ok {
			dc.SetLineWidth(1 / z)
			dc.SetRGB(0, 0, 0)
			dc.DrawLine(n.X, n.Y, rot.X, rot.Y)
			dc.Stroke()
		}
	}

	for h, p := range positions {
		if h == selection.HandleRotate {
			dc.DrawCircle(p.X, p.Y, size/2)
		} else {
			dc.DrawRectangle(p.X-size/2, p.Y-size/2, size, size)
		}
		dc.SetRGB(1, 1, 1)
		dc.FillPreserve()
		dc.SetRGB(0, 0, 0)
		dc.SetLineWidth(1 / z)
		dc.Stroke()
	}
}
