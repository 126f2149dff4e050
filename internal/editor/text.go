package editor

import (
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"gopaint/pkg/geometry"
)

var uiFont = mustParseFont()

func mustParseFont() *truetype.Font {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		panic("parse embedded font: " + err.Error())
	}
	return f
}

// textTool types text at a click point. The text floats in the overlay while
// being edited and is rendered onto the buffer when committed: by Enter, by
// clicking elsewhere, or by switching tools. Escape abandons it.
//
// The tool manages its own undo snapshot because the mutation happens at
// commit time, not at press time.
type textTool struct {
	e      *Editor
	active bool
	pos    geometry.Point2D
	text   []rune
}

func (t *textTool) WillMutate(ev PointerEvent) bool { return false }

func (t *textTool) Press(ev PointerEvent) {
	t.commitPending()
	t.active = true
	t.pos = ev.Pos
	t.text = t.text[:0]
}

func (t *textTool) Move(ev PointerEvent)    {}
func (t *textTool) Release(ev PointerEvent) {}

// Deactivate commits pending text when the user switches tools.
func (t *textTool) Deactivate() {
	t.commitPending()
	t.active = false
}

func (t *textTool) typeRune(r rune) {
	if t.active && r >= ' ' {
		t.text = append(t.text, r)
	}
}

func (t *textTool) backspace() {
	if t.active && len(t.text) > 0 {
		t.text = t.text[:len(t.text)-1]
	}
}

func (t *textTool) cancel() {
	t.active = false
	t.text = t.text[:0]
}

// commitPending renders the typed text onto the buffer, recording the undo
// snapshot first. Empty text commits nothing.
func (t *textTool) commitPending() {
	if !t.active {
		return
	}
	t.active = false
	if len(t.text) == 0 {
		return
	}
	t.e.hist.Save(t.e.buf)
	t.e.dirty = true
	dc := gg.NewContextForRGBA(t.e.buf.RGBA())
	dc.SetFontFace(t.face())
	dc.SetColor(t.e.fg)
	dc.DrawString(string(t.text), t.pos.X, t.pos.Y)
	t.text = t.text[:0]
}

func (t *textTool) face() font.Face {
	return truetype.NewFace(uiFont, &truetype.Options{Size: t.e.fontSize})
}

func (t *textTool) DrawOverlay(dc *gg.Context) {
	if !t.active {
		return
	}
	dc.SetFontFace(t.face())
	dc.SetColor(t.e.fg)
	s := string(t.text)
	dc.DrawString(s, t.pos.X, t.pos.Y)

	// Caret after the last glyph.
	w, h := dc.MeasureString(s)
	dc.SetLineWidth(1)
	dc.DrawLine(t.pos.X+w, t.pos.Y-h, t.pos.X+w, t.pos.Y)
	dc.Stroke()
}
