// Package editor ties the document together: it owns the pixel buffer, the
// undo log, the active tool, and the selection machine, and dispatches
// pointer and key events to them.
package editor

import (
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"gopaint/internal/history"
	"gopaint/internal/raster"
	"gopaint/internal/selection"
	"gopaint/internal/transform"
	"gopaint/pkg/geometry"
)

// Default document parameters for a fresh canvas.
const (
	DefaultWidth     = 800
	DefaultHeight    = 600
	DefaultBrushSize = 3
	DefaultFontSize  = 18
)

// Editor is the document controller. It is single-threaded: the UI event
// loop drives it, and onChange notifies the canvas to repaint.
type Editor struct {
	buf  *raster.Buffer
	hist *history.Log
	sel  *selection.Machine
	clip Clipboard
	log  Logger

	fg, bg    color.RGBA
	brushSize int
	fillMode  ShapeFillMode
	fontSize  float64
	zoom      float64

	toolType ToolType
	tool     Tool
	tools    map[ToolType]Tool

	dirty    bool
	onChange func()
}

// New creates an editor with a fresh white canvas and the default tool set.
func New(log Logger, clip Clipboard) *Editor {
	e := &Editor{
		buf:       raster.New(DefaultWidth, DefaultHeight),
		hist:      history.NewLog(history.DefaultCapacity),
		clip:      clip,
		log:       log,
		fg:        color.RGBA{A: 255},
		bg:        color.RGBA{R: 255, G: 255, B: 255, A: 255},
		brushSize: DefaultBrushSize,
		fontSize:  DefaultFontSize,
		zoom:      1,
	}
	if e.clip == nil {
		e.clip = NewClipboard()
	}
	e.sel = selection.NewMachine(e)
	e.tools = map[ToolType]Tool{
		ToolPencil:     &strokeTool{e: e, kind: ToolPencil},
		ToolBrush:      &strokeTool{e: e, kind: ToolBrush},
		ToolEraser:     &strokeTool{e: e, kind: ToolEraser},
		ToolAlphaBrush: &alphaBrushTool{e: e},
		ToolLine:       &shapeTool{e: e, kind: ToolLine},
		ToolRect:       &shapeTool{e: e, kind: ToolRect},
		ToolEllipse:    &shapeTool{e: e, kind: ToolEllipse},
		ToolFill:       &fillTool{e: e},
		ToolText:       &textTool{e: e},
		ToolPicker:     &pickerTool{e: e},
		ToolSelect:     &selectTool{e: e, m: e.sel},
	}
	e.toolType = ToolPencil
	e.tool = e.tools[ToolPencil]
	return e
}

// Buffer returns the document's pixel buffer.
func (e *Editor) Buffer() *raster.Buffer { return e.buf }

// Background returns the background color, used for cleared and expanded
// regions.
func (e *Editor) Background() color.RGBA { return e.bg }

// Foreground returns the primary drawing color.
func (e *Editor) Foreground() color.RGBA { return e.fg }

// SetForeground sets the primary drawing color.
func (e *Editor) SetForeground(c color.RGBA) { e.fg = c }

// SetBackground sets the background color.
func (e *Editor) SetBackground(c color.RGBA) { e.bg = c }

// BrushSize returns the stroke width for brush-like tools.
func (e *Editor) BrushSize() int { return e.brushSize }

// SetBrushSize sets the stroke width, clamped to at least 1.
func (e *Editor) SetBrushSize(n int) {
	if n < 1 {
		n = 1
	}
	e.brushSize = n
}

// FillMode returns how shape tools render.
func (e *Editor) FillMode() ShapeFillMode { return e.fillMode }

// SetFillMode sets how shape tools render.
func (e *Editor) SetFillMode(m ShapeFillMode) { e.fillMode = m }

// FontSize returns the text tool's point size.
func (e *Editor) FontSize() float64 { return e.fontSize }

// SetFontSize sets the text tool's point size.
func (e *Editor) SetFontSize(s float64) {
	if s > 0 {
		e.fontSize = s
	}
}

// Tool returns the active tool type.
func (e *Editor) Tool() ToolType { return e.toolType }

// SetTool switches the active tool, finalizing whatever the outgoing tool
// left pending.
func (e *Editor) SetTool(t ToolType) {
	next, ok := e.tools[t]
	if !ok || next == e.tool {
		return
	}
	if d, ok := e.tool.(Deactivater); ok {
		d.Deactivate()
	}
	e.toolType = t
	e.tool = next
	e.logf("tool: %v", t)
	e.changed()
}

// Selection exposes the selection machine for overlay drawing and cursor
// feedback.
func (e *Editor) Selection() *selection.Machine { return e.sel }

// SetZoom tells the editor the current display zoom so handle hit testing
// stays a constant screen size.
func (e *Editor) SetZoom(z float64) {
	if z > 0 {
		e.zoom = z
		e.sel.SetZoom(z)
	}
}

// Zoom returns the display zoom last reported by the canvas.
func (e *Editor) Zoom() float64 { return e.zoom }

// Dirty reports whether the document changed since the last load or save.
func (e *Editor) Dirty() bool { return e.dirty }

// OnChange registers the repaint callback.
func (e *Editor) OnChange(fn func()) { e.onChange = fn }

func (e *Editor) changed() {
	if e.onChange != nil {
		e.onChange()
	}
}

func (e *Editor) logf(format string, v ...interface{}) {
	if e.log != nil {
		e.log.Printf(format, v...)
	}
}

// Press dispatches a pointer press. When the press will mutate the buffer,
// any pending tool state is flushed first and an undo snapshot is recorded,
// so the flushed pixels belong to the previous action and the snapshot
// captures the state just before the new one.
func (e *Editor) Press(ev PointerEvent) {
	if ev.Button == ButtonNone {
		return
	}
	if e.tool.WillMutate(ev) {
		if f, ok := e.tool.(Flusher); ok {
			f.Flush()
		}
		e.hist.Save(e.buf)
		e.dirty = true
	}
	e.tool.Press(ev)
	e.changed()
}

// Move dispatches a pointer move.
func (e *Editor) Move(ev PointerEvent) {
	e.tool.Move(ev)
	e.changed()
}

// Release dispatches a pointer release.
func (e *Editor) Release(ev PointerEvent) {
	e.tool.Release(ev)
	e.changed()
}

// DrawOverlay renders transient tool state (shape previews, the floating
// selection, the text caret) on top of the buffer. The context is in buffer
// coordinates.
func (e *Editor) DrawOverlay(dc *gg.Context) {
	e.tool.DrawOverlay(dc)
}

// mutate records an undo snapshot, flushes any floating selection into it,
// then applies fn. Every editor-level command that changes pixels goes
// through here so the snapshot-before-mutate rule holds in one place.
func (e *Editor) mutate(name string, fn func()) {
	e.flushSelection()
	e.hist.Save(e.buf)
	e.dirty = true
	fn()
	e.logf("%s", name)
	e.changed()
}

// flushSelection commits any floating snippet. The commit is covered by the
// snapshot taken when the selection began, not by the next one.
func (e *Editor) flushSelection() {
	if f, ok := e.tools[ToolSelect].(Flusher); ok {
		f.Flush()
	}
}

// Clear fills the whole canvas with the background color.
func (e *Editor) Clear() {
	e.mutate("clear canvas", func() {
		e.buf.Fill(e.bg)
	})
}

// ResizeCanvas grows or crops the canvas, filling new area with the
// background color.
func (e *Editor) ResizeCanvas(width, height int) {
	if width < 1 || height < 1 || (width == e.buf.Width() && height == e.buf.Height()) {
		return
	}
	e.mutate("resize canvas", func() {
		e.buf.ResizeCanvas(width, height, e.bg)
	})
}

// TrimCanvas crops the canvas to the bounding box of content pixels: anything
// that is neither fully transparent nor the background color. A floating
// selection is committed first so it counts as content. Nothing happens when
// the canvas is empty or the content already reaches every edge.
func (e *Editor) TrimCanvas() {
	e.flushSelection()
	r, ok := e.buf.ContentBounds(e.bg)
	if !ok || r == e.buf.Bounds() {
		return
	}
	e.mutate("trim canvas", func() {
		e.buf.Crop(r)
	})
}

// RotateCanvas rotates the whole canvas by angleDeg about its center,
// growing the buffer to the rotated bounding box.
func (e *Editor) RotateCanvas(angleDeg float64) {
	if math.Abs(angleDeg) < transform.ZeroAngleEps {
		return
	}
	e.mutate("rotate canvas", func() {
		e.buf = transform.Rotate(e.buf, angleDeg)
	})
}

// FlipHorizontal mirrors the canvas around its vertical axis.
func (e *Editor) FlipHorizontal() {
	e.mutate("flip horizontal", func() {
		e.buf.FlipHorizontal()
	})
}

// FlipVertical mirrors the canvas around its horizontal axis.
func (e *Editor) FlipVertical() {
	e.mutate("flip vertical", func() {
		e.buf.FlipVertical()
	})
}

// NewCanvas replaces the document with a fresh white canvas and drops all
// history.
func (e *Editor) NewCanvas(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	e.sel.Reset()
	e.buf = raster.New(width, height)
	e.hist.Clear()
	e.dirty = false
	e.logf("new canvas %dx%d", width, height)
	e.changed()
}

// Load replaces the document with the image at path and drops all history.
func (e *Editor) Load(path string) error {
	b, err := raster.Load(path)
	if err != nil {
		return err
	}
	e.sel.Reset()
	e.buf = b
	e.hist.Clear()
	e.dirty = false
	e.logf("loaded %s (%dx%d)", path, b.Width(), b.Height())
	e.changed()
	return nil
}

// Save commits any floating selection and writes the document to path.
func (e *Editor) Save(path string) error {
	e.flushSelection()
	if err := raster.Save(e.buf, path); err != nil {
		return err
	}
	e.dirty = false
	e.logf("saved %s", path)
	e.changed()
	return nil
}

// Undo restores the previous snapshot. A floating selection is discarded
// first; its snapshot already covers the pre-selection state.
func (e *Editor) Undo() {
	e.sel.Reset()
	if b, ok := e.hist.Undo(e.buf); ok {
		e.buf = b
		e.dirty = true
		e.changed()
	}
}

// Redo reapplies the most recently undone snapshot.
func (e *Editor) Redo() {
	e.sel.Reset()
	if b, ok := e.hist.Redo(e.buf); ok {
		e.buf = b
		e.dirty = true
		e.changed()
	}
}

// CanUndo reports whether Undo would do anything.
func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }

// CanRedo reports whether Redo would do anything.
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// Copy puts the floating selection, with its current transform applied, on
// the clipboard. Without a selection it does nothing.
func (e *Editor) Copy() {
	if img := e.sel.Transformed(); img != nil {
		e.clip.Put(img)
		e.logf("copy %dx%d", img.Width(), img.Height())
	}
}

// Cut copies the floating selection and then discards it. The source region
// was already cleared when the selection detached, so no new snapshot is
// needed.
func (e *Editor) Cut() {
	if img := e.sel.Transformed(); img != nil {
		e.clip.Put(img)
		e.sel.Delete()
		e.logf("cut %dx%d", img.Width(), img.Height())
		e.changed()
	}
}

// Delete discards the floating selection, leaving the cleared source region.
func (e *Editor) Delete() {
	if e.sel.HasSelection() {
		e.sel.Delete()
		e.changed()
	}
}

// Paste floats the clipboard image as a new selection, optionally centered
// at the given buffer point, and switches to the select tool.
func (e *Editor) Paste(center *geometry.Point2D) {
	img := e.clip.Get()
	if img == nil {
		return
	}
	e.SetTool(ToolSelect)
	e.mutate("paste", func() {
		e.sel.Paste(img, center)
	})
}

// SelectAll floats the entire canvas as a selection and switches to the
// select tool.
func (e *Editor) SelectAll() {
	e.SetTool(ToolSelect)
	e.mutate("select all", func() {
		e.sel.SelectAll()
	})
}

// Escape cancels pending tool state: text entry is abandoned, a floating
// selection is committed in place.
func (e *Editor) Escape() {
	if t, ok := e.tool.(*textTool); ok {
		t.cancel()
		e.changed()
		return
	}
	e.flushSelection()
	e.changed()
}

// TypeRune forwards typed characters to the text tool.
func (e *Editor) TypeRune(r rune) {
	if t, ok := e.tool.(*textTool); ok {
		t.typeRune(r)
		e.changed()
	}
}

// Backspace removes the last typed character during text entry.
func (e *Editor) Backspace() {
	if t, ok := e.tool.(*textTool); ok {
		t.backspace()
		e.changed()
	}
}

// Enter commits pending text entry.
func (e *Editor) Enter() {
	if t, ok := e.tool.(*textTool); ok {
		t.commitPending()
		e.changed()
	}
}
