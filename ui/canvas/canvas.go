// Package canvas provides the drawing surface widget: the document buffer
// with pan, zoom, a transparency checkerboard, and tool overlay rendering.
package canvas

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"gopaint/internal/editor"
	"gopaint/pkg/geometry"
)

const (
	minZoom  = 0.25
	maxZoom  = 64.0
	zoomStep = 1.25

	checkerSize = 8
)

var (
	workspaceGray = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	checkerLight  = color.RGBA{R: 220, G: 180, B: 220, A: 255}
	checkerDark   = color.RGBA{R: 180, G: 140, B: 140, A: 255}
)

// PaintCanvas displays the editor's buffer and routes pointer input to it.
type PaintCanvas struct {
	widget.BaseWidget

	ed *editor.Editor

	raster  *fynecanvas.Raster
	zoom    float64
	imgSize fyne.Size

	scroll  *zoomScroll
	content *paintArea

	onZoomChange func(zoom float64)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PaintCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *PaintCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

// Scrolled zooms about the pointer: after the zoom change the scroll offset
// is adjusted so the buffer point under the cursor stays put.
func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	oldZoom := zs.canvas.zoom
	switch {
	case ev.Scrolled.DY > 0:
		zs.canvas.ZoomIn()
	case ev.Scrolled.DY < 0:
		zs.canvas.ZoomOut()
	default:
		return
	}
	zs.scroll.Offset = anchoredOffset(zs.scroll.Offset, ev.Position, oldZoom, zs.canvas.zoom)
	zs.scroll.Refresh()
}

// anchoredOffset returns the scroll offset that keeps the content point under
// the viewport position pos fixed across a zoom change. The scroll container
// clamps the result to the content extents on refresh.
func anchoredOffset(off, pos fyne.Position, oldZoom, newZoom float64) fyne.Position {
	if oldZoom <= 0 || oldZoom == newZoom {
		return off
	}
	ratio := float32(newZoom / oldZoom)
	return fyne.NewPos((off.X+pos.X)*ratio-pos.X, (off.Y+pos.Y)*ratio-pos.Y)
}

// Pan drags the content by (dx, dy): positive deltas move it toward
// larger screen coordinates, so the offset shrinks.
func (zs *zoomScroll) Pan(dx, dy float32) {
	zs.scroll.Offset = fyne.NewPos(zs.scroll.Offset.X-dx, zs.scroll.Offset.Y-dy)
	zs.scroll.Refresh()
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// paintArea wraps the raster and translates mouse events into editor
// pointer events in buffer coordinates.
type paintArea struct {
	widget.BaseWidget
	canvas *PaintCanvas
	raster *fynecanvas.Raster

	heldButton editor.Button
	panning    bool
	panLast    fyne.Position
}

func newPaintArea(pc *PaintCanvas, raster *fynecanvas.Raster) *paintArea {
	pa := &paintArea{canvas: pc, raster: raster}
	pa.ExtendBaseWidget(pa)
	return pa
}

func (pa *paintArea) CreateRenderer() fyne.WidgetRenderer {
	return &paintAreaRenderer{area: pa}
}

func (pa *paintArea) MinSize() fyne.Size {
	return pa.raster.MinSize()
}

// bufferPos converts a widget-relative position to buffer coordinates.
func (pa *paintArea) bufferPos(pos fyne.Position) geometry.Point2D {
	z := pa.canvas.zoom
	return geometry.Point2D{X: float64(pos.X) / z, Y: float64(pos.Y) / z}
}

func button(ev *desktop.MouseEvent) editor.Button {
	switch ev.Button {
	case desktop.MouseButtonSecondary:
		return editor.ButtonRight
	case desktop.MouseButtonPrimary:
		return editor.ButtonLeft
	default:
		return editor.ButtonNone
	}
}

func shifted(ev *desktop.MouseEvent) bool {
	return ev.Modifier&fyne.KeyModifierShift != 0
}

func (pa *paintArea) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonTertiary {
		pa.panning = true
		pa.panLast = ev.Position
		return
	}
	b := button(ev)
	if b == editor.ButtonNone {
		return
	}
	pa.heldButton = b
	pa.canvas.ed.Press(editor.PointerEvent{
		Pos:    pa.bufferPos(ev.Position),
		Button: b,
		Shift:  shifted(ev),
	})
}

func (pa *paintArea) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonTertiary {
		pa.panning = false
		return
	}
	b := pa.heldButton
	if b == editor.ButtonNone {
		return
	}
	pa.heldButton = editor.ButtonNone
	pa.canvas.ed.Release(editor.PointerEvent{
		Pos:    pa.bufferPos(ev.Position),
		Button: b,
		Shift:  shifted(ev),
	})
}

func (pa *paintArea) MouseMoved(ev *desktop.MouseEvent) {
	if pa.panning {
		// Shifting the offset moves the content with the pointer, so the
		// next event reports a position back near panLast.
		pa.canvas.scroll.Pan(ev.Position.X-pa.panLast.X, ev.Position.Y-pa.panLast.Y)
		return
	}
	pa.canvas.ed.Move(editor.PointerEvent{
		Pos:    pa.bufferPos(ev.Position),
		Button: pa.heldButton,
		Shift:  shifted(ev),
	})
}

func (pa *paintArea) MouseIn(ev *desktop.MouseEvent) {}

func (pa *paintArea) MouseOut() {
	// Releasing outside the widget would otherwise leave a stuck drag.
	if pa.heldButton != editor.ButtonNone {
		pa.heldButton = editor.ButtonNone
	}
	pa.panning = false
}

func (pa *paintArea) Cursor() desktop.Cursor {
	switch pa.canvas.ed.Tool() {
	case editor.ToolText:
		return desktop.TextCursor
	case editor.ToolSelect:
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}

type paintAreaRenderer struct {
	area *paintArea
}

func (r *paintAreaRenderer) Layout(size fyne.Size) {
	r.area.raster.Resize(size)
}

func (r *paintAreaRenderer) MinSize() fyne.Size {
	return r.area.raster.MinSize()
}

func (r *paintAreaRenderer) Refresh() {
	r.area.raster.Refresh()
}

func (r *paintAreaRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.area.raster}
}

func (r *paintAreaRenderer) Destroy() {}

// NewPaintCanvas creates the canvas widget bound to an editor.
func NewPaintCanvas(ed *editor.Editor) *PaintCanvas {
	pc := &PaintCanvas{
		ed:   ed,
		zoom: 1.0,
	}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels

	pc.content = newPaintArea(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	ed.OnChange(pc.Refresh)
	pc.updateContentSize()

	pc.ExtendBaseWidget(pc)
	return pc
}

// Container returns the canvas container for embedding in layouts.
func (pc *PaintCanvas) Container() fyne.CanvasObject {
	return pc.scroll
}

// SetZoom sets the zoom level, clamped to the supported range.
func (pc *PaintCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	pc.zoom = zoom
	pc.ed.SetZoom(zoom)
	pc.updateContentSize()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// GetZoom returns the current zoom level.
func (pc *PaintCanvas) GetZoom() float64 {
	return pc.zoom
}

// ZoomIn increases the zoom level.
func (pc *PaintCanvas) ZoomIn() {
	pc.SetZoom(pc.zoom * zoomStep)
}

// ZoomOut decreases the zoom level.
func (pc *PaintCanvas) ZoomOut() {
	pc.SetZoom(pc.zoom / zoomStep)
}

// ZoomReset returns to 1:1.
func (pc *PaintCanvas) ZoomReset() {
	pc.SetZoom(1.0)
}

// FitToWindow adjusts zoom so the whole buffer is visible.
func (pc *PaintCanvas) FitToWindow() {
	buf := pc.ed.Buffer()
	if buf.Width() == 0 || buf.Height() == 0 {
		return
	}
	viewSize := pc.scroll.Size()
	if viewSize.Width <= 0 || viewSize.Height <= 0 {
		return
	}

	zoomX := float64(viewSize.Width) / float64(buf.Width())
	zoomY := float64(viewSize.Height) / float64(buf.Height())
	zoom := zoomX
	if zoomY < zoomX {
		zoom = zoomY
	}
	pc.SetZoom(zoom * 0.95)
}

// OnZoomChange sets a callback for zoom changes.
func (pc *PaintCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// Refresh redraws the canvas; the editor calls this on every change.
func (pc *PaintCanvas) Refresh() {
	pc.updateContentSize()
	pc.raster.Refresh()
}

// updateContentSize resizes the raster to the zoomed buffer size so the
// scroll container gets the right content extents.
func (pc *PaintCanvas) updateContentSize() {
	buf := pc.ed.Buffer()
	width := float32(float64(buf.Width()) * pc.zoom)
	height := float32(float64(buf.Height()) * pc.zoom)
	pc.imgSize = fyne.NewSize(width, height)

	pc.raster.SetMinSize(pc.imgSize)
	pc.raster.Resize(pc.imgSize)
	if pc.content != nil {
		pc.content.Resize(pc.imgSize)
	}
	if pc.scroll != nil {
		pc.scroll.Refresh()
	}
}

// draw renders the visible canvas: a checkerboard showing through
// transparent pixels, the buffer scaled to the zoom with hard pixel edges,
// and the active tool's overlay on top.
func (pc *PaintCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := pc.ed.Buffer()

	imgW := int(float64(buf.Width()) * pc.zoom)
	imgH := int(float64(buf.Height()) * pc.zoom)
	if imgW > w {
		imgW = w
	}
	if imgH > h {
		imgH = h
	}

	fillRect(output, image.Rect(0, 0, w, h), workspaceGray)
	drawCheckerboard(output, image.Rect(0, 0, imgW, imgH))

	xdraw.NearestNeighbor.Scale(
		output,
		image.Rect(0, 0, imgW, imgH),
		buf.RGBA(),
		image.Rect(0, 0, int(float64(imgW)/pc.zoom), int(float64(imgH)/pc.zoom)),
		xdraw.Over, nil,
	)

	// Tool overlay, drawn in buffer coordinates and scaled by the context
	// transform so stroke widths divided by zoom stay one device pixel.
	dc := gg.NewContextForRGBA(output)
	dc.Scale(pc.zoom, pc.zoom)
	pc.ed.DrawOverlay(dc)

	return output
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

// drawCheckerboard fills r with the transparency pattern. The pattern is
// anchored to the view, not the document, so it does not swim while panning
// pixels around.
func drawCheckerboard(img *image.RGBA, r image.Rectangle) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if ((x/checkerSize)+(y/checkerSize))%2 == 0 {
				img.SetRGBA(x, y, checkerLight)
			} else {
				img.SetRGBA(x, y, checkerDark)
			}
		}
	}
}

// CreateRenderer implements fyne.Widget.
func (pc *PaintCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &paintCanvasRenderer{canvas: pc}
}

type paintCanvasRenderer struct {
	canvas *PaintCanvas
}

func (r *paintCanvasRenderer) Layout(size fyne.Size) {
	if r.canvas.scroll != nil {
		r.canvas.scroll.Resize(size)
	}
}

func (r *paintCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *paintCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *paintCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.scroll}
}

func (r *paintCanvasRenderer) Destroy() {}
