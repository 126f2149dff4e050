// Package selection implements the rectangular selection tool's state
// machine: drag out a rectangle, float the enclosed pixels as a snippet,
// move/resize/rotate it, and commit it back to the canvas.
package selection

import (
	"image"
	"image/color"
	"math"

	"gopaint/internal/raster"
	"gopaint/internal/transform"
	"gopaint/pkg/geometry"
)

// State identifies the machine's current phase.
type State int

const (
	Idle State = iota
	Selecting
	Selected
	Moving
	Resizing
	Rotating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Selected:
		return "selected"
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	case Rotating:
		return "rotating"
	default:
		return "unknown"
	}
}

// Handle identifies a resize or rotation control point.
type Handle int

const (
	HandleNone Handle = iota
	HandleNW
	HandleN
	HandleNE
	HandleE
	HandleSE
	HandleS
	HandleSW
	HandleW
	HandleRotate
)

// handleOrder fixes hit-test priority; the rotation handle is tested last.
var handleOrder = [...]Handle{
	HandleNW, HandleN, HandleNE, HandleE,
	HandleSE, HandleS, HandleSW, HandleW,
	HandleRotate,
}

// opposite maps each resize handle to the handle that stays fixed while it is
// dragged.
var opposite = map[Handle]Handle{
	HandleNW: HandleSE, HandleN: HandleS, HandleNE: HandleSW, HandleE: HandleW,
	HandleSE: HandleNW, HandleS: HandleN, HandleSW: HandleNE, HandleW: HandleE,
}

func (h Handle) resizesX() bool {
	switch h {
	case HandleNW, HandleNE, HandleSW, HandleSE, HandleE, HandleW:
		return true
	}
	return false
}

func (h Handle) resizesY() bool {
	switch h {
	case HandleNW, HandleNE, HandleSW, HandleSE, HandleN, HandleS:
		return true
	}
	return false
}

// Host gives the machine access to the document it mutates. The buffer is
// borrowed, never owned: snippets are copies and commits write back in place.
type Host interface {
	Buffer() *raster.Buffer
	Background() color.RGBA
}

const (
	// minDragSize discards degenerate selection drags (either axis <= 1 px).
	minDragSize = 1.0
	// minResize floors width/height during a resize gesture.
	minResize = 4.0
	// rotateHandleOffset is how far the rotation handle sits above the top
	// edge, in device units (divided by zoom).
	rotateHandleOffset = 20.0
	// handleHitRadius is the hit-test radius in device units.
	handleHitRadius = 8.0
)

// Machine is the selection state machine. It is single-threaded: the host's
// event loop drives Press/Move/Release synchronously.
type Machine struct {
	host Host

	state   State
	start   geometry.Point2D
	rect    geometry.Rect
	angle   float64 // degrees about the rectangle center
	snippet *raster.Buffer

	moveOffset       geometry.Point2D
	activeHandle     Handle
	resizeAnchor     geometry.Point2D
	dragStartRect    geometry.Rect
	dragStartBearing float64
	dragStartAngle   float64

	zoom float64
}

// NewMachine creates an idle machine bound to the host document.
func NewMachine(host Host) *Machine {
	return &Machine{host: host, zoom: 1}
}

// State returns the current phase.
func (m *Machine) State() State { return m.state }

// Rect returns the selection rectangle in buffer coordinates.
func (m *Machine) Rect() geometry.Rect { return m.rect }

// Angle returns the rotation in degrees about the rectangle center.
func (m *Machine) Angle() float64 { return m.angle }

// Snippet returns the floating pixel copy, or nil when nothing floats.
func (m *Machine) Snippet() *raster.Buffer { return m.snippet }

// HasSelection reports whether a snippet is floating.
func (m *Machine) HasSelection() bool {
	switch m.state {
	case Selected, Moving, Resizing, Rotating:
		return m.snippet != nil
	}
	return false
}

// SetZoom tells the machine the current display zoom so handle hit radii and
// the rotation handle offset stay a constant size on screen.
func (m *Machine) SetZoom(z float64) {
	if z > 0 {
		m.zoom = z
	}
}

// Reset drops all gesture state and returns to idle without committing.
func (m *Machine) Reset() {
	m.state = Idle
	m.start = geometry.Point2D{}
	m.rect = geometry.Rect{}
	m.angle = 0
	m.snippet = nil
	m.moveOffset = geometry.Point2D{}
	m.activeHandle = HandleNone
	m.resizeAnchor = geometry.Point2D{}
	m.dragStartRect = geometry.Rect{}
	m.dragStartBearing = 0
	m.dragStartAngle = 0
}

// Corners returns the rotated rectangle's corners in NW, NE, SE, SW order.
func (m *Machine) Corners() [4]geometry.Point2D {
	return m.rect.Corners(m.angle)
}

// HandlePositions returns the current position of every handle, derived on
// demand from the rectangle and angle. Selections thinner than 2 px expose no
// handles.
func (m *Machine) HandlePositions() map[Handle]geometry.Point2D {
	if m.rect.Width < 2 || m.rect.Height < 2 {
		return nil
	}
	c := m.rect.Center()
	hw, hh := m.rect.Width/2, m.rect.Height/2
	rotOff := rotateHandleOffset / m.zoom

	local := map[Handle]geometry.Point2D{
		HandleNW: {X: -hw, Y: -hh}, HandleN: {X: 0, Y: -hh}, HandleNE: {X: hw, Y: -hh},
		HandleE:  {X: hw, Y: 0},
		HandleSE: {X: hw, Y: hh}, HandleS: {X: 0, Y: hh}, HandleSW: {X: -hw, Y: hh},
		HandleW:      {X: -hw, Y: 0},
		HandleRotate: {X: 0, Y: -hh - rotOff},
	}
	positions := make(map[Handle]geometry.Point2D, len(local))
	for h, lp := range local {
		positions[h] = geometry.Point2D{X: c.X + lp.X, Y: c.Y + lp.Y}.RotateAround(c, m.angle)
	}
	return positions
}

// HitHandle returns the handle near p, or HandleNone.
func (m *Machine) HitHandle(p geometry.Point2D) Handle {
	if m.state != Selected && m.state != Moving {
		return HandleNone
	}
	positions := m.HandlePositions()
	if positions == nil {
		return HandleNone
	}
	thr := math.Max(6, handleHitRadius/m.zoom)
	thrSq := thr * thr
	for _, h := range handleOrder {
		hp := positions[h]
		dx, dy := p.X-hp.X, p.Y-hp.Y
		if dx*dx+dy*dy < thrSq {
			return h
		}
	}
	return HandleNone
}

// Contains reports whether p lies inside the (possibly rotated) selection.
func (m *Machine) Contains(p geometry.Point2D) bool {
	if m.rect.Width < 2 || m.rect.Height < 2 {
		return false
	}
	local := p.RotateAround(m.rect.Center(), -m.angle)
	return m.rect.Contains(local)
}

// StartsNewSelection reports whether a press at p would flush any floating
// snippet and begin a new selecting drag. The dispatcher uses this to record
// the undo snapshot after the flush but before the new gesture mutates the
// buffer.
func (m *Machine) StartsNewSelection(p geometry.Point2D) bool {
	if m.state == Selected || m.state == Moving {
		if m.HitHandle(p) != HandleNone {
			return false
		}
		if m.Contains(p) {
			return false
		}
	}
	return true
}

// Press begins a gesture: grabbing the rotation handle, a resize handle, the
// selection interior, or — anywhere else — committing the current float and
// starting a fresh selecting drag.
func (m *Machine) Press(p geometry.Point2D) {
	if m.state == Selected || m.state == Moving {
		switch h := m.HitHandle(p); {
		case h == HandleRotate:
			m.dragStartBearing = geometry.Bearing(m.rect.Center(), p)
			m.dragStartAngle = m.angle
			m.state = Rotating
			return
		case h != HandleNone:
			m.activeHandle = h
			m.resizeAnchor = m.HandlePositions()[opposite[h]]
			m.dragStartRect = m.rect
			m.state = Resizing
			return
		case m.Contains(p):
			m.moveOffset = p.Sub(m.rect.Center())
			m.state = Moving
			return
		}
	}

	// Outside any selection: commit, then start a new drag. When driven
	// through the editor dispatcher the flush already happened before the
	// undo snapshot, making this a no-op.
	m.Flush()
	m.state = Selecting
	m.start = p
	m.rect = geometry.RectFromPoints(p, p)
	m.snippet = nil
	m.angle = 0
}

// Move updates the in-progress gesture from the current pointer position.
func (m *Machine) Move(p geometry.Point2D) {
	switch m.state {
	case Selecting:
		m.rect = geometry.RectFromPoints(m.start, p)
	case Moving:
		m.rect = m.rect.MoveCenter(p.Sub(m.moveOffset))
	case Resizing:
		m.resize(p)
	case Rotating:
		m.angle = m.dragStartAngle + (geometry.Bearing(m.rect.Center(), p) - m.dragStartBearing)
	}
}

// resize recomputes the rectangle from the pointer, keeping the handle
// opposite the active one fixed. The pointer delta from that anchor is
// projected onto the rectangle's rotated local axes; corner handles change
// both dimensions, edge handles only one. The new center is the anchor plus
// half the local-space delta rotated back into world space.
func (m *Machine) resize(p geometry.Point2D) {
	anchor := m.resizeAnchor
	rad := geometry.Radians(m.angle)
	cos, sin := math.Cos(rad), math.Sin(rad)

	vx, vy := p.X-anchor.X, p.Y-anchor.Y
	projX := vx*cos + vy*sin
	projY := -vx*sin + vy*cos

	w := m.dragStartRect.Width
	h := m.dragStartRect.Height
	var sx, sy float64
	if m.activeHandle.resizesX() {
		w = math.Max(math.Abs(projX), minResize)
		sx = projX / 2
	}
	if m.activeHandle.resizesY() {
		h = math.Max(math.Abs(projY), minResize)
		sy = projY / 2
	}

	cx := anchor.X + sx*cos - sy*sin
	cy := anchor.Y + sx*sin + sy*cos
	m.rect = geometry.Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

// Release finalizes the gesture. Releasing a selecting drag with both
// dimensions above the degenerate threshold detaches the snippet and clears
// the source region to the background color; a degenerate drag is discarded.
func (m *Machine) Release(p geometry.Point2D) {
	switch m.state {
	case Selecting:
		m.rect = geometry.RectFromPoints(m.start, p)
		if m.rect.Width > minDragSize && m.rect.Height > minDragSize {
			r := m.rectInt()
			m.snippet = m.host.Buffer().CopyRect(r)
			m.host.Buffer().FillRect(r, m.host.Background())
			m.state = Selected
		} else {
			m.Reset()
		}
	case Moving, Resizing, Rotating:
		m.state = Selected
		m.activeHandle = HandleNone
	}
}

// rectInt returns the selection rectangle as integer pixel bounds, at least
// 1x1.
func (m *Machine) rectInt() image.Rectangle {
	x, y := int(m.rect.X), int(m.rect.Y)
	w := max(int(m.rect.Width), 1)
	h := max(int(m.rect.Height), 1)
	return image.Rect(x, y, x+w, y+h)
}

// Flush commits any floating snippet back to the buffer and returns to idle.
func (m *Machine) Flush() {
	m.commit()
	m.Reset()
}

// commit stamps the (possibly transformed) snippet back onto the buffer,
// expanding it first when the destination exceeds the current bounds. The
// undo snapshot covering the commit is the one recorded when the selection
// gesture began, so the whole select/transform/commit sequence undoes as a
// single step.
func (m *Machine) commit() {
	if !m.HasSelection() {
		return
	}
	buf := m.host.Buffer()
	r := m.rectInt()
	w, h := r.Dx(), r.Dy()

	if math.Abs(m.angle) < transform.ZeroAngleEps {
		scaled := m.snippet
		if w != m.snippet.Width() || h != m.snippet.Height() {
			scaled = transform.SnapAlpha(transform.Scale(m.snippet, w, h))
		}
		buf.Expand(r.Min.X+w, r.Min.Y+h, m.host.Background())
		buf.Stamp(scaled, r.Min.X, r.Min.Y)
		return
	}

	result := transform.SnapAlpha(transform.RenderTransformed(m.snippet, w, h, m.angle))
	c := m.rect.Center()
	destX := c.X - float64(result.Width())/2
	destY := c.Y - float64(result.Height())/2

	buf.Expand(
		int(math.Ceil(destX+float64(result.Width()))),
		int(math.Ceil(destY+float64(result.Height()))),
		m.host.Background(),
	)

	// Only pixels inside the exact rotated-rectangle polygon may touch the
	// destination; the rendered bounding box carries transparent corners
	// that must not clear canvas content outside the selection.
	target := geometry.Rect{
		X: c.X - float64(w)/2, Y: c.Y - float64(h)/2,
		Width: float64(w), Height: float64(h),
	}
	corners := target.Corners(m.angle)
	stampClipped(buf, result, int(math.Round(destX)), int(math.Round(destY)), corners[:])
}

// stampClipped copies src pixels placed at (ox, oy) into dst wherever the
// destination pixel center falls inside the clip polygon, with replace
// (not blend) semantics.
func stampClipped(dst, src *raster.Buffer, ox, oy int, clip []geometry.Point2D) {
	d := dst.RGBA()
	s := src.RGBA()
	for j := 0; j < src.Height(); j++ {
		py := oy + j
		for i := 0; i < src.Width(); i++ {
			px := ox + i
			if !dst.Contains(px, py) {
				continue
			}
			center := geometry.Point2D{X: float64(px) + 0.5, Y: float64(py) + 0.5}
			if !geometry.PointInPolygon(center, clip) {
				continue
			}
			so := s.PixOffset(i, j)
			do := d.PixOffset(px, py)
			copy(d.Pix[do:do+4], s.Pix[so:so+4])
		}
	}
}

// Transformed returns the snippet with the current scale and rotation
// applied at live preview quality — no alpha snap, which only happens on an
// actual commit. It returns nil when nothing floats.
func (m *Machine) Transformed() *raster.Buffer {
	if m.snippet == nil {
		return nil
	}
	r := m.rectInt()
	return transform.RenderTransformed(m.snippet, r.Dx(), r.Dy(), m.angle)
}

// Delete discards the floating snippet. The source region stays cleared to
// the background color, as it was at selection time.
func (m *Machine) Delete() {
	m.snippet = nil
	m.Reset()
}

// Paste floats img as a new selection. Images larger than the buffer in
// either axis expand it and anchor the paste at the origin so nothing is
// clipped; otherwise an optional center point positions it. The caller
// flushes any previous float and records the undo snapshot first.
func (m *Machine) Paste(img *raster.Buffer, center *geometry.Point2D) {
	buf := m.host.Buffer()
	var x, y int
	if img.Width() > buf.Width() || img.Height() > buf.Height() {
		buf.Expand(img.Width(), img.Height(), m.host.Background())
	} else if center != nil {
		x = int(center.X) - img.Width()/2
		y = int(center.Y) - img.Height()/2
	}
	m.snippet = img
	m.rect = geometry.NewRect(float64(x), float64(y), float64(img.Width()), float64(img.Height()))
	m.angle = 0
	m.state = Selected
}

// SelectAll floats the entire buffer as the selection, clearing the canvas to
// the background color underneath. The caller flushes and snapshots first.
func (m *Machine) SelectAll() {
	buf := m.host.Buffer()
	r := buf.Bounds()
	m.snippet = buf.CopyRect(r)
	buf.FillRect(r, m.host.Background())
	m.rect = geometry.NewRect(0, 0, float64(r.Dx()), float64(r.Dy()))
	m.angle = 0
	m.state = Selected
}
