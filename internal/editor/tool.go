package editor

import (
	"github.com/fogleman/gg"

	"gopaint/internal/raster"
	"gopaint/pkg/geometry"
)

// ToolType identifies one of the drawing tools.
type ToolType int

const (
	ToolPencil ToolType = iota
	ToolBrush
	ToolEraser
	ToolAlphaBrush
	ToolLine
	ToolRect
	ToolEllipse
	ToolFill
	ToolText
	ToolPicker
	ToolSelect
)

func (t ToolType) String() string {
	switch t {
	case ToolPencil:
		return "pencil"
	case ToolBrush:
		return "brush"
	case ToolEraser:
		return "eraser"
	case ToolAlphaBrush:
		return "alpha brush"
	case ToolLine:
		return "line"
	case ToolRect:
		return "rectangle"
	case ToolEllipse:
		return "ellipse"
	case ToolFill:
		return "fill"
	case ToolText:
		return "text"
	case ToolPicker:
		return "picker"
	case ToolSelect:
		return "select"
	default:
		return "unknown"
	}
}

// ShapeFillMode selects how the shape tools render.
type ShapeFillMode int

const (
	// ShapeOutline strokes the shape with the primary color.
	ShapeOutline ShapeFillMode = iota
	// ShapeFilledOutline fills with the secondary color and strokes with the
	// primary.
	ShapeFilledOutline
	// ShapeFilled fills with the primary color, no outline.
	ShapeFilled
)

// Button identifies the pressed pointer button. The left button draws with
// the foreground color, the right with the background color.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
)

// PointerEvent is a pointer press, move, or release in buffer coordinates.
type PointerEvent struct {
	Pos    geometry.Point2D
	Button Button
	Shift  bool
}

// Tool handles pointer gestures on the canvas. Tools run synchronously on
// the event loop and mutate the editor's buffer directly.
//
// WillMutate reports whether a press at ev would change the buffer; the
// editor consults it before dispatching the press so the undo snapshot is
// recorded exactly once per logical action, and only for actions that
// actually mutate.
type Tool interface {
	Press(ev PointerEvent)
	Move(ev PointerEvent)
	Release(ev PointerEvent)
	WillMutate(ev PointerEvent) bool
	DrawOverlay(dc *gg.Context)
}

// Flusher is implemented by tools holding uncommitted state that a new press
// finalizes. The editor flushes before recording the undo snapshot, so the
// committed pixels belong to the previous action, not the new one.
type Flusher interface {
	Flush()
}

// Deactivater is implemented by tools that need to finalize state when the
// user switches away from them.
type Deactivater interface {
	Deactivate()
}

// Logger is the sink for editor event logging; *log.Logger satisfies it.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Clipboard exchanges pixel blocks between copy/cut and paste. The default
// implementation is in-process; a host can substitute a system-backed one.
type Clipboard interface {
	Put(*raster.Buffer)
	Get() *raster.Buffer
}

type memClipboard struct {
	img *raster.Buffer
}

// NewClipboard returns an in-process clipboard.
func NewClipboard() Clipboard {
	return &memClipboard{}
}

func (c *memClipboard) Put(b *raster.Buffer) {
	if b != nil {
		c.img = b.Clone()
	}
}

func (c *memClipboard) Get() *raster.Buffer {
	if c.img == nil {
		return nil
	}
	return c.img.Clone()
}
