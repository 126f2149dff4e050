// Package raster provides the mutable pixel buffer that backs the canvas,
// along with flood fill and image file I/O.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
)

// Buffer is a width x height grid of RGBA pixels (8 bits per channel) with a
// guaranteed alpha channel. It is the sole mutable image state of a document:
// the canvas owns it exclusively, and the selection machine borrows a copy (a
// snippet) which is written back on commit.
//
// Pixels are stored premultiplied (image.RGBA). Out-of-bounds reads and writes
// are silently ignored rather than treated as errors.
type Buffer struct {
	img *image.RGBA
}

// New creates a buffer of the given size filled with opaque white, matching a
// fresh canvas.
func New(width, height int) *Buffer {
	return NewFilled(width, height, color.RGBA{R: 255, G: 255, B: 255, A: 255})
}

// NewFilled creates a buffer of the given size filled with a single color.
func NewFilled(width, height int, c color.Color) *Buffer {
	b := &Buffer{img: image.NewRGBA(image.Rect(0, 0, width, height))}
	b.Fill(c)
	return b
}

// FromImage creates a buffer from an arbitrary image. Images without an alpha
// channel are promoted by compositing over full transparency, so the invariant
// that every buffer carries alpha holds from construction onward.
func FromImage(src image.Image) *Buffer {
	bounds := src.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(img, img.Bounds(), src, bounds.Min, draw.Over)
	return &Buffer{img: img}
}

// FromRGBA wraps an existing RGBA image without copying. The image's bounds
// must start at the origin.
func FromRGBA(img *image.RGBA) *Buffer {
	return &Buffer{img: img}
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the buffer bounds.
func (b *Buffer) Bounds() image.Rectangle { return b.img.Bounds() }

// RGBA exposes the underlying pixel storage for rendering.
func (b *Buffer) RGBA() *image.RGBA { return b.img }

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	cp := image.NewRGBA(b.img.Rect)
	copy(cp.Pix, b.img.Pix)
	return &Buffer{img: cp}
}

// Contains reports whether the pixel coordinate lies inside the buffer.
func (b *Buffer) Contains(x, y int) bool {
	return image.Pt(x, y).In(b.img.Rect)
}

// At returns the stored pixel at (x, y). The second result is false when the
// coordinate is out of bounds.
func (b *Buffer) At(x, y int) (color.RGBA, bool) {
	if !b.Contains(x, y) {
		return color.RGBA{}, false
	}
	return b.img.RGBAAt(x, y), true
}

// Set writes a pixel at (x, y). Out-of-bounds writes are ignored.
func (b *Buffer) Set(x, y int, c color.Color) {
	if !b.Contains(x, y) {
		return
	}
	b.img.Set(x, y, c)
}

// Fill replaces every pixel with the given color.
func (b *Buffer) Fill(c color.Color) {
	draw.Draw(b.img, b.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// FillRect replaces the pixels inside r (clipped to the buffer) with c.
func (b *Buffer) FillRect(r image.Rectangle, c color.Color) {
	draw.Draw(b.img, r.Intersect(b.img.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

// CopyRect returns a new buffer holding the contents of r. Areas of r outside
// the buffer come back fully transparent.
func (b *Buffer) CopyRect(r image.Rectangle) *Buffer {
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	visible := r.Intersect(b.img.Bounds())
	if !visible.Empty() {
		draw.Draw(out, visible.Sub(r.Min), b.img, visible.Min, draw.Src)
	}
	return &Buffer{img: out}
}

// Stamp replaces the destination pixels under src placed at (x, y) with src's
// pixels, including fully transparent ones. This is the cut-and-paste commit
// semantics: the source is copied, not blended over the destination.
func (b *Buffer) Stamp(src *Buffer, x, y int) {
	dstRect := image.Rect(x, y, x+src.Width(), y+src.Height())
	draw.Draw(b.img, dstRect, src.img, image.Point{}, draw.Src)
}

// ContentBounds scans for the bounding box of content pixels: anything that
// is neither fully transparent nor the background color. ok is false when
// the buffer holds no content at all.
func (b *Buffer) ContentBounds(bg color.RGBA) (image.Rectangle, bool) {
	w, h := b.Width(), b.Height()
	minX, minY, maxX, maxY := w, h, -1, -1
	for y := 0; y < h; y++ {
		row := b.img.Pix[y*b.img.Stride : y*b.img.Stride+w*4]
		for x := 0; x < w; x++ {
			o := x * 4
			px := color.RGBA{R: row[o], G: row[o+1], B: row[o+2], A: row[o+3]}
			if px.A == 0 || px == bg {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// Crop keeps only the pixels inside r, clipped to the buffer, which becomes
// the new origin.
func (b *Buffer) Crop(r image.Rectangle) {
	r = r.Intersect(b.img.Bounds())
	if r.Empty() || r == b.img.Bounds() {
		return
	}
	out := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	draw.Draw(out, out.Bounds(), b.img, r.Min, draw.Src)
	b.img = out
}

// ResizeCanvas grows or crops the buffer to width x height. New area is filled
// with bg; existing content keeps its original origin.
func (b *Buffer) ResizeCanvas(width, height int, bg color.Color) {
	if width == b.Width() && height == b.Height() {
		return
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(out, out.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	draw.Draw(out, b.img.Bounds(), b.img, image.Point{}, draw.Src)
	b.img = out
}

// Expand grows the buffer so it is at least width x height, filling new area
// with bg. It never shrinks.
func (b *Buffer) Expand(width, height int, bg color.Color) {
	if width <= b.Width() && height <= b.Height() {
		return
	}
	b.ResizeCanvas(max(width, b.Width()), max(height, b.Height()), bg)
}

// FlipHorizontal mirrors the buffer around its vertical axis in place.
func (b *Buffer) FlipHorizontal() {
	w, h := b.Width(), b.Height()
	out := image.NewRGBA(b.img.Rect)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.SetRGBA(w-1-x, y, b.img.RGBAAt(x, y))
		}
	}
	b.img = out
}

// FlipVertical mirrors the buffer around its horizontal axis in place.
func (b *Buffer) FlipVertical() {
	w, h := b.Width(), b.Height()
	out := image.NewRGBA(b.img.Rect)
	for y := 0; y < h; y++ {
		srcRow := b.img.Pix[y*b.img.Stride : y*b.img.Stride+w*4]
		dstRow := out.Pix[(h-1-y)*out.Stride : (h-1-y)*out.Stride+w*4]
		copy(dstRow, srcRow)
	}
	b.img = out
}

// Equal reports whether two buffers have identical dimensions and pixel data.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.Width() != other.Width() || b.Height() != other.Height() {
		return false
	}
	return bytes.Equal(b.img.Pix, other.img.Pix)
}
