package raster

import (
	"image/color"
)

// point is a queued flood-fill coordinate.
type point struct{ x, y int }

// FloodFill replaces the 4-connected region of pixels whose stored color
// exactly equals the seed pixel's original color (including alpha) with fill.
// The target color is snapshotted before any write, so already-filled pixels
// are never re-matched against the new color.
//
// Out-of-bounds seeds are a no-op. If the target already equals the fill
// color the buffer is left untouched. The fill itself records no undo
// snapshot; that is the caller's responsibility.
//
// Semi-opaque fills must be passed as color.NRGBA (or any non-premultiplied
// color type) so the model conversion premultiplies them; the stored value is
// clamped to keep the buffer's premultiplied invariant even for malformed
// inputs.
func FloodFill(b *Buffer, x, y int, fill color.Color) {
	target, ok := b.At(x, y)
	if !ok {
		return
	}
	fillRGBA := color.RGBAModel.Convert(fill).(color.RGBA)
	fillRGBA.R = min(fillRGBA.R, fillRGBA.A)
	fillRGBA.G = min(fillRGBA.G, fillRGBA.A)
	fillRGBA.B = min(fillRGBA.B, fillRGBA.A)
	if target == fillRGBA {
		return
	}
	floodFill(b, x, y, target, func(px, py int) {
		b.img.SetRGBA(px, py, fillRGBA)
	})
}

// AlphaFloodFill replaces the 4-connected same-colored region at the seed with
// full transparency. Seeds on an already fully transparent pixel are a no-op,
// as are out-of-bounds seeds.
func AlphaFloodFill(b *Buffer, x, y int) {
	target, ok := b.At(x, y)
	if !ok || target.A == 0 {
		return
	}
	floodFill(b, x, y, target, func(px, py int) {
		b.img.SetRGBA(px, py, color.RGBA{})
	})
}

// floodFill runs the shared breadth-first traversal from the seed, calling
// set exactly once for each connected pixel matching target. The two public
// fill actions differ only in the terminal write.
func floodFill(b *Buffer, x, y int, target color.RGBA, set func(px, py int)) {
	w, h := b.Width(), b.Height()
	visited := make([]bool, w*h)

	queue := make([]point, 0, 64)
	queue = append(queue, point{x, y})
	visited[y*w+x] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if b.img.RGBAAt(p.x, p.y) != target {
			continue
		}
		set(p.x, p.y)

		for _, n := range [4]point{{p.x - 1, p.y}, {p.x + 1, p.y}, {p.x, p.y - 1}, {p.x, p.y + 1}} {
			if n.x < 0 || n.x >= w || n.y < 0 || n.y >= h {
				continue
			}
			if visited[n.y*w+n.x] {
				continue
			}
			visited[n.y*w+n.x] = true
			queue = append(queue, n)
		}
	}
}
