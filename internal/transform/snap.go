package transform

import (
	"gopaint/internal/raster"
)

// SnapAlpha forces every pixel's alpha to exactly 0 (if it was 0) or exactly
// 255 (if it was anything else), zeroing the color channels of fully
// transparent pixels. It mutates b in place and returns it.
//
// Without this step, repeated resampling would leave a widening halo of
// semi-transparent fringe pixels at the selection boundary. Snapping keeps
// committed selections crisp, matching a cut-and-paste paradigm instead of
// soft compositing. The trade-off is deliberate and lossy: anti-aliased edges
// are destroyed on every transformed commit, and the original partial alpha
// cannot be recovered from the output.
func SnapAlpha(b *raster.Buffer) *raster.Buffer {
	pix := b.RGBA().Pix
	for i := 0; i < len(pix); i += 4 {
		a := uint32(pix[i+3])
		switch {
		case a == 0:
			pix[i+0] = 0
			pix[i+1] = 0
			pix[i+2] = 0
		case a < 255:
			// Un-premultiply before forcing alpha opaque, otherwise the
			// color channels stay darkened by the old alpha.
			pix[i+0] = unpremul(pix[i+0], a)
			pix[i+1] = unpremul(pix[i+1], a)
			pix[i+2] = unpremul(pix[i+2], a)
			pix[i+3] = 255
		}
	}
	return b
}

func unpremul(c uint8, a uint32) uint8 {
	v := (uint32(c)*255 + a/2) / a
	if v > 255 {
		v = 255
	}
	return uint8(v)
}
