package transform

import (
	"image"
	"image/color"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"gopaint/internal/raster"
)

var red = color.RGBA{R: 255, A: 255}

func TestScaleDimensions(t *testing.T) {
	src := raster.NewFilled(10, 20, red)
	out := Scale(src, 25, 5)
	if out.Width() != 25 || out.Height() != 5 {
		t.Errorf("size = %dx%d, want 25x5", out.Width(), out.Height())
	}

	// Degenerate targets clamp to one pixel.
	out = Scale(src, 0, -3)
	if out.Width() != 1 || out.Height() != 1 {
		t.Errorf("size = %dx%d, want clamped 1x1", out.Width(), out.Height())
	}
}

func TestScaleSolidStaysSolid(t *testing.T) {
	src := raster.NewFilled(10, 10, red)
	out := Scale(src, 30, 30)
	for _, xy := range [][2]int{{0, 0}, {15, 15}, {29, 29}} {
		if got, _ := out.At(xy[0], xy[1]); got != red {
			t.Errorf("pixel %v = %v, want solid red", xy, got)
		}
	}
}

func TestRenderTransformedZeroAngleIsACopy(t *testing.T) {
	src := raster.NewFilled(10, 10, red)
	out := RenderTransformed(src, 10, 10, 0.005) // below the epsilon
	if !out.Equal(src) {
		t.Error("sub-epsilon rotation at the same size must copy the source")
	}
	out.Set(0, 0, color.RGBA{})
	if !src.Equal(raster.NewFilled(10, 10, red)) {
		t.Error("the copy must not alias the source")
	}
}

func TestRenderTransformedZeroAngleScalesDirectly(t *testing.T) {
	src := raster.NewFilled(10, 10, red)
	out := RenderTransformed(src, 20, 40, 0)
	if out.Width() != 20 || out.Height() != 40 {
		t.Errorf("size = %dx%d, want 20x40", out.Width(), out.Height())
	}
}

func TestRenderTransformedRotatedSize(t *testing.T) {
	src := raster.NewFilled(40, 40, red)

	// Quarter turn of a square: bounding box 40x40, plus the fixed padding.
	out := RenderTransformed(src, 40, 40, 90)
	if out.Width() != 42 || out.Height() != 42 {
		t.Errorf("size = %dx%d, want 42x42", out.Width(), out.Height())
	}

	// 45 degrees: bounding box 40*sqrt2, ceil 57, plus padding.
	out = RenderTransformed(src, 40, 40, 45)
	if out.Width() != 59 || out.Height() != 59 {
		t.Errorf("size = %dx%d, want 59x59", out.Width(), out.Height())
	}
}

func TestRenderTransformedCenterContent(t *testing.T) {
	src := raster.NewFilled(40, 40, red)
	out := RenderTransformed(src, 40, 40, 33)
	c, _ := out.At(out.Width()/2, out.Height()/2)
	if c.R < 200 || c.A < 200 {
		t.Errorf("center pixel = %v, want solidly red", c)
	}
	// The bounding-box corners lie outside the rotated square.
	corner, _ := out.At(0, 0)
	if corner.A != 0 {
		t.Errorf("corner alpha = %d, want fully transparent", corner.A)
	}
}

func TestRotateWholeCanvas(t *testing.T) {
	src := raster.NewFilled(100, 50, red)
	out := Rotate(src, 90)
	if out.Width() != 50 || out.Height() != 100 {
		t.Errorf("size = %dx%d, want 50x100", out.Width(), out.Height())
	}
	c, _ := out.At(25, 50)
	if c.R < 200 || c.A < 200 {
		t.Errorf("center pixel = %v, want solidly red", c)
	}
}

func TestRotateQuarterTurnsKeepExactSize(t *testing.T) {
	b := raster.NewFilled(100, 50, red)
	for i := 0; i < 4; i++ {
		b = Rotate(b, 90)
	}
	if b.Width() != 100 || b.Height() != 50 {
		t.Errorf("size after four quarter turns = %dx%d, want 100x50", b.Width(), b.Height())
	}
	c, _ := b.At(50, 25)
	if c.R < 200 || c.A < 200 {
		t.Errorf("center pixel = %v, want solidly red", c)
	}
}

func TestRenderTransformedThereAndBack(t *testing.T) {
	// Left half green, right half red: rotating by an angle and back must
	// put each color back on its own side, modulo resampling blur.
	green := color.RGBA{G: 255, A: 255}
	src := raster.NewFilled(40, 40, red)
	src.FillRect(image.Rect(0, 0, 20, 40), green)

	once := RenderTransformed(src, 40, 40, 33)
	back := RenderTransformed(once, once.Width(), once.Height(), -33)

	cx, cy := back.Width()/2, back.Height()/2
	left, _ := back.At(cx-10, cy)
	right, _ := back.At(cx+10, cy)
	if left.G < 200 || left.R > 50 {
		t.Errorf("left of center = %v, want green", left)
	}
	if right.R < 200 || right.G > 50 {
		t.Errorf("right of center = %v, want red", right)
	}
}

func TestSnapAlpha(t *testing.T) {
	b := raster.NewFilled(4, 1, color.RGBA{})
	b.RGBA().SetRGBA(0, 0, color.RGBA{R: 255, A: 255})     // opaque stays
	b.RGBA().SetRGBA(1, 0, color.RGBA{R: 10, G: 20, A: 0}) // stray color on transparent
	b.RGBA().SetRGBA(2, 0, color.RGBA{R: 128, A: 128})     // half coverage
	b.RGBA().SetRGBA(3, 0, color.RGBA{R: 1, A: 3})         // faint fringe

	SnapAlpha(b)

	if got, _ := b.At(0, 0); got != red {
		t.Errorf("opaque pixel = %v, want unchanged", got)
	}
	if got, _ := b.At(1, 0); got != (color.RGBA{}) {
		t.Errorf("transparent pixel = %v, want fully zeroed", got)
	}
	if got, _ := b.At(2, 0); got.A != 255 || got.R < 250 {
		t.Errorf("half-covered pixel = %v, want opaque with color restored", got)
	}
	if got, _ := b.At(3, 0); got.A != 255 {
		t.Errorf("fringe pixel alpha = %d, want snapped to 255", got.A)
	}
}

func TestTransformedCommitsHaveBinaryAlpha(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("alpha is exactly 0 or 255 after snap", prop.ForAll(
		func(w, h int, angle float64) bool {
			src := raster.NewFilled(17, 11, red)
			out := SnapAlpha(RenderTransformed(src, w, h, angle))
			pix := out.RGBA().Pix
			for i := 3; i < len(pix); i += 4 {
				if pix[i] != 0 && pix[i] != 255 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 64), gen.IntRange(1, 64), gen.Float64Range(-360, 360),
	))

	properties.TestingRun(t)
}
