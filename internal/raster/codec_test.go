package raster

import (
	"image/color"
	"path/filepath"
	"testing"
)

func TestPNGRoundTripPreservesAlpha(t *testing.T) {
	b := NewFilled(8, 8, clear)
	b.Set(3, 3, red)

	path := filepath.Join(t.TempDir(), "out.png")
	if err := Save(b, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(b) {
		t.Error("PNG round trip must be lossless, including alpha")
	}
}

func TestBMPFlattensOverWhite(t *testing.T) {
	b := NewFilled(4, 4, clear)
	b.Set(0, 0, red)

	path := filepath.Join(t.TempDir(), "out.bmp")
	if err := Save(b, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	pixel(t, got, 0, 0, red)
	// Transparent pixels come back as the white flatten underlay.
	pixel(t, got, 1, 1, white)
}

func TestJPEGSaveLoads(t *testing.T) {
	b := NewFilled(16, 16, red)
	path := filepath.Join(t.TempDir(), "out.jpg")
	if err := Save(b, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Width() != 16 || got.Height() != 16 {
		t.Fatalf("size = %dx%d, want 16x16", got.Width(), got.Height())
	}
	c, _ := got.At(8, 8)
	// JPEG is lossy; just require the dominant channel to survive.
	if c.R < 200 || c.G > 80 || c.A != 255 {
		t.Errorf("pixel = %v, want approximately red and opaque", c)
	}
}

func TestUnknownExtensionFallsBackToPNG(t *testing.T) {
	b := NewFilled(4, 4, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	path := filepath.Join(t.TempDir(), "out.dat")
	if err := Save(b, path); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(b) {
		t.Error("unknown extension must save as lossless PNG")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.png")); err == nil {
		t.Error("loading a missing file must fail")
	}
}
