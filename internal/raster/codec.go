package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Load reads an image file and returns it as a buffer, promoting formats
// without alpha. Decode failures are returned to the caller; user messaging is
// out of scope here.
func Load(path string) (*Buffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img), nil
}

// Save writes the buffer to path using a format inferred from the extension.
// Unknown extensions fall back to PNG.
func Save(b *Buffer, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(file, flatten(b), &jpeg.Options{Quality: 92})
	case ".bmp":
		err = bmp.Encode(file, flatten(b))
	case ".gif":
		err = gif.Encode(file, b.RGBA(), nil)
	case ".tif", ".tiff":
		err = tiff.Encode(file, b.RGBA(), nil)
	default:
		err = png.Encode(file, b.RGBA())
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

// flatten composites the buffer over opaque white for formats without alpha.
func flatten(b *Buffer) image.Image {
	out := image.NewRGBA(b.Bounds())
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	draw.Draw(out, out.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), b.RGBA(), image.Point{}, draw.Over)
	return out
}
