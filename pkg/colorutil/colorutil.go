// Package colorutil provides shared color utilities for the paint application.
package colorutil

import (
	"fmt"
	"image/color"
)

// Common colors used throughout the application.
var (
	Black       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Transparent = color.RGBA{}
)

// ParseHex parses a "#RRGGBB" or "#RRGGBBAA" string.
func ParseHex(s string) (color.RGBA, error) {
	var r, g, b, a uint8
	switch len(s) {
	case 7:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		a = 255
	case 9:
		if _, err := fmt.Sscanf(s, "#%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	default:
		return color.RGBA{}, fmt.Errorf("invalid color %q: want #RRGGBB or #RRGGBBAA", s)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// MustParseHex parses a palette literal and panics on a malformed string.
func MustParseHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// ToHex formats a color as "#RRGGBB" (alpha ignored).
func ToHex(c color.RGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Equal reports whether two colors have identical RGBA components.
func Equal(a, b color.Color) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	return ar == br && ag == bg && ab == bb && aa == ba
}
