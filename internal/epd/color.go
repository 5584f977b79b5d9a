package epd

import "image/color"

// Color is a 4-bit palette index understood by the 7-color panel.
type Color uint8

const (
	Black Color = iota
	White
	Green
	Blue
	Red
	Yellow
	Orange
	// Clean leaves the particle state untouched (HiZ on the controller).
	Clean
)

// Palette maps each Color to the RGB value used for previews and snapshots.
var Palette = color.Palette{
	Black:  color.RGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	White:  color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Green:  color.RGBA{R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
	Blue:   color.RGBA{R: 0x00, G: 0x00, B: 0xFF, A: 0xFF},
	Red:    color.RGBA{R: 0xFF, G: 0x00, B: 0x00, A: 0xFF},
	Yellow: color.RGBA{R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF},
	Orange: color.RGBA{R: 0xFF, G: 0x80, B: 0x00, A: 0xFF},
	Clean:  color.RGBA{R: 0xEE, G: 0xEE, B: 0xEE, A: 0xFF},
}

var names = [...]string{"black", "white", "green", "blue", "red", "yellow", "orange", "clean"}

// RGBA returns the preview color for c.
func (c Color) RGBA() color.RGBA {
	if int(c) >= len(Palette) {
		return Palette[Black].(color.RGBA)
	}
	return Palette[c].(color.RGBA)
}

func (c Color) String() string {
	if int(c) >= len(names) {
		return "invalid"
	}
	return names[c]
}

// FromRGBA returns the palette entry closest to c.
func FromRGBA(c color.Color) Color {
	return Color(Palette.Index(c))
}

// ParseColor resolves a palette name such as "red".
func ParseColor(s string) (Color, bool) {
	for i, n := range names {
		if n == s {
			return Color(i), true
		}
	}
	return Black, false
}

func (c Color) nibble() byte { return byte(c) & 0x0F }

// Pack returns the byte holding two horizontally adjacent pixels.
func Pack(left, right Color) byte {
	return left.nibble()<<4 | right.nibble()
}
