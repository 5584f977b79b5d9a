package widget

import (
	"image/color"
	"strings"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freesans"
	"tinygo.org/x/tinyfont/proggy"

	"inkdo/internal/epd"
)

// fbDisplayer lets tinyfont draw into the packed frame buffer. Colors are
// quantized to the panel palette.
type fbDisplayer struct {
	fb *epd.FrameBuffer
}

var _ drivers.Displayer = (*fbDisplayer)(nil)

func (d *fbDisplayer) Size() (x, y int16) {
	w, h := d.fb.Size()
	return int16(w), int16(h)
}

func (d *fbDisplayer) SetPixel(x, y int16, c color.RGBA) {
	d.fb.Set(int(x), int(y), epd.FromRGBA(c))
}

func (d *fbDisplayer) Display() error { return nil }

// Font is a tinyfont face plus the metrics needed to align text by its top.
type Font struct {
	Face   tinyfont.Fonter
	Ascent int
	Height int
}

// NewFont measures f. Ascent is taken from the capital A.
func NewFont(f *tinyfont.Font) Font {
	return Font{
		Face:   f,
		Ascent: -int(f.GetGlyph('A').Info().YOffset),
		Height: int(f.GetYAdvance()),
	}
}

// Fonts are the faces a widget draws with.
type Fonts struct {
	Title Font
	Body  Font
	Info  Font
	Large Font
}

// DefaultFonts uses the FreeSans faces with ProggyTiny for small labels.
var DefaultFonts = Fonts{
	Title: NewFont(&freesans.Bold12pt7b),
	Body:  NewFont(&freesans.Regular9pt7b),
	Info:  NewFont(&proggy.TinySZ8pt7b),
	Large: NewFont(&freesans.Bold18pt7b),
}

type hAlign uint8

const (
	alignLeft hAlign = iota
	alignCenter
	alignRight
)

type vAlign uint8

const (
	alignTop vAlign = iota
	alignMiddle
	alignBaseline
	alignBottom
)

func textWidth(f Font, s string) int {
	_, w := tinyfont.LineWidth(f.Face, s)
	return int(w)
}

// drawText anchors s at (x, y) and draws it transparently in c.
func drawText(fb *epd.FrameBuffer, f Font, x, y int, s string, c epd.Color, h hAlign, v vAlign) error {
	if f.Face == nil {
		return ErrNoFont
	}
	if s == "" {
		return nil
	}
	switch h {
	case alignCenter:
		x -= textWidth(f, s) / 2
	case alignRight:
		x -= textWidth(f, s)
	}
	switch v {
	case alignTop:
		y += f.Ascent
	case alignMiddle:
		y += f.Ascent / 2
	case alignBottom:
		y -= f.Height - f.Ascent
	}
	tinyfont.WriteLine(&fbDisplayer{fb: fb}, f.Face, int16(x), int16(y), s, c.RGBA())
	return nil
}

// fitWidth shortens s with a trailing "..." until it fits in maxW pixels.
func fitWidth(f Font, s string, maxW int) string {
	if maxW <= 0 {
		return ""
	}
	if textWidth(f, s) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		t := strings.TrimRight(string(r), " ") + "..."
		if textWidth(f, t) <= maxW {
			return t
		}
	}
	return ""
}

// wrapWords breaks s into lines no wider than maxW, splitting at spaces.
// A single word wider than maxW is shortened with fitWidth.
func wrapWords(f Font, s string, maxW int) []string {
	var lines []string
	cur := ""
	for _, w := range strings.Fields(s) {
		next := w
		if cur != "" {
			next = cur + " " + w
		}
		if textWidth(f, next) <= maxW {
			cur = next
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
		}
		cur = fitWidth(f, w, maxW)
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

func hline(fb *epd.FrameBuffer, x0, x1, y int, c epd.Color) {
	for x := x0; x <= x1; x++ {
		fb.Set(x, y, c)
	}
}

func vline(fb *epd.FrameBuffer, x, y0, y1 int, c epd.Color) {
	for y := y0; y <= y1; y++ {
		fb.Set(x, y, c)
	}
}

// circle draws a disc of diameter d with its top-left corner at (x, y),
// filled with fill and outlined one pixel wide in stroke.
func circle(fb *epd.FrameBuffer, x, y, d int, fill, stroke epd.Color) {
	if d <= 0 {
		return
	}
	// Work in doubled coordinates so odd and even diameters share one center.
	c := d - 1
	outer := d * d
	inner := (d - 2) * (d - 2)
	for py := 0; py < d; py++ {
		dy := 2*py - c
		for px := 0; px < d; px++ {
			dx := 2*px - c
			r := dx*dx + dy*dy
			switch {
			case r > outer:
			case d > 2 && r < inner:
				fb.Set(x+px, y+py, fill)
			default:
				fb.Set(x+px, y+py, stroke)
			}
		}
	}
}
