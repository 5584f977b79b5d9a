package widget

import (
	"image"
	"time"

	"inkdo/internal/epd"
)

// HeaderHeight is the height of the header band in pixels.
const HeaderHeight = 30

// Header is the top band: title on the left, the date in the middle and the
// last update status on the right, over a one pixel rule.
type Header struct {
	dirtyFlag
	Fonts Fonts

	box        image.Rectangle
	title      string
	titleColor epd.Color

	date    time.Time
	hasDate bool

	status      string
	statusColor epd.Color
}

func NewHeader(box image.Rectangle, title string) *Header {
	return &Header{
		dirtyFlag:  dirtyFlag{dirty: true},
		Fonts:      DefaultFonts,
		box:        box,
		title:      title,
		titleColor: epd.Red,
	}
}

// SetTitle replaces the left-hand title.
func (h *Header) SetTitle(title string, c epd.Color) *Header {
	h.mark(h.title != title || h.titleColor != c)
	h.title, h.titleColor = title, c
	return h
}

// SetDate shows the calendar date of t. The time of day is ignored.
func (h *Header) SetDate(t time.Time) *Header {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	h.mark(!h.hasDate || !h.date.Equal(day))
	h.date, h.hasDate = day, true
	return h
}

// SetLastUpdate sets the status text on the right.
func (h *Header) SetLastUpdate(msg string, c epd.Color) *Header {
	h.mark(h.status != msg || h.statusColor != c)
	h.status, h.statusColor = msg, c
	return h
}

func (h *Header) Status() (string, epd.Color) { return h.status, h.statusColor }

func (h *Header) Render(fb *epd.FrameBuffer) error {
	if err := checkBox(fb, h.box); err != nil {
		return err
	}
	b := h.box
	hline(fb, b.Min.X, b.Max.X-1, b.Max.Y-1, epd.Black)

	mid := b.Min.Y + (b.Dy()-h.Fonts.Title.Ascent)/2
	if err := drawText(fb, h.Fonts.Title, b.Min.X+10, mid, h.title, h.titleColor, alignLeft, alignTop); err != nil {
		return err
	}
	if h.hasDate {
		s := h.date.Format("Mon _2 January")
		if err := drawText(fb, h.Fonts.Title, b.Min.X+b.Dx()/2, mid, s, epd.Black, alignCenter, alignTop); err != nil {
			return err
		}
	}
	if h.status != "" {
		y := b.Min.Y + (b.Dy()-h.Fonts.Info.Ascent)/2
		if err := drawText(fb, h.Fonts.Info, b.Max.X-10, y, h.status, h.statusColor, alignRight, alignTop); err != nil {
			return err
		}
	}
	return nil
}
