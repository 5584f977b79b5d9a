package widget

import (
	"image"

	"inkdo/internal/epd"
)

// Popup shows a large title with a wrapped message below it, centered in its box.
type Popup struct {
	dirtyFlag
	Fonts Fonts

	box          image.Rectangle
	title        string
	message      string
	titleColor   epd.Color
	messageColor epd.Color
}

func NewPopup(box image.Rectangle, title, message string) *Popup {
	return &Popup{
		dirtyFlag: dirtyFlag{dirty: true},
		Fonts:     DefaultFonts,
		box:       box,
		title:     title,
		message:   message,
	}
}

func (p *Popup) SetTitle(title string) *Popup {
	p.mark(p.title != title)
	p.title = title
	return p
}

func (p *Popup) SetMessage(msg string) *Popup {
	p.mark(p.message != msg)
	p.message = msg
	return p
}

func (p *Popup) SetTitleColor(c epd.Color) *Popup {
	p.mark(p.titleColor != c)
	p.titleColor = c
	return p
}

func (p *Popup) SetMessageColor(c epd.Color) *Popup {
	p.mark(p.messageColor != c)
	p.messageColor = c
	return p
}

func (p *Popup) Title() string   { return p.title }
func (p *Popup) Message() string { return p.message }

func (p *Popup) Render(fb *epd.FrameBuffer) error {
	if err := checkBox(fb, p.box); err != nil {
		return err
	}
	if p.Fonts.Body.Face == nil || p.Fonts.Large.Face == nil {
		return ErrNoFont
	}
	cx, cy := p.box.Min.X+p.box.Dx()/2, p.box.Min.Y+p.box.Dy()/2
	title := fitWidth(p.Fonts.Large, p.title, p.box.Dx()-20)
	if err := drawText(fb, p.Fonts.Large, cx, cy-20, title, p.titleColor, alignCenter, alignBaseline); err != nil {
		return err
	}
	y := cy + 20
	for _, line := range wrapWords(p.Fonts.Body, p.message, p.box.Dx()-20) {
		if y+p.Fonts.Body.Height > p.box.Max.Y {
			break
		}
		if err := drawText(fb, p.Fonts.Body, cx, y, line, p.messageColor, alignCenter, alignTop); err != nil {
			return err
		}
		y += p.Fonts.Body.Height
	}
	return nil
}
