// Package widget holds the retained-mode controls drawn onto the frame buffer.
//
// A widget remembers what it shows and raises its dirty flag only when a
// setter changes something visible. The compositor redraws the whole frame
// when any widget is dirty and clears the flags once the panel accepted it.
package widget

import (
	"errors"
	"fmt"
	"image"

	"inkdo/internal/epd"
)

var (
	ErrGeometry = errors.New("widget: box outside frame buffer")
	ErrNoFont   = errors.New("widget: no font")
)

// Widget is one control on the display.
type Widget interface {
	Dirty() bool
	ClearDirty()
	Render(fb *epd.FrameBuffer) error
}

// dirtyFlag is embedded by every widget. New widgets start dirty.
type dirtyFlag struct {
	dirty bool
}

func (d *dirtyFlag) Dirty() bool { return d.dirty }
func (d *dirtyFlag) ClearDirty() { d.dirty = false }

func (d *dirtyFlag) mark(changed bool) {
	if changed {
		d.dirty = true
	}
}

// checkBox rejects an empty box or one reaching outside the logical frame.
func checkBox(fb *epd.FrameBuffer, box image.Rectangle) error {
	w, h := fb.Size()
	if box.Empty() || !box.In(image.Rect(0, 0, w, h)) {
		return fmt.Errorf("%w: %v in %dx%d", ErrGeometry, box, w, h)
	}
	return nil
}
