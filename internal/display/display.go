// Package display composites widgets into the frame buffer and pushes it to the panel.
package display

import (
	"fmt"

	"inkdo/hal"
	"inkdo/internal/epd"
	"inkdo/internal/widget"
)

// RenderError reports which widget of a batch failed to draw.
type RenderError struct {
	Index int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render widget %d: %v", e.Index, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Display owns the frame buffer between refreshes.
type Display struct {
	fb    *epd.FrameBuffer
	panel hal.Panel
	log   hal.Logger
}

func New(fb *epd.FrameBuffer, panel hal.Panel, log hal.Logger) *Display {
	return &Display{fb: fb, panel: panel, log: log}
}

func (d *Display) FrameBuffer() *epd.FrameBuffer { return d.fb }

// Render runs draw against the frame buffer and presents the result. Nothing
// is presented when draw fails.
func (d *Display) Render(draw func(fb *epd.FrameBuffer) error) error {
	if err := draw(d.fb); err != nil {
		return err
	}
	if err := d.panel.Present(d.fb); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// RenderIfDirty redraws the whole frame when at least one widget is dirty:
// clear to bg, render each widget in order, present once. The dirty flags are
// cleared only after the panel accepted the frame, so a failed batch is
// retried in full on the next call. With nothing dirty it does nothing.
func (d *Display) RenderIfDirty(bg epd.Color, widgets ...widget.Widget) error {
	dirty := false
	for _, w := range widgets {
		if w.Dirty() {
			dirty = true
			break
		}
	}
	if !dirty {
		return nil
	}

	err := d.Render(func(fb *epd.FrameBuffer) error {
		fb.Clear(bg)
		for i, w := range widgets {
			if err := w.Render(fb); err != nil {
				return &RenderError{Index: i, Err: err}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	hal.Logf(d.log, "info: display: refreshed %d widgets", len(widgets))

	for _, w := range widgets {
		w.ClearDirty()
	}
	return nil
}
