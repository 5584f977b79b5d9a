package widget

import (
	"fmt"
	"image"
	"slices"
	"time"

	"inkdo/hal"
	"inkdo/internal/epd"
	"inkdo/internal/task"
	"inkdo/internal/view"
)

// Task list layout, in pixels.
const (
	rowHeight      = 40
	markerDiameter = 15
	timelineX      = 50
	margin         = 5
)

// TaskList draws the sorted tasks along a vertical timeline. Each row has a
// marker on the line, the schedule label and duration to its left, and the
// title and first description line to its right.
type TaskList struct {
	dirtyFlag
	Fonts Fonts

	box   image.Rectangle
	snaps []view.Snapshot
	total int
	log   hal.Logger
}

func NewTaskList(box image.Rectangle, log hal.Logger) *TaskList {
	return &TaskList{
		dirtyFlag: dirtyFlag{dirty: true},
		Fonts:     DefaultFonts,
		box:       box,
		log:       log,
	}
}

// SetTasks sorts tasks, keeps the first task.MaxVisible and projects them at now.
func (l *TaskList) SetTasks(tasks []task.Task, now time.Time) *TaskList {
	return l.SetPage(view.Build(tasks, now, task.MaxVisible, l.log))
}

// SetSnapshots shows prebuilt rows in the given order.
func (l *TaskList) SetSnapshots(snaps []view.Snapshot) *TaskList {
	kept := snaps[:min(len(snaps), task.MaxVisible)]
	return l.SetPage(view.Page{Snapshots: slices.Clone(kept), Total: len(snaps)})
}

// SetPage replaces the content. The list turns dirty when the total count,
// the number of kept rows or any row differs from what it showed before.
func (l *TaskList) SetPage(p view.Page) *TaskList {
	l.mark(l.total != p.Total || !slices.Equal(l.snaps, p.Snapshots))
	l.snaps, l.total = p.Snapshots, p.Total
	return l
}

func (l *TaskList) Snapshots() []view.Snapshot { return l.snaps }
func (l *TaskList) Total() int                 { return l.total }

func (l *TaskList) Render(fb *epd.FrameBuffer) error {
	if err := checkBox(fb, l.box); err != nil {
		return err
	}
	f := l.Fonts
	if f.Body.Face == nil || f.Info.Face == nil {
		return ErrNoFont
	}
	vline(fb, l.box.Min.X+margin+timelineX, l.box.Min.Y, l.box.Max.Y-1, epd.Black)

	area := l.box.Inset(margin)
	textX := area.Min.X + timelineX + markerDiameter/2 + 5
	labelX := area.Min.X + timelineX - markerDiameter/2 - 5
	textW := area.Max.X - textX

	remaining := l.total
	for i, s := range l.snaps {
		top := area.Min.Y + i*rowHeight
		if top+rowHeight > area.Max.Y {
			break
		}
		remaining--

		circle(fb, area.Min.X+timelineX-markerDiameter/2, top, markerDiameter, s.Marker, epd.Black)

		if err := drawText(fb, f.Body, textX, top, fitWidth(f.Body, s.Title, textW), epd.Black, alignLeft, alignTop); err != nil {
			return fmt.Errorf("title: %w", err)
		}
		second := top + f.Body.Ascent + 5
		if s.Description != "" {
			if err := drawText(fb, f.Info, textX, second, fitWidth(f.Info, s.Description, textW), epd.Blue, alignLeft, alignTop); err != nil {
				return fmt.Errorf("description: %w", err)
			}
		}
		whenY := top + (f.Body.Ascent-f.Info.Ascent)/2
		if err := drawText(fb, f.Info, labelX, whenY, s.When, s.WhenColor, alignRight, alignTop); err != nil {
			return fmt.Errorf("when: %w", err)
		}
		if s.Duration != "" {
			if err := drawText(fb, f.Info, labelX, second, s.Duration, epd.Blue, alignRight, alignTop); err != nil {
				return fmt.Errorf("duration: %w", err)
			}
		}
	}

	if remaining > 0 {
		msg := fmt.Sprintf("+ %d more...", remaining)
		if err := drawText(fb, f.Info, area.Min.X+area.Dx()/2, area.Max.Y-5, msg, epd.Black, alignCenter, alignBottom); err != nil {
			return err
		}
	}
	return nil
}
