// Package task models the tasks pulled from the remote service and decides how
// each one is scheduled relative to the current time and where it sorts.
package task

import (
	"fmt"
	"time"

	"inkdo/internal/epd"
)

// MaxVisible is the number of tasks kept after sorting.
const MaxVisible = 12

// Priority bounds; higher is more urgent.
const (
	PriorityLowest  = 1
	PriorityHighest = 4
)

// Task is one record of the task feed.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Priority    int       `json:"priority" yaml:"priority"`
	Order       int       `json:"order" yaml:"order"`
	Content     string    `json:"content" yaml:"content"`
	Description string    `json:"description" yaml:"description"`
	Due         *Due      `json:"due,omitempty" yaml:"due,omitempty"`
	Duration    *Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Completed   bool      `json:"is_completed" yaml:"is_completed"`
}

// Due is the raw due specification: a calendar date optionally refined by a
// date-time and the zone it was entered in.
type Due struct {
	Date     string `json:"date" yaml:"date"`
	Datetime string `json:"datetime,omitempty" yaml:"datetime,omitempty"`
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`
}

// Duration is how long the task occupies once it starts.
type Duration struct {
	Amount int    `json:"amount" yaml:"amount"`
	Unit   string `json:"unit" yaml:"unit"`
}

const (
	UnitMinute = "minute"
	UnitDay    = "day"
)

// Value converts d to a time.Duration. Nil and unknown units count as zero.
func (d *Duration) Value() time.Duration {
	if d == nil || d.Amount <= 0 {
		return 0
	}
	switch d.Unit {
	case UnitMinute:
		return time.Duration(d.Amount) * time.Minute
	case UnitDay:
		return time.Duration(d.Amount) * 24 * time.Hour
	}
	return 0
}

// Label is the short form shown under the schedule label, e.g. "1h30m" or "2d".
func (d *Duration) Label() string {
	if d == nil || d.Amount <= 0 {
		return ""
	}
	switch d.Unit {
	case UnitDay:
		return fmt.Sprintf("%dd", d.Amount)
	case UnitMinute:
		h, m := d.Amount/60, d.Amount%60
		switch {
		case h == 0:
			return fmt.Sprintf("%dm", m)
		case m == 0:
			return fmt.Sprintf("%dh", h)
		default:
			return fmt.Sprintf("%dh%02dm", h, m)
		}
	}
	return ""
}

// MarkerColor is the timeline dot color: green once done, otherwise by priority.
func MarkerColor(t Task) epd.Color {
	if t.Completed {
		return epd.Green
	}
	switch t.Priority {
	case 1:
		return epd.White
	case 2:
		return epd.Blue
	case 3:
		return epd.Orange
	case 4:
		return epd.Red
	}
	return epd.Black
}
