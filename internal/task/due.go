package task

import (
	"time"

	"inkdo/hal"
)

const (
	dateLayout      = "2006-01-02"
	localTimeLayout = "2006-01-02T15:04:05"
)

// ScheduleKind tells which part of a due specification was usable.
type ScheduleKind uint8

const (
	ScheduleNone ScheduleKind = iota
	ScheduleDate
	ScheduleTime
)

// Schedule is a parsed due specification. For ScheduleDate, At is midnight of
// that date; for ScheduleTime it is the instant in the display's zone.
type Schedule struct {
	Kind ScheduleKind
	At   time.Time
}

// ParseDue resolves due in loc.
//
// A datetime carrying "Z" or an offset is an instant and is converted to loc;
// a datetime without one is a wall time in loc. A datetime that fails to parse
// is logged and the date is used instead. A date that fails to parse yields
// ScheduleNone.
func ParseDue(due *Due, loc *time.Location, log hal.Logger) Schedule {
	if due == nil {
		return Schedule{}
	}
	if due.Datetime != "" {
		at, err := parseDatetime(due.Datetime, loc)
		if err == nil {
			return Schedule{Kind: ScheduleTime, At: at}
		}
		hal.Logf(log, "warn: task: bad due datetime %q: %v", due.Datetime, err)
	}
	d, err := time.ParseInLocation(dateLayout, due.Date, loc)
	if err != nil {
		return Schedule{}
	}
	return Schedule{Kind: ScheduleDate, At: d}
}

func parseDatetime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(loc), nil
	}
	return time.ParseInLocation(localTimeLayout, s, loc)
}

// civil reduces t to a comparable calendar day number in t's zone.
func civil(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

func sameDay(a, b time.Time) bool { return civil(a) == civil(b) }
