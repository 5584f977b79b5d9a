package task

import (
	"time"

	"inkdo/hal"
	"inkdo/internal/epd"
)

// DueKind enumerates the closed set of schedule states.
type DueKind uint8

const (
	DueUnknown DueKind = iota
	DuePastDate
	DueNowDate
	DueFutureDate
	DuePastTime
	DueNowTime
	DueFutureTime
)

var dueKindNames = [...]string{"unknown", "past-date", "now-date", "future-date", "past-time", "now-time", "future-time"}

func (k DueKind) String() string {
	if int(k) >= len(dueKindNames) {
		return "invalid"
	}
	return dueKindNames[k]
}

// DueState is a due specification classified against a moment in time.
// At carries the date or datetime for the kinds that have one.
type DueState struct {
	Kind DueKind
	At   time.Time
}

// Classify evaluates due (stretched by dur) against now. The result is only
// valid for that instant; the display's zone is now.Location().
func Classify(due *Due, dur *Duration, now time.Time, log hal.Logger) DueState {
	s := ParseDue(due, now.Location(), log)
	switch s.Kind {
	case ScheduleTime:
		end := s.At.Add(dur.Value())
		switch {
		case now.After(end):
			return DueState{Kind: DuePastTime, At: s.At}
		case !now.Before(s.At):
			return DueState{Kind: DueNowTime, At: s.At}
		default:
			return DueState{Kind: DueFutureTime, At: s.At}
		}
	case ScheduleDate:
		switch today, day := civil(now), civil(s.At); {
		case day < today:
			return DueState{Kind: DuePastDate, At: s.At}
		case day == today:
			return DueState{Kind: DueNowDate}
		default:
			return DueState{Kind: DueFutureDate, At: s.At}
		}
	}
	return DueState{Kind: DueUnknown}
}

// Label is the short schedule text drawn left of the timeline.
func (s DueState) Label(now time.Time) string {
	switch s.Kind {
	case DuePastDate, DueFutureDate:
		return s.At.Format("02/01")
	case DueNowDate:
		return "today"
	case DueNowTime:
		return "now"
	case DuePastTime, DueFutureTime:
		if sameDay(s.At, now) {
			return s.At.Format("15:04")
		}
		return s.At.Format("02/01")
	}
	return "todo"
}

// Color highlights running tasks in green and overdue ones in red.
func (s DueState) Color() epd.Color {
	switch s.Kind {
	case DueNowTime:
		return epd.Green
	case DuePastDate, DuePastTime:
		return epd.Red
	}
	return epd.Black
}
