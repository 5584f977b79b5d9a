package hal

import (
	"errors"
	"fmt"
	"time"

	"inkdo/internal/epd"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// Clock provides the current wall-clock time in the display's time zone.
type Clock interface {
	Now() time.Time
}

// Network reports whether the uplink to the task service is usable.
type Network interface {
	Online() bool
}

// Panel refreshes the physical display from a fully composed frame.
//
// A refresh is slow and visibly flashes the panel; callers only present when
// something changed.
type Panel interface {
	Present(fb *epd.FrameBuffer) error
}

// HAL provides the only contact point between the app and the outside world.
type HAL interface {
	Logger() Logger
	Clock() Clock
	Network() Network
	Panel() Panel
}

var ErrNotImplemented = errors.New("not implemented")

// Logf formats one log line. A nil logger discards it.
func Logf(l Logger, format string, args ...any) {
	if l == nil {
		return
	}
	l.WriteLineString(fmt.Sprintf(format, args...))
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }
