package app

import (
	"fmt"
	"time"

	"inkdo/internal/epd"
	"inkdo/internal/view"
)

type setupState struct {
	source      string
	credentials bool
	online      bool
	now         time.Time
}

// clockSetBefore is the earliest plausible time for a synchronized clock.
var clockSetBefore = time.Unix(100000, 0)

// setupTasks is the checklist shown until the first fetch succeeds.
func setupTasks(s setupState) []view.Snapshot {
	item := func(done bool, title, desc string) view.Snapshot {
		snap := view.Snapshot{
			Title:       title,
			Description: desc,
			When:        "todo",
			WhenColor:   epd.Black,
			Marker:      epd.Red,
		}
		if done {
			snap.When = "done"
			snap.Marker = epd.Green
		}
		return snap
	}
	return []view.Snapshot{
		item(s.credentials,
			fmt.Sprintf("Configure %s credentials", s.source),
			"Set them in ~/.config/inkdo/config.toml or the INKDO_* environment."),
		item(s.online,
			"Connect to the network",
			"Make sure this device has a working network connection."),
		item(s.now.After(clockSetBefore),
			"Synchronize system time",
			fmt.Sprintf("Wait for the clock to be set, it is currently %s.", s.now.Format("2006-01-02 15:04"))),
		item(false,
			fmt.Sprintf("Synchronize %s tasks", s.source),
			"Waiting for the first successful fetch."),
	}
}
