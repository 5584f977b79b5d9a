// Package view projects raw tasks into the immutable snapshots the task list draws.
package view

import (
	"context"
	"strings"
	"time"

	"inkdo/hal"
	"inkdo/internal/epd"
	"inkdo/internal/markup"
	"inkdo/internal/source"
	"inkdo/internal/task"
)

// Text limits, in characters.
const (
	MaxTitle       = 100
	MaxDescription = 200
)

// Snapshot is a render-ready task. Two snapshots are equal exactly when they
// draw the same pixels, so == is the change signal for the task list.
// Empty Description or Duration means the line is omitted.
type Snapshot struct {
	Marker      epd.Color
	Title       string
	Description string
	When        string
	WhenColor   epd.Color
	Duration    string
}

// FromTask classifies t at now and strips its markup.
func FromTask(t task.Task, now time.Time, log hal.Logger) Snapshot {
	state := task.Classify(t.Due, t.Duration, now, log)
	return Snapshot{
		Marker:      task.MarkerColor(t),
		Title:       markup.Strip(t.Content, MaxTitle),
		Description: markup.Strip(firstLine(t.Description), MaxDescription),
		When:        state.Label(now),
		WhenColor:   state.Color(),
		Duration:    t.Duration.Label(),
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Page is the bounded, sorted subset of a fetch plus the size of the whole fetch.
type Page struct {
	Snapshots []Snapshot
	Total     int
}

// Remaining is how many tasks of the fetch are not in the page.
func (p Page) Remaining() int { return p.Total - len(p.Snapshots) }

// Build sorts tasks, keeps the first limit and projects them at now.
func Build(tasks []task.Task, now time.Time, limit int, log hal.Logger) Page {
	kept, _ := task.Select(tasks, limit, now.Location())
	snaps := make([]Snapshot, len(kept))
	for i, t := range kept {
		snaps[i] = FromTask(t, now, log)
	}
	return Page{Snapshots: snaps, Total: len(tasks)}
}

// Loader fetches the raw task set from a source.
type Loader struct {
	Source source.Source
	Log    hal.Logger
}

// Load returns the current tasks. Any failure is reported as a
// *source.UnavailableError; callers keep showing what they already have.
func (l *Loader) Load(ctx context.Context) ([]task.Task, error) {
	tasks, err := l.Source.Tasks(ctx)
	if err != nil {
		return nil, source.Unavailable(l.Source.Name(), err)
	}
	hal.Logf(l.Log, "info: view: got %d tasks from %s", len(tasks), l.Source.Name())
	return tasks, nil
}
