package view

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"inkdo/internal/epd"
	"inkdo/internal/source"
	"inkdo/internal/task"
)

var now = time.Date(2024, 5, 14, 13, 0, 0, 0, time.FixedZone("CEST", 2*60*60))

func TestFromTask(t *testing.T) {
	tk := task.Task{
		ID:          "1",
		Priority:    3,
		Content:     "# Call **Bob** about [invoice](https://example.com/i/1)",
		Description: "\n  first line with `code`  \nsecond line\n",
		Due:         &task.Due{Date: "2024-05-14", Datetime: "2024-05-14T12:30:00"},
		Duration:    &task.Duration{Amount: 90, Unit: task.UnitMinute},
	}
	got := FromTask(tk, now, nil)
	want := Snapshot{
		Marker:      epd.Orange,
		Title:       "Call Bob about invoice",
		Description: "first line with code",
		When:        "now",
		WhenColor:   epd.Green,
		Duration:    "1h30m",
	}
	if got != want {
		t.Fatalf("FromTask =\n%+v\nwant\n%+v", got, want)
	}
}

func TestFromTaskOptionalParts(t *testing.T) {
	got := FromTask(task.Task{ID: "2", Priority: 1, Content: "plain", Completed: true}, now, nil)
	if got.Description != "" || got.Duration != "" {
		t.Fatalf("optional parts not empty: %+v", got)
	}
	if got.When != "todo" || got.Marker != epd.Green {
		t.Fatalf("got %+v", got)
	}
}

func TestFromTaskLimits(t *testing.T) {
	tk := task.Task{
		Content:     strings.Repeat("t", 300),
		Description: strings.Repeat("d", 300),
	}
	got := FromTask(tk, now, nil)
	if n := len(got.Title); n != MaxTitle {
		t.Fatalf("title length %d, want %d", n, MaxTitle)
	}
	if n := len(got.Description); n != MaxDescription {
		t.Fatalf("description length %d, want %d", n, MaxDescription)
	}
	if !strings.HasSuffix(got.Title, "...") {
		t.Fatalf("title not marked truncated: %q", got.Title[90:])
	}
}

func TestBuild(t *testing.T) {
	var tasks []task.Task
	for i := 0; i < 20; i++ {
		tasks = append(tasks, task.Task{ID: string(rune('a' + i)), Priority: 1, Order: i, Content: "task"})
	}
	tasks[7].Priority = 4
	tasks[7].Content = "first"

	p := Build(tasks, now, task.MaxVisible, nil)
	if p.Total != 20 || len(p.Snapshots) != task.MaxVisible || p.Remaining() != 8 {
		t.Fatalf("page total=%d len=%d remaining=%d", p.Total, len(p.Snapshots), p.Remaining())
	}
	if p.Snapshots[0].Title != "first" {
		t.Fatalf("highest priority not first: %+v", p.Snapshots[0])
	}

	small := Build(tasks[:3], now, task.MaxVisible, nil)
	if small.Remaining() != 0 || len(small.Snapshots) != 3 {
		t.Fatalf("small page = %+v", small)
	}
	if empty := Build(nil, now, task.MaxVisible, nil); empty.Total != 0 || len(empty.Snapshots) != 0 {
		t.Fatalf("empty page = %+v", empty)
	}
}

type stubSource struct {
	tasks []task.Task
	err   error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) Tasks(context.Context) ([]task.Task, error) { return s.tasks, s.err }

func TestLoader(t *testing.T) {
	l := &Loader{Source: &stubSource{tasks: []task.Task{{ID: "1"}}}}
	got, err := l.Load(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("Load = %v, %v", got, err)
	}

	cause := errors.New("connection refused")
	l = &Loader{Source: &stubSource{err: cause}}
	_, err = l.Load(context.Background())
	var ue *source.UnavailableError
	if !errors.As(err, &ue) || ue.Source != "stub" || !errors.Is(err, cause) {
		t.Fatalf("err = %v, want UnavailableError wrapping the cause", err)
	}

	status := &source.UnavailableError{Source: "todoist", Status: 503, Err: errors.New("HTTP 503")}
	l = &Loader{Source: &stubSource{err: status}}
	if _, err = l.Load(context.Background()); err != status {
		t.Fatalf("existing UnavailableError rewrapped: %v", err)
	}
}
