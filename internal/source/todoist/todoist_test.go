package todoist

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inkdo/internal/source"
)

const body = `[
  {"id":"101","priority":4,"order":2,"content":"**Ship** it","description":"",
   "due":{"date":"2024-05-14","datetime":"2024-05-14T09:00:00Z","timezone":"Europe/Berlin","string":"today 11am","is_recurring":false},
   "duration":{"amount":30,"unit":"minute"},"is_completed":false,"labels":["work"]},
  {"id":"102","priority":1,"order":1,"content":"Water plants","description":"balcony\nand kitchen",
   "due":null,"duration":null,"is_completed":false}
]`

func TestTasks(t *testing.T) {
	var gotAuth, gotFilter, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFilter = r.URL.Query().Get("filter")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	c := New(context.Background(), Config{Token: "secret", BaseURL: srv.URL + "/"}, nil)
	tasks, err := c.Tasks(context.Background())
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotPath != "/rest/v2/tasks" || gotFilter != DefaultFilter {
		t.Fatalf("path=%q filter=%q", gotPath, gotFilter)
	}
	if len(tasks) != 2 {
		t.Fatalf("got %d tasks", len(tasks))
	}
	first := tasks[0]
	if first.ID != "101" || first.Priority != 4 || first.Order != 2 || first.Content != "**Ship** it" {
		t.Fatalf("first = %+v", first)
	}
	if first.Due == nil || first.Due.Datetime != "2024-05-14T09:00:00Z" || first.Due.Timezone != "Europe/Berlin" {
		t.Fatalf("due = %+v", first.Due)
	}
	if first.Duration == nil || first.Duration.Label() != "30m" {
		t.Fatalf("duration = %+v", first.Duration)
	}
	if second := tasks[1]; second.Due != nil || second.Duration != nil || second.Description != "balcony\nand kitchen" {
		t.Fatalf("second = %+v", second)
	}
}

func TestTasksCustomFilter(t *testing.T) {
	var gotFilter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(context.Background(), Config{Token: "t", BaseURL: srv.URL, Filter: "#Inbox & p1"}, nil)
	tasks, err := c.Tasks(context.Background())
	if err != nil || len(tasks) != 0 {
		t.Fatalf("Tasks = %v, %v", tasks, err)
	}
	if gotFilter != "#Inbox & p1" {
		t.Fatalf("filter = %q", gotFilter)
	}
}

func TestTasksErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized", http.StatusUnauthorized, "Forbidden\n"},
		{"server error", http.StatusServiceUnavailable, ""},
		{"bad json", http.StatusOK, `{"not":"a list"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(context.Background(), Config{Token: "t", BaseURL: srv.URL}, nil)
			_, err := c.Tasks(context.Background())
			var ue *source.UnavailableError
			if !errors.As(err, &ue) {
				t.Fatalf("err = %v, want UnavailableError", err)
			}
			if ue.Status != tt.status || ue.Source != "todoist" {
				t.Fatalf("status=%d source=%q", ue.Status, ue.Source)
			}
		})
	}
}

func TestTasksRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[" + strings.Repeat(" ", maxBody) + "]"))
	}))
	defer srv.Close()

	c := New(context.Background(), Config{Token: "t", BaseURL: srv.URL}, nil)
	_, err := c.Tasks(context.Background())
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	if !source.IsUnavailable(err) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}

func TestTasksUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(context.Background(), Config{Token: "t", BaseURL: url}, nil)
	_, err := c.Tasks(context.Background())
	if !source.IsUnavailable(err) {
		t.Fatalf("err = %v, want unavailable", err)
	}
}
