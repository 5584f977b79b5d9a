package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"inkdo/hal"
	"inkdo/internal/epd"
	"inkdo/internal/retry"
	"inkdo/internal/task"
	"inkdo/internal/widget"
)

type lineLog struct {
	mu    sync.Mutex
	lines []string
}

func (l *lineLog) WriteLineString(s string) {
	l.mu.Lock()
	l.lines = append(l.lines, s)
	l.mu.Unlock()
}

func (l *lineLog) WriteLineBytes(b []byte) { l.WriteLineString(string(b)) }

func (l *lineLog) contains(sub string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.lines {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

type countingPanel struct{ presents int }

func (p *countingPanel) Present(*epd.FrameBuffer) error {
	p.presents++
	return nil
}

type fakeHAL struct {
	log    *lineLog
	now    time.Time
	online bool
	panel  *countingPanel
}

func (h *fakeHAL) Logger() hal.Logger   { return h.log }
func (h *fakeHAL) Clock() hal.Clock     { return hal.ClockFunc(func() time.Time { return h.now }) }
func (h *fakeHAL) Network() hal.Network { return h }
func (h *fakeHAL) Panel() hal.Panel     { return h.panel }
func (h *fakeHAL) Online() bool         { return h.online }

type fakeSource struct {
	tasks []task.Task
	err   error
	calls int
	panic bool
}

func (s *fakeSource) Name() string { return "todoist" }

func (s *fakeSource) Tasks(context.Context) ([]task.Task, error) {
	s.calls++
	if s.panic {
		panic("nil map")
	}
	return s.tasks, s.err
}

var start = time.Date(2024, 5, 14, 13, 0, 0, 0, time.UTC)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.OfflineInterval = time.Millisecond
	cfg.Retry = retry.Policy{Retries: 3}
	cfg.HasCredentials = true
	return cfg
}

func newTestApp(t *testing.T, online bool, src *fakeSource) (*App, *fakeHAL) {
	t.Helper()
	h := &fakeHAL{log: &lineLog{}, now: start, online: online, panel: &countingPanel{}}
	a, err := New(h, src, testConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a, h
}

func sampleTasks() []task.Task {
	return []task.Task{
		{ID: "1", Priority: 4, Order: 1, Content: "Pay rent", Due: &task.Due{Date: "2024-05-14"}},
		{ID: "2", Priority: 1, Order: 2, Content: "Stretch", Due: &task.Due{Date: "2024-05-14", Datetime: "2024-05-14T18:00:00Z"}},
	}
}

func TestSetupChecklist(t *testing.T) {
	a, _ := newTestApp(t, false, &fakeSource{})
	rows := a.Tasks().Snapshots()
	if len(rows) != 4 {
		t.Fatalf("setup rows = %d, want 4", len(rows))
	}
	want := []string{"done", "todo", "done", "todo"}
	for i, r := range rows {
		if r.When != want[i] {
			t.Errorf("row %d (%s) = %s, want %s", i, r.Title, r.When, want[i])
		}
		if (r.When == "done") != (r.Marker == epd.Green) {
			t.Errorf("row %d marker %v does not match %s", i, r.Marker, r.When)
		}
	}
}

func TestStepOffline(t *testing.T) {
	src := &fakeSource{tasks: sampleTasks()}
	a, h := newTestApp(t, false, src)

	wait, err := a.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if wait != a.cfg.OfflineInterval {
		t.Fatalf("wait = %v, want offline interval", wait)
	}
	if msg, c := a.Header().Status(); msg != StatusOffline || c != epd.Red {
		t.Fatalf("status = %q %v", msg, c)
	}
	if src.calls != 0 {
		t.Fatalf("fetched while offline")
	}
	if h.panel.presents != 1 {
		t.Fatalf("presents = %d, want 1", h.panel.presents)
	}

	// Still offline: nothing changed, so the panel is left alone.
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.panel.presents != 1 {
		t.Fatalf("unchanged offline screen refreshed again")
	}
}

func TestStepUpdates(t *testing.T) {
	src := &fakeSource{tasks: sampleTasks()}
	a, h := newTestApp(t, true, src)

	wait, err := a.Step(context.Background())
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if wait != a.cfg.PollInterval {
		t.Fatalf("wait = %v", wait)
	}
	if msg, c := a.Header().Status(); msg != "Updated at 13:00" || c != epd.Green {
		t.Fatalf("status = %q %v", msg, c)
	}
	if got := a.Tasks().Snapshots(); len(got) != 2 || got[0].Title != "Stretch" {
		t.Fatalf("rows = %+v", got)
	}
	if h.panel.presents != 1 {
		t.Fatalf("presents = %d", h.panel.presents)
	}

	// Same tasks five minutes later: the update time stays and nothing is redrawn.
	h.now = start.Add(5 * time.Minute)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if msg, _ := a.Header().Status(); msg != "Updated at 13:00" {
		t.Fatalf("status = %q, want the time of the last change", msg)
	}
	if h.panel.presents != 1 {
		t.Fatalf("unchanged tasks refreshed the panel")
	}

	src.tasks = append(src.tasks, task.Task{ID: "3", Priority: 2, Content: "New"})
	h.now = start.Add(10 * time.Minute)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if msg, _ := a.Header().Status(); msg != "Updated at 13:10" {
		t.Fatalf("status = %q", msg)
	}
	if h.panel.presents != 2 {
		t.Fatalf("presents = %d, want 2", h.panel.presents)
	}
}

func TestStepFailureWithinGrace(t *testing.T) {
	src := &fakeSource{tasks: sampleTasks()}
	a, h := newTestApp(t, true, src)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := a.Tasks().Snapshots()

	src.err = errors.New("HTTP 503")
	src.calls = 0
	h.now = start.Add(30 * time.Minute)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if src.calls != a.cfg.Retry.Retries+1 {
		t.Fatalf("calls = %d, want %d", src.calls, a.cfg.Retry.Retries+1)
	}
	if msg, _ := a.Header().Status(); msg != "Updated at 13:00" {
		t.Fatalf("status = %q", msg)
	}
	if got := a.Tasks().Snapshots(); len(got) != len(before) || got[0] != before[0] {
		t.Fatalf("failed fetch changed the rows")
	}
	if h.panel.presents != 1 {
		t.Fatalf("presents = %d, want 1", h.panel.presents)
	}
	if !h.log.contains("keeping the last tasks") {
		t.Fatalf("failure not logged: %q", h.log.lines)
	}
}

func TestStepFailingConsistently(t *testing.T) {
	src := &fakeSource{tasks: sampleTasks()}
	a, h := newTestApp(t, true, src)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatal(err)
	}

	src.err = errors.New("HTTP 401")
	h.now = start.Add(2 * time.Hour)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if msg, c := a.Header().Status(); msg != StatusFailing || c != epd.Red {
		t.Fatalf("status = %q %v", msg, c)
	}
	if !strings.Contains(a.Popup().Message(), "HTTP 401") {
		t.Fatalf("popup message = %q", a.Popup().Message())
	}
	// One refresh for the popup; the task list is unchanged so it is not redrawn over it.
	if h.panel.presents != 2 {
		t.Fatalf("presents = %d, want 2", h.panel.presents)
	}

	h.now = h.now.Add(5 * time.Minute)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if h.panel.presents != 2 {
		t.Fatalf("repeated failure refreshed the panel")
	}

	src.err = nil
	h.now = h.now.Add(5 * time.Minute)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatal(err)
	}
	if msg, c := a.Header().Status(); !strings.HasPrefix(msg, "Updated at") || c != epd.Green {
		t.Fatalf("status after recovery = %q %v", msg, c)
	}
	if h.panel.presents != 3 {
		t.Fatalf("presents = %d, want 3", h.panel.presents)
	}
}

func TestStepCanceled(t *testing.T) {
	a, _ := newTestApp(t, true, &fakeSource{err: errors.New("down")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := a.Step(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestStepRecoversPanic(t *testing.T) {
	a, h := newTestApp(t, true, &fakeSource{panic: true})
	wait, err := a.Step(context.Background())
	if err == nil || !strings.Contains(err.Error(), "nil map") {
		t.Fatalf("err = %v", err)
	}
	if wait != a.cfg.OfflineInterval {
		t.Fatalf("wait = %v", wait)
	}
	if a.Popup().Title() != TitleInternalError || h.panel.presents != 1 {
		t.Fatalf("panic screen not shown: title=%q presents=%d", a.Popup().Title(), h.panel.presents)
	}
}

func TestStepFailureAfterPanicShowsLoadingError(t *testing.T) {
	src := &fakeSource{tasks: sampleTasks()}
	a, h := newTestApp(t, true, src)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatal(err)
	}

	src.panic = true
	if _, err := a.Step(context.Background()); err == nil {
		t.Fatal("panicking step returned nil")
	}
	if got := a.Popup().Title(); got != TitleInternalError {
		t.Fatalf("title after panic = %q, want %q", got, TitleInternalError)
	}

	src.panic = false
	src.err = errors.New("HTTP 401")
	h.now = start.Add(3 * time.Hour)
	if _, err := a.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if got := a.Popup().Title(); got != TitleLoadingError {
		t.Fatalf("title = %q, want %q", got, TitleLoadingError)
	}
	if !strings.Contains(a.Popup().Message(), "HTTP 401") {
		t.Fatalf("message = %q", a.Popup().Message())
	}
}

func TestRunSurvivesRenderError(t *testing.T) {
	a, h := newTestApp(t, true, &fakeSource{tasks: sampleTasks()})
	a.Tasks().Fonts.Body = widget.Font{}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Run(ctx, 2); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if h.panel.presents != 0 {
		t.Fatalf("broken frame reached the panel")
	}
	if !h.log.contains("widget 1 failed to render") {
		t.Fatalf("render error not logged: %q", h.log.lines)
	}
	if !a.Tasks().Dirty() {
		t.Fatalf("failed batch cleared the dirty flag")
	}
}

func TestRunWake(t *testing.T) {
	a, h := newTestApp(t, true, &fakeSource{tasks: sampleTasks()})
	a.Wake()
	a.Wake() // coalesced

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.Run(ctx, 2); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ctx.Err() != nil {
		t.Fatalf("wake did not cut the poll wait short")
	}
	if h.panel.presents != 1 {
		t.Fatalf("presents = %d", h.panel.presents)
	}
}

func TestRunCanceled(t *testing.T) {
	a, _ := newTestApp(t, false, &fakeSource{})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	if err := a.Run(ctx, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
