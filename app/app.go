// Package app runs the display's control loop: poll the task source, update
// the widgets and refresh the panel when something visible changed.
package app

import (
	"context"
	"errors"
	"image"
	"time"

	"tinygo.org/x/drivers"

	"inkdo/hal"
	"inkdo/internal/display"
	"inkdo/internal/epd"
	"inkdo/internal/retry"
	"inkdo/internal/source"
	"inkdo/internal/view"
	"inkdo/internal/widget"
)

// Config holds the loop timing and presentation settings.
type Config struct {
	Title      string
	Background epd.Color
	Rotation   drivers.Rotation

	PollInterval    time.Duration
	OfflineInterval time.Duration
	// FailureGrace is how long fetch failures are only logged before the
	// error popup replaces the task list.
	FailureGrace time.Duration
	Retry        retry.Policy

	// HasCredentials feeds the setup checklist shown before the first fetch.
	HasCredentials bool
}

// DefaultConfig polls every five minutes and tolerates an hour of failures.
func DefaultConfig() Config {
	return Config{
		Title:           "Todoist",
		Background:      epd.White,
		PollInterval:    5 * time.Minute,
		OfflineInterval: 30 * time.Second,
		FailureGrace:    time.Hour,
		Retry:           retry.Policy{Retries: 3},
	}
}

// Status line texts.
const (
	StatusOffline = "Offline"
	StatusFailing = "Update failing consistently"
)

// Popup titles.
const (
	TitleLoadingError  = "Loading Error"
	TitleInternalError = "Internal Error"
)

// App owns the widgets and the frame buffer. All methods run on the loop
// goroutine except Wake.
type App struct {
	h      hal.HAL
	cfg    Config
	loader *view.Loader
	disp   *display.Display

	header *widget.Header
	tasks  *widget.TaskList
	popup  *widget.Popup

	lastUpdate time.Time
	wake       chan struct{}
}

func New(h hal.HAL, src source.Source, cfg Config) (*App, error) {
	fb, err := epd.New(epd.PanelWidth, epd.PanelHeight)
	if err != nil {
		return nil, err
	}
	if err := fb.SetRotation(cfg.Rotation); err != nil {
		return nil, err
	}
	w, ht := fb.Size()
	headerBox := image.Rect(0, 0, w, widget.HeaderHeight)
	bodyBox := image.Rect(0, widget.HeaderHeight, w, ht)

	log := h.Logger()
	a := &App{
		h:      h,
		cfg:    cfg,
		loader: &view.Loader{Source: src, Log: log},
		disp:   display.New(fb, h.Panel(), log),
		header: widget.NewHeader(headerBox, cfg.Title),
		tasks:  widget.NewTaskList(bodyBox, log),
		popup:  widget.NewPopup(bodyBox, TitleLoadingError, "Check that your API key is correct."),
		wake:   make(chan struct{}, 1),
	}
	a.popup.SetTitleColor(epd.Red)

	now := h.Clock().Now()
	a.tasks.SetSnapshots(setupTasks(setupState{
		source:      src.Name(),
		credentials: cfg.HasCredentials,
		online:      h.Network().Online(),
		now:         now,
	}))
	a.lastUpdate = now
	return a, nil
}

// Wake cuts the current wait short. It never blocks and may be called from
// any goroutine.
func (a *App) Wake() {
	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// Step runs one cycle and returns how long to wait before the next.
func (a *App) Step(ctx context.Context) (wait time.Duration, err error) {
	defer a.recoverPanic(&wait, &err)

	log := a.h.Logger()
	now := a.h.Clock().Now()
	a.header.SetDate(now)

	if !a.h.Network().Online() {
		a.header.SetLastUpdate(StatusOffline, epd.Red)
		return a.cfg.OfflineInterval, a.disp.RenderIfDirty(a.cfg.Background, a.header, a.tasks)
	}

	tasks, err := retry.Do(ctx, a.cfg.Retry, log, a.loader.Load)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return 0, ctxErr
	}
	switch {
	case err == nil:
		a.tasks.SetTasks(tasks, now)
		if a.tasks.Dirty() {
			a.lastUpdate = now
		}
		a.header.SetLastUpdate("Updated at "+a.lastUpdate.Format("15:04"), epd.Green)
	case now.Sub(a.lastUpdate) < a.cfg.FailureGrace:
		hal.Logf(log, "warn: app: fetch failed, keeping the last tasks: %v", err)
	default:
		hal.Logf(log, "error: app: fetch failed since %s: %v", a.lastUpdate.Format("15:04"), err)
		a.header.SetLastUpdate(StatusFailing, epd.Red)
		a.popup.SetTitle(TitleLoadingError).SetMessage(err.Error())
		if err := a.disp.RenderIfDirty(a.cfg.Background, a.header, a.popup); err != nil {
			return a.cfg.OfflineInterval, err
		}
	}

	return a.cfg.PollInterval, a.disp.RenderIfDirty(a.cfg.Background, a.header, a.tasks)
}

// Run steps until ctx is done or cycles steps ran (0 = no limit). A failed
// refresh is logged and retried after OfflineInterval.
func (a *App) Run(ctx context.Context, cycles uint64) error {
	step := func(ctx context.Context) (time.Duration, error) {
		wait, err := a.Step(ctx)
		if err == nil || ctx.Err() != nil {
			return wait, err
		}
		var re *display.RenderError
		if errors.As(err, &re) {
			hal.Logf(a.h.Logger(), "error: app: widget %d failed to render: %v", re.Index, re.Err)
		} else {
			hal.Logf(a.h.Logger(), "error: app: refresh: %v", err)
		}
		return a.cfg.OfflineInterval, nil
	}
	err := hal.RunHeadless(ctx, step, a.wake, hal.HeadlessConfig{Cycles: cycles})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Header, Tasks, Popup and FrameBuffer expose the loop state for inspection.
func (a *App) Header() *widget.Header        { return a.header }
func (a *App) Tasks() *widget.TaskList       { return a.tasks }
func (a *App) Popup() *widget.Popup          { return a.popup }
func (a *App) FrameBuffer() *epd.FrameBuffer { return a.disp.FrameBuffer() }
