package cli

import (
	"context"
	"fmt"

	"inkdo/app"
	"inkdo/hal"
	"inkdo/internal/config"
	"inkdo/internal/retry"
	"inkdo/internal/source"
	"inkdo/internal/source/file"
	"inkdo/internal/source/gtasks"
	"inkdo/internal/source/todoist"
)

// newSource builds the task source selected in cfg.
func newSource(ctx context.Context, cfg *config.Config, log hal.Logger) (source.Source, error) {
	switch cfg.Source {
	case config.SourceTodoist:
		return todoist.New(ctx, todoist.Config{
			Token:   cfg.Todoist.Token,
			Filter:  cfg.Todoist.Filter,
			BaseURL: cfg.Todoist.BaseURL,
		}, log), nil
	case config.SourceGTasks:
		return gtasks.New(ctx, gtasksConfig(cfg), log)
	case config.SourceFile:
		return file.New(cfg.File.Path, log), nil
	}
	return nil, fmt.Errorf("unknown source %q", cfg.Source)
}

func gtasksConfig(cfg *config.Config) gtasks.Config {
	return gtasks.Config{
		CredentialsFile: cfg.GTasks.Credentials,
		TokenFile:       cfg.GTasks.Token,
		List:            cfg.GTasks.List,
	}
}

func appConfig(cfg *config.Config) (app.Config, error) {
	rot, err := cfg.DisplayRotation()
	if err != nil {
		return app.Config{}, err
	}
	bg, err := cfg.BackgroundColor()
	if err != nil {
		return app.Config{}, err
	}
	return app.Config{
		Title:           cfg.Title,
		Background:      bg,
		Rotation:        rot,
		PollInterval:    cfg.PollInterval,
		OfflineInterval: cfg.OfflineInterval,
		FailureGrace:    cfg.FailureGrace,
		Retry:           retry.Policy{Retries: cfg.Retries},
		HasCredentials:  cfg.HasCredentials(),
	}, nil
}

// build wires the HAL, the source and the app. When the source is a watched
// file, edits wake the loop until ctx is done.
func build(ctx context.Context, cfg *config.Config, panel hal.Panel) (*app.App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	h := hal.New(hal.HostConfig{Location: loc, Panel: panel, AssumeOnline: cfg.AssumeOnline})
	log := h.Logger()

	src, err := newSource(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	acfg, err := appConfig(cfg)
	if err != nil {
		return nil, err
	}
	a, err := app.New(h, src, acfg)
	if err != nil {
		return nil, err
	}

	if fs, ok := src.(*file.Source); ok && cfg.File.Watch {
		go func() {
			if err := fs.Watch(ctx, a.Wake); err != nil {
				hal.Logf(log, "warn: cli: not watching %s: %v", fs.Path(), err)
			}
		}()
	}
	hal.Logf(log, "info: cli: source %s, poll every %v", src.Name(), cfg.PollInterval)
	return a, nil
}
