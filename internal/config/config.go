// Package config loads the display configuration from a TOML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"tinygo.org/x/drivers"

	"inkdo/internal/epd"
	"inkdo/internal/source/todoist"
)

const appName = "inkdo"

// Task sources.
const (
	SourceTodoist = "todoist"
	SourceGTasks  = "gtasks"
	SourceFile    = "file"
)

type Todoist struct {
	Token   string `toml:"token"`
	Filter  string `toml:"filter"`
	BaseURL string `toml:"base_url"`
}

type GTasks struct {
	Credentials string `toml:"credentials"`
	Token       string `toml:"token"`
	List        string `toml:"list"`
}

type File struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

type Config struct {
	Source     string `toml:"source"`
	Title      string `toml:"title"`
	Timezone   string `toml:"timezone"`
	Rotation   int    `toml:"rotation"`
	Background string `toml:"background"`
	// AssumeOnline skips the network interface probe.
	AssumeOnline bool `toml:"assume_online"`

	PollInterval    time.Duration `toml:"poll_interval"`
	OfflineInterval time.Duration `toml:"offline_interval"`
	FailureGrace    time.Duration `toml:"failure_grace"`
	Retries         int           `toml:"retries"`

	Todoist Todoist `toml:"todoist"`
	GTasks  GTasks  `toml:"gtasks"`
	File    File    `toml:"file"`
}

// Dir is ~/.config/inkdo.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath is the config file used when none is given.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{
		Source:          SourceTodoist,
		Title:           "Todoist",
		Timezone:        "Local",
		Background:      "white",
		PollInterval:    5 * time.Minute,
		OfflineInterval: 30 * time.Second,
		FailureGrace:    time.Hour,
		Retries:         3,
		Todoist:         Todoist{Filter: todoist.DefaultFilter},
		GTasks:          GTasks{List: "@default"},
		File:            File{Watch: true},
	}
	if dir, err := Dir(); err == nil {
		cfg.GTasks.Credentials = filepath.Join(dir, "credentials.json")
		cfg.GTasks.Token = filepath.Join(dir, "token.json")
		cfg.File.Path = filepath.Join(dir, "tasks.yaml")
	}
	return cfg
}

// Load reads path over the defaults. An empty path means DefaultPath, which
// may be absent; an explicit path must exist. Environment variables win over
// the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.GTasks.Credentials = expandPath(cfg.GTasks.Credentials)
	cfg.GTasks.Token = expandPath(cfg.GTasks.Token)
	cfg.File.Path = expandPath(cfg.File.Path)
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("INKDO_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("INKDO_TZ"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("INKDO_TODOIST_TOKEN"); v != "" {
		c.Todoist.Token = v
	}
	if v := os.Getenv("INKDO_TASKS_FILE"); v != "" {
		c.File.Path = v
	}
}

func expandPath(s string) string {
	if s == "" {
		return s
	}
	if s == "~" || strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, s[1:])
		}
	}
	return os.ExpandEnv(s)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	switch c.Source {
	case SourceTodoist, SourceGTasks:
	case SourceFile:
		if c.File.Path == "" {
			errs = append(errs, errors.New("file.path is empty"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown source %q (want todoist, gtasks or file)", c.Source))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.DisplayRotation(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.BackgroundColor(); err != nil {
		errs = append(errs, err)
	}
	for _, d := range []struct {
		name string
		v    time.Duration
	}{
		{"poll_interval", c.PollInterval},
		{"offline_interval", c.OfflineInterval},
		{"failure_grace", c.FailureGrace},
	} {
		if d.v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", d.name, d.v))
		}
	}
	if c.Retries < 0 {
		errs = append(errs, fmt.Errorf("retries must not be negative, got %d", c.Retries))
	}
	return errors.Join(errs...)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}

// DisplayRotation maps Rotation in degrees to the panel rotation.
func (c *Config) DisplayRotation() (drivers.Rotation, error) {
	switch c.Rotation {
	case 0:
		return drivers.Rotation0, nil
	case 90:
		return drivers.Rotation90, nil
	case 180:
		return drivers.Rotation180, nil
	case 270:
		return drivers.Rotation270, nil
	}
	return 0, fmt.Errorf("rotation must be 0, 90, 180 or 270, got %d", c.Rotation)
}

func (c *Config) BackgroundColor() (epd.Color, error) {
	col, ok := epd.ParseColor(strings.ToLower(c.Background))
	if !ok {
		return 0, fmt.Errorf("unknown background color %q", c.Background)
	}
	return col, nil
}

// HasCredentials reports whether the selected source has what it needs to
// authenticate.
func (c *Config) HasCredentials() bool {
	switch c.Source {
	case SourceTodoist:
		return c.Todoist.Token != ""
	case SourceGTasks:
		return fileExists(c.GTasks.Credentials) && fileExists(c.GTasks.Token)
	case SourceFile:
		return c.File.Path != ""
	}
	return false
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}
