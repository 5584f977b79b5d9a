// Package file reads tasks from a local YAML or JSON file and watches it for edits.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.yaml.in/yaml/v3"

	"inkdo/hal"
	"inkdo/internal/source"
	"inkdo/internal/task"
)

const name = "file"

// debounceDelay coalesces the burst of events an editor produces on save.
const debounceDelay = 200 * time.Millisecond

// Source is a source.Source over one file holding a list of task records.
type Source struct {
	path string
	log  hal.Logger
}

var _ source.Source = (*Source)(nil)

func New(path string, log hal.Logger) *Source {
	return &Source{path: path, log: log}
}

func (s *Source) Name() string { return name }
func (s *Source) Path() string { return s.path }

// Tasks reads and decodes the file. Files ending in .json are JSON, anything
// else is YAML.
func (s *Source) Tasks(ctx context.Context) ([]task.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &source.UnavailableError{Source: name, Err: err}
	}
	tasks, err := decode(s.path, b)
	if err != nil {
		return nil, &source.UnavailableError{Source: name, Err: fmt.Errorf("%s: %w", filepath.Base(s.path), err)}
	}
	return tasks, nil
}

func decode(path string, b []byte) ([]task.Task, error) {
	var tasks []task.Task
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(b, &tasks); err != nil {
			return nil, err
		}
		return tasks, nil
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}
	if err := yaml.Unmarshal(b, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Watch calls changed after the file is written, replaced or removed, at most
// once per burst of events. It blocks until ctx is canceled.
//
// The parent directory is watched rather than the file so that editors that
// save by renaming a temporary file are still noticed.
func (s *Source) Watch(ctx context.Context, changed func()) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	dir := filepath.Dir(s.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	want := filepath.Clean(s.path)

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != want {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, changed)
			mu.Unlock()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			hal.Logf(s.log, "warn: file: watch: %v", err)
		}
	}
}
