// Package source defines where tasks come from and how a failed fetch is reported.
package source

import (
	"context"
	"errors"
	"fmt"

	"inkdo/internal/task"
)

// Source is a remote or local task feed.
type Source interface {
	Name() string
	Tasks(ctx context.Context) ([]task.Task, error)
}

// UnavailableError reports that the feed could not be reached or answered
// with an error status. Status is the HTTP status when there was one.
type UnavailableError struct {
	Source string
	Status int
	Err    error
}

func (e *UnavailableError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s unavailable: HTTP %d: %v", e.Source, e.Status, e.Err)
	}
	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Unavailable wraps err unless it already is an *UnavailableError.
func Unavailable(name string, err error) error {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return err
	}
	return &UnavailableError{Source: name, Err: err}
}

// IsUnavailable reports whether err is or wraps an *UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}
