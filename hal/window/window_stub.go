//go:build !cgo

package window

import (
	"context"

	"inkdo/hal"
)

// Run is unavailable without cgo; the preview window needs a GL backend.
func Run(ctx context.Context, panel *hal.SnapshotPanel, width, height int, loop func(context.Context) error) error {
	return hal.ErrNotImplemented
}
