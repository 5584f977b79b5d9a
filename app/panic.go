package app

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"inkdo/hal"
	"inkdo/internal/epd"
)

// recoverPanic turns a panic inside Step into an error, logs the stack line by
// line and tries to put the panic value on the panel.
func (a *App) recoverPanic(wait *time.Duration, err *error) {
	v := recover()
	if v == nil {
		return
	}
	log := a.h.Logger()
	hal.Logf(log, "error: app: panic: %v", v)
	if log != nil {
		for _, line := range strings.Split(string(debug.Stack()), "\n") {
			if line == "" {
				continue
			}
			log.WriteLineString(line)
		}
	}

	*wait = a.cfg.OfflineInterval
	*err = fmt.Errorf("panic: %v", v)

	a.header.SetLastUpdate("Crashed", epd.Red)
	a.popup.SetTitle(TitleInternalError).SetMessage(fmt.Sprint(v))
	if rerr := a.disp.RenderIfDirty(a.cfg.Background, a.header, a.popup); rerr != nil {
		hal.Logf(log, "error: app: panic screen: %v", rerr)
	}
}
