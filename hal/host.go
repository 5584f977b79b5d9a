package hal

import (
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

// HostConfig selects the host-side collaborators.
type HostConfig struct {
	// Location is the display's time zone; nil means time.Local.
	Location *time.Location
	// Panel receives composed frames; nil means frames are dropped.
	Panel Panel
	// Out receives log lines; nil means stdout.
	Out io.Writer
	// AssumeOnline skips the interface probe and always reports a link.
	AssumeOnline bool
}

type hostHAL struct {
	logger *hostLogger
	clock  hostClock
	net    Network
	panel  Panel
}

// New returns a host HAL implementation.
func New(cfg HostConfig) HAL {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	panel := cfg.Panel
	if panel == nil {
		panel = nullPanel{}
	}
	var network Network = hostNetwork{}
	if cfg.AssumeOnline {
		network = staticNetwork(true)
	}
	clock := hostClock{loc: loc}
	return &hostHAL{
		logger: &hostLogger{w: out, now: clock.Now},
		clock:  clock,
		net:    network,
		panel:  panel,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) Network() Network { return h.net }
func (h *hostHAL) Panel() Panel     { return h.panel }

type hostLogger struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s %s\n", l.now().Format("2006-01-02 15:04:05"), s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

type hostClock struct {
	loc *time.Location
}

func (c hostClock) Now() time.Time { return time.Now().In(c.loc) }

// hostNetwork treats any non-loopback interface that is up and addressed as online.
type hostNetwork struct{}

func (hostNetwork) Online() bool {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false
	}
	for _, ifc := range ifaces {
		if ifc.Flags&net.FlagUp == 0 || ifc.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := ifc.Addrs()
		if err == nil && len(addrs) > 0 {
			return true
		}
	}
	return false
}
