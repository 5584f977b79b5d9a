package hal

import (
	"fmt"
	"os"
	"sync"

	"inkdo/internal/epd"
)

// DefaultDumpPath is used when INKDO_FRAME_PATH is unset.
const DefaultDumpPath = "inkdo.frame"

// DumpPanel keeps the last presented frame, packed exactly as the panel
// receives it, in a file that cmd/mkframe can turn into a PNG.
type DumpPanel struct {
	mu   sync.Mutex
	f    *os.File
	size int
	log  Logger
}

// DumpPath returns INKDO_FRAME_PATH or DefaultDumpPath.
func DumpPath() string {
	if p := os.Getenv("INKDO_FRAME_PATH"); p != "" {
		return p
	}
	return DefaultDumpPath
}

// OpenDumpPanel opens or creates the dump file at path.
func OpenDumpPanel(path string, log Logger) (*DumpPanel, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("dump panel: %w", err)
	}
	return &DumpPanel{f: f, log: log}, nil
}

func (p *DumpPanel) Present(fb *epd.FrameBuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.f == nil {
		return fmt.Errorf("dump panel: %w", os.ErrClosed)
	}
	buf := fb.Bytes()
	if len(buf) != p.size {
		if err := p.f.Truncate(int64(len(buf))); err != nil {
			return fmt.Errorf("dump panel: resize: %w", err)
		}
		p.size = len(buf)
	}
	if _, err := p.f.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("dump panel: write: %w", err)
	}
	Logf(p.log, "info: panel: dumped %d bytes to %s", len(buf), p.f.Name())
	return nil
}

// ReadFrame loads the stored frame into a buffer of the given physical size.
func (p *DumpPanel) ReadFrame(width, height int) (*epd.FrameBuffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.f == nil {
		return nil, fmt.Errorf("dump panel: %w", os.ErrClosed)
	}
	fb, err := epd.New(width, height)
	if err != nil {
		return nil, err
	}
	if _, err := p.f.ReadAt(fb.Bytes(), 0); err != nil {
		return nil, fmt.Errorf("dump panel: read: %w", err)
	}
	return fb, nil
}

func (p *DumpPanel) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.f == nil {
		return nil
	}
	err := p.f.Close()
	p.f = nil
	return err
}
