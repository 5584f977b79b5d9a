package hal

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"

	"inkdo/internal/epd"
)

type nullPanel struct{}

func (nullPanel) Present(*epd.FrameBuffer) error { return nil }

// PNGPanel writes every presented frame to a PNG file, replacing it atomically.
type PNGPanel struct {
	path string
	log  Logger
}

func NewPNGPanel(path string, log Logger) *PNGPanel {
	return &PNGPanel{path: path, log: log}
}

func (p *PNGPanel) Present(fb *epd.FrameBuffer) error {
	tmp, err := os.CreateTemp(filepath.Dir(p.path), ".frame-*.png")
	if err != nil {
		return fmt.Errorf("png panel: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, fb.Image()); err != nil {
		tmp.Close()
		return fmt.Errorf("png panel: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("png panel: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("png panel: %w", err)
	}
	Logf(p.log, "info: panel: wrote %s", p.path)
	return nil
}

// SnapshotPanel keeps a copy of the last presented frame for a preview window
// running on another goroutine.
type SnapshotPanel struct {
	mu     sync.Mutex
	width  int
	height int
	buf    []byte
	seq    uint64
}

func NewSnapshotPanel() *SnapshotPanel { return &SnapshotPanel{} }

func (p *SnapshotPanel) Present(fb *epd.FrameBuffer) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	src := fb.Bytes()
	if len(p.buf) != len(src) {
		p.buf = make([]byte, len(src))
	}
	copy(p.buf, src)
	p.width = fb.Width()
	p.height = fb.Height()
	p.seq++
	return nil
}

// Size returns the physical size of the last frame, or zero before the first one.
func (p *SnapshotPanel) Size() (w, h int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// Frame decodes the last frame into dst if it is newer than seq and returns the
// new sequence number. dst must match Size().
func (p *SnapshotPanel) Frame(dst *image.RGBA, seq uint64) uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.seq == seq || dst.Bounds().Dx() != p.width || dst.Bounds().Dy() != p.height {
		return seq
	}
	decodeOct4(dst.Pix, p.buf)
	return p.seq
}

type multiPanel []Panel

// Panels presents each frame to every panel in order, stopping at the first error.
func Panels(ps ...Panel) Panel { return multiPanel(ps) }

func (m multiPanel) Present(fb *epd.FrameBuffer) error {
	for _, p := range m {
		if err := p.Present(fb); err != nil {
			return err
		}
	}
	return nil
}
