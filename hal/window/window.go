//go:build cgo

// Package window previews presented frames in a desktop window.
package window

import (
	"context"
	"image"

	"inkdo/hal"
	"inkdo/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// Run opens a window that shows the frames presented to panel while loop runs
// on its own goroutine. It blocks until the window closes or loop returns.
func Run(ctx context.Context, panel *hal.SnapshotPanel, width, height int, loop func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- loop(ctx) }()

	g := &previewGame{panel: panel, width: width, height: height, done: done}
	ebiten.SetWindowTitle("inkdo (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(width, height)
	ebiten.SetTPS(10)
	err := ebiten.RunGame(g)
	if err == errLoopDone {
		return g.loopErr
	}
	return err
}

type loopDone struct{}

func (loopDone) Error() string { return "loop done" }

var errLoopDone error = loopDone{}

type previewGame struct {
	panel  *hal.SnapshotPanel
	width  int
	height int

	img   *image.RGBA
	fbImg *ebiten.Image
	seq   uint64

	done    <-chan error
	loopErr error
}

func (g *previewGame) Update() error {
	select {
	case err := <-g.done:
		g.loopErr = err
		return errLoopDone
	default:
	}
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	w, h := g.panel.Size()
	if w == 0 || h == 0 {
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		g.img = image.NewRGBA(image.Rect(0, 0, w, h))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(w, h)
		g.seq = 0
	}

	if seq := g.panel.Frame(g.img, g.seq); seq != g.seq {
		g.seq = seq
		g.fbImg.WritePixels(g.img.Pix)
	}
	screen.DrawImage(g.fbImg, nil)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
