package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"inkdo/hal"
	"inkdo/hal/window"
	"inkdo/internal/epd"
)

type runFlags struct {
	window bool
	out    string
	dump   bool
	cycles uint64
}

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &runFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Poll the task source and keep the panel up to date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLoop(cmd.Context(), g, f)
		},
	}
	fs := cmd.Flags()
	fs.BoolVarP(&f.window, "window", "w", false, "preview the panel in a desktop window")
	fs.StringVarP(&f.out, "out", "o", "", "write every refresh to this PNG file")
	fs.BoolVar(&f.dump, "dump", false, "keep the packed frame in $INKDO_FRAME_PATH (default inkdo.frame)")
	fs.Uint64Var(&f.cycles, "cycles", 0, "stop after N poll cycles (0 = run until interrupted)")
	return cmd
}

func runLoop(ctx context.Context, g *globalFlags, f *runFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := g.load()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var panels []hal.Panel
	var snap *hal.SnapshotPanel
	if f.window {
		snap = hal.NewSnapshotPanel()
		panels = append(panels, snap)
	}
	if f.out != "" {
		panels = append(panels, hal.NewPNGPanel(f.out, nil))
	}
	if f.dump {
		dp, err := hal.OpenDumpPanel(hal.DumpPath(), nil)
		if err != nil {
			return err
		}
		defer dp.Close()
		panels = append(panels, dp)
	}

	a, err := build(ctx, cfg, hal.Panels(panels...))
	if err != nil {
		return err
	}
	if snap == nil {
		return a.Run(ctx, f.cycles)
	}

	err = window.Run(ctx, snap, epd.PanelWidth, epd.PanelHeight, func(ctx context.Context) error {
		return a.Run(ctx, f.cycles)
	})
	if errors.Is(err, hal.ErrNotImplemented) {
		return errors.New("this build has no preview window (built without cgo); use --out")
	}
	return err
}
