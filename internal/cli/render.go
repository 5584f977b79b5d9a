package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"inkdo/hal"
)

func newRenderCmd(g *globalFlags) *cobra.Command {
	var (
		out string
		raw string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch once and write the resulting frame to a PNG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := g.load()
			if err != nil {
				return err
			}
			panels := []hal.Panel{hal.NewPNGPanel(out, nil)}
			if raw != "" {
				dp, err := hal.OpenDumpPanel(raw, nil)
				if err != nil {
					return err
				}
				defer dp.Close()
				panels = append(panels, dp)
			}

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()
			a, err := build(ctx, cfg, hal.Panels(panels...))
			if err != nil {
				return err
			}
			if _, err := a.Step(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "inkdo.png", "PNG file to write")
	cmd.Flags().StringVar(&raw, "raw", "", "also write the packed frame to this file")
	return cmd
}
