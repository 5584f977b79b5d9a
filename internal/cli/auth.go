package cli

import (
	"github.com/spf13/cobra"

	"inkdo/internal/source/gtasks"
)

func newAuthCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Tasks and store the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.load()
			if err != nil {
				return err
			}
			return gtasks.Authorize(cmd.Context(), gtasksConfig(cfg), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
