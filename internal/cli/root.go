// Package cli implements the inkdo commands.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"inkdo/internal/buildinfo"
	"inkdo/internal/config"
)

type globalFlags struct {
	config string
}

func (g *globalFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&g.config, "config", "c", "", "config file (default ~/.config/inkdo/config.toml)")
}

func (g *globalFlags) load() (*config.Config, error) {
	cfg, err := config.Load(g.config)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config:\n%w", err)
	}
	return cfg, nil
}

// NewRootCmd builds the command tree. Output goes to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	g := &globalFlags{}
	run := newRunCmd(g)
	root := &cobra.Command{
		Use:   "inkdo",
		Short: "Show today's tasks on a 7-color e-paper panel",
		Long: `inkdo polls a task source (Todoist, Google Tasks or a local file), lays the
tasks out on a 600x448 seven-color frame and refreshes the panel only when
something visible changed. On a desktop the panel is a window or a PNG file.`,
		Version:       buildinfo.Short(),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          run.RunE,
	}
	root.SetOut(out)
	root.SetErr(out)
	g.register(root.PersistentFlags())
	// The bare command behaves like `inkdo run`.
	root.Flags().AddFlagSet(run.Flags())

	root.AddCommand(run, newRenderCmd(g), newAuthCmd(g), newVersionCmd())
	return root
}

// Execute runs the CLI and exits non-zero on error.
func Execute() {
	if err := NewRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "inkdo:", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), buildinfo.String())
		},
	}
}
