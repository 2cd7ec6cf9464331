package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/aki/sqlmux/internal/cli/ui"
	"github.com/aki/sqlmux/internal/session"
)

var connectCmd = &cobra.Command{
	Use:   "connect <surface>",
	Short: "Choose a session and bind it to a surface",
	Long: `Connect lists the registered sessions, prompts for a choice, and binds the
surface to it. The binding is sticky: later dispatches from the surface skip
discovery and use the bound session until connect is run again.`,
	Args: cobra.ExactArgs(1),
	RunE: runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	surface := args[0]

	router, _, store, err := createRouter(ctx)
	if err != nil {
		return err
	}

	h, err := router.Select(ctx, surface, &promptChooser{in: cmd.InOrStdin()})
	if err != nil {
		if errors.Is(err, session.ErrCancelled) {
			ui.Warning("selection cancelled")
			return nil
		}
		if errors.Is(err, session.ErrNoCandidates) {
			ui.Warning("no sessions registered; add one with 'sqlmux sessions add'")
			return nil
		}
		return err
	}

	if err := store.Put(ctx, surface, h); err != nil {
		return err
	}

	ui.Success("surface %s bound to %s", surface, h.Label)
	return nil
}
