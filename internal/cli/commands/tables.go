package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aki/sqlmux/internal/cli/ui"
	"github.com/aki/sqlmux/internal/dispatch"
	"github.com/aki/sqlmux/internal/session"
)

var (
	tablesSurface string
	browseSurface string
	browseLimit   int
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List tables visible to a surface's session",
	RunE:  runTables,
}

var browseCmd = &cobra.Command{
	Use:   "browse <table>",
	Short: "Look up a table by name and preview its rows",
	Long: `Browse verifies that the name refers to a table in the surface's session
(matching on the unqualified table name) and shows its first rows.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	tablesCmd.Flags().StringVarP(&tablesSurface, "surface", "s", "default", "Surface identity")
	browseCmd.Flags().StringVarP(&browseSurface, "surface", "s", "default", "Surface identity")
	browseCmd.Flags().IntVar(&browseLimit, "limit", 50, "Maximum preview rows")

	rootCmd.AddCommand(tablesCmd)
	rootCmd.AddCommand(browseCmd)
}

func runTables(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, env, router, _, err := createDispatcher(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	h, err := router.Resolve(ctx, tablesSurface)
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			return fmt.Errorf("no active session; register one with 'sqlmux sessions add'")
		}
		return err
	}

	tables, err := env.ListTables(ctx, h)
	if err != nil {
		return err
	}

	if ui.GlobalFormatter.IsJSON() {
		return ui.GlobalFormatter.Output(map[string]any{"session": h.Label, "tables": tables})
	}

	if len(tables) == 0 {
		ui.Info("no tables in %s", h.Label)
		return nil
	}
	for _, name := range tables {
		ui.OutputLine("%s", name)
	}
	return nil
}

func runBrowse(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dispatcher, env, _, _, err := createDispatcher(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	if err := dispatcher.Browse(ctx, browseSurface, args[0]); err != nil {
		var notFound dispatch.TableNotFoundError
		if errors.As(err, &notFound) {
			return fmt.Errorf("%s (check 'sqlmux tables')", notFound.Error())
		}
		if errors.Is(err, session.ErrNoActiveSession) {
			return fmt.Errorf("no active session; register one with 'sqlmux sessions add'")
		}
		return err
	}
	return nil
}
