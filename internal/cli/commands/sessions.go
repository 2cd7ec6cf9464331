package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/aki/sqlmux/internal/cli/ui"
	"github.com/aki/sqlmux/internal/session"
)

var (
	sessionAddLabel  string
	sessionAddDriver string
	sessionAddDSN    string
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage registered database sessions",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered sessions, most recent first",
	RunE:  runSessionsList,
}

var sessionsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a database session",
	RunE:  runSessionsAdd,
}

var sessionsRemoveCmd = &cobra.Command{
	Use:   "remove <id-or-label>",
	Short: "Remove a registered session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsRemove,
}

func init() {
	sessionsAddCmd.Flags().StringVar(&sessionAddLabel, "label", "", "Display label, e.g. the database name (required)")
	sessionsAddCmd.Flags().StringVar(&sessionAddDriver, "driver", "pgx", "Database driver (pgx, sqlite3, ...)")
	sessionsAddCmd.Flags().StringVar(&sessionAddDSN, "dsn", "", "Connection string (required)")
	_ = sessionsAddCmd.MarkFlagRequired("label")
	_ = sessionsAddCmd.MarkFlagRequired("dsn")

	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsAddCmd)
	sessionsCmd.AddCommand(sessionsRemoveCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, registry, store, err := createRouter(ctx)
	if err != nil {
		return err
	}

	records, err := registry.List(ctx)
	if err != nil {
		return err
	}

	if ui.GlobalFormatter.IsJSON() {
		return ui.GlobalFormatter.Output(records)
	}

	if len(records) == 0 {
		ui.Info("no sessions registered")
		return nil
	}

	bindings, err := store.Load(ctx)
	if err != nil {
		return err
	}
	boundCount := make(map[string]int)
	for _, h := range bindings {
		boundCount[h.ID]++
	}

	tbl := ui.NewTable("LABEL", "DRIVER", "SURFACES", "REGISTERED", "ID")
	for _, rec := range records {
		tbl.AddRow(rec.Label, rec.Driver, boundCount[rec.ID], rec.RegisteredAt.Local().Format(time.RFC3339), rec.ID)
	}
	tbl.Print()
	return nil
}

func runSessionsAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, registry, _, err := createRouter(ctx)
	if err != nil {
		return err
	}

	rec, err := registry.Register(ctx, session.Record{
		Label:  sessionAddLabel,
		Driver: sessionAddDriver,
		DSN:    sessionAddDSN,
	})
	if err != nil {
		return err
	}

	if ui.GlobalFormatter.IsJSON() {
		return ui.GlobalFormatter.Output(rec)
	}

	ui.Success("registered session %s (%s)", rec.Label, rec.ID)
	return nil
}

func runSessionsRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	_, registry, _, err := createRouter(ctx)
	if err != nil {
		return err
	}

	if err := registry.Remove(ctx, args[0]); err != nil {
		return err
	}

	ui.Success("removed session %s", args[0])
	return nil
}
