package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aki/sqlmux/internal/cli/ui"
	"github.com/aki/sqlmux/internal/dispatch"
	"github.com/aki/sqlmux/internal/session"
	"github.com/aki/sqlmux/internal/textunit"
)

var (
	execUnit    string
	execOffset  int
	execStart   int
	execEnd     int
	execSurface string
	execPersist bool
)

var execCmd = &cobra.Command{
	Use:   "exec [file]",
	Short: "Execute a unit of SQL from a file or stdin",
	Long: `Exec reads a SQL document from a file (or stdin), resolves the requested
execution unit around the cursor offset, and sends it to the surface's
session. Unbound surfaces route to the most recently registered session.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExec,
}

func init() {
	execCmd.Flags().StringVarP(&execUnit, "unit", "u", "statement", "Unit to execute (statement, paragraph, region, buffer)")
	execCmd.Flags().IntVarP(&execOffset, "offset", "o", 0, "Cursor byte offset in the document")
	execCmd.Flags().IntVar(&execStart, "start", 0, "Region start offset (unit=region)")
	execCmd.Flags().IntVar(&execEnd, "end", 0, "Region end offset (unit=region)")
	execCmd.Flags().StringVarP(&execSurface, "surface", "s", "", "Surface identity (default: file path, or \"stdin\")")
	execCmd.Flags().BoolVar(&execPersist, "persist", false, "Bind the resolved session to the surface")

	rootCmd.AddCommand(execCmd)
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	text, surface, err := readDocument(cmd, args)
	if err != nil {
		return err
	}
	if execSurface != "" {
		surface = execSurface
	}

	kind, err := textunit.ParseKind(execUnit)
	if err != nil {
		return err
	}

	dispatcher, env, _, store, err := createDispatcher(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	result, err := dispatcher.Run(ctx, dispatch.Request{
		Surface:     surface,
		Unit:        kind,
		Text:        text,
		Offset:      execOffset,
		RegionStart: execStart,
		RegionEnd:   execEnd,
		Persist:     execPersist,
	})
	if err != nil {
		if errors.Is(err, session.ErrNoActiveSession) {
			return fmt.Errorf("no active session; register one with 'sqlmux sessions add'")
		}
		return err
	}

	if execPersist {
		if err := store.Put(ctx, surface, result.Handle); err != nil {
			return fmt.Errorf("failed to persist binding: %w", err)
		}
	}

	if ui.GlobalFormatter.IsJSON() {
		return ui.GlobalFormatter.Output(result)
	}

	if result.Skipped {
		ui.Warning("%s", result.Reason)
		return nil
	}

	ui.PrintExecution(result.Execution)
	ui.OutputLine("%s", ui.DimStyle.Render(fmt.Sprintf("session: %s", result.Handle.Label)))
	return nil
}

// readDocument loads the SQL document and derives the default surface
// identity from its origin
func readDocument(cmd *cobra.Command, args []string) (text, surface string, err error) {
	if len(args) == 1 {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return "", "", err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("failed to read document: %w", err)
		}
		return string(raw), path, nil
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(raw), "stdin", nil
}
