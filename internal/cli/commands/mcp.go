package commands

import (
	"github.com/spf13/cobra"

	"github.com/aki/sqlmux/internal/dbenv"
	"github.com/aki/sqlmux/internal/dispatch"
	"github.com/aki/sqlmux/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server",
	Long:  "Start the Model Context Protocol server (stdio) so editors and agents can dispatch SQL through sqlmux",
	RunE:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	router, registry, store, err := createRouter(ctx)
	if err != nil {
		return err
	}

	env := dbenv.New(dbenv.WithLogger(newLogger()))
	defer func() { _ = env.Close() }()

	dispatcher, err := dispatch.New(dispatch.Config{
		Router:   router,
		Executor: env,
		Schema:   env,
		Logger:   newLogger(),
	})
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(mcp.Config{
		Dispatcher: dispatcher,
		Router:     router,
		Registry:   registry,
		Bindings:   store,
		Logger:     newLogger(),
	})
	if err != nil {
		return err
	}

	return srv.ServeStdio()
}
