// Package commands implements the sqlmux CLI.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/aki/sqlmux/internal/cli/ui"
)

var (
	flagHome     string
	flagFormat   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "sqlmux",
	Short: "SQL Multiplexer - dispatch SQL from text buffers to live database sessions",
	Long: `Sqlmux routes portions of a SQL text buffer (statement, paragraph, region,
or whole buffer) to registered database sessions. Each edit surface can be
bound to a session explicitly; unbound surfaces route to the most recently
registered session.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return ui.SetFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagHome, "home", "", "State directory (default $SQLMUX_HOME or ~/.sqlmux)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "pretty", "Output format (pretty, json)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
