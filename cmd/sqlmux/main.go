package main

import (
	"os"

	// Database drivers available for registered sessions
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/aki/sqlmux/internal/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
