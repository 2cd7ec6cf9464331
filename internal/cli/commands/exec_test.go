package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aki/sqlmux/internal/session"
)

// An exec invocation with --persist must leave a binding that the next
// process can load from disk, not just one in its own router.
func TestExecPersistSurvivesProcess(t *testing.T) {
	home := t.TempDir()
	flagHome = home
	execSurface = "editor:main.sql"
	execUnit = "statement"
	execPersist = true
	t.Cleanup(func() {
		flagHome = ""
		execSurface = ""
		execUnit = "statement"
		execPersist = false
	})

	ctx := context.Background()
	registry := session.NewRegistry(home)
	_, err := registry.Register(ctx, session.Record{
		Label:  "dev",
		Driver: "pgx",
		DSN:    "postgres://localhost/dev",
	})
	require.NoError(t, err)

	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	// Whitespace-only document: the run resolves and binds the session but
	// skips execution, so no database connection is needed.
	cmd.SetIn(strings.NewReader("   \n\t\n"))

	require.NoError(t, runExec(cmd, nil))

	bindings, err := session.NewBindingStore(home).Load(ctx)
	require.NoError(t, err)
	h, ok := bindings["editor:main.sql"]
	assert.True(t, ok, "binding not persisted for surface")
	assert.Equal(t, "dev", h.Label)
}
