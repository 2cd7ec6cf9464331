package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aki/sqlmux/internal/cli/ui"
	"github.com/aki/sqlmux/internal/dbenv"
	"github.com/aki/sqlmux/internal/dispatch"
	"github.com/aki/sqlmux/internal/logger"
	"github.com/aki/sqlmux/internal/session"
)

// homeDir resolves the sqlmux state directory
func homeDir() (string, error) {
	if flagHome != "" {
		return filepath.Abs(flagHome)
	}
	if env := os.Getenv("SQLMUX_HOME"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".sqlmux"), nil
}

func newLogger() logger.Logger {
	return logger.New(logger.WithLevelString(flagLogLevel))
}

// createRouter builds a router over the file-backed registry, seeded with
// bindings persisted by earlier invocations
func createRouter(ctx context.Context) (*session.Router, *session.Registry, *session.BindingStore, error) {
	dir, err := homeDir()
	if err != nil {
		return nil, nil, nil, err
	}

	registry := session.NewRegistry(dir)
	store := session.NewBindingStore(dir)
	router := session.NewRouter(registry)

	bindings, err := store.Load(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	router.Restore(bindings)

	return router, registry, store, nil
}

// createDispatcher wires the router and the database environment together.
// The caller owns closing the returned environment, and uses the binding
// store to persist any bindings made during the invocation.
func createDispatcher(ctx context.Context) (*dispatch.Dispatcher, *dbenv.Env, *session.Router, *session.BindingStore, error) {
	router, _, store, err := createRouter(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	env := dbenv.New(dbenv.WithLogger(newLogger()))
	d, err := dispatch.New(dispatch.Config{
		Router:   router,
		Executor: env,
		Schema:   env,
		Viewer:   &previewViewer{env: env, limit: browseLimit},
		Logger:   newLogger(),
	})
	if err != nil {
		_ = env.Close()
		return nil, nil, nil, nil, err
	}
	return d, env, router, store, nil
}

// previewViewer implements dispatch.TableViewer by printing the first rows
// of the table. The terminal is the host surface here.
type previewViewer struct {
	env   *dbenv.Env
	limit int
}

func (v *previewViewer) OpenTableView(ctx context.Context, h session.Handle, table string) error {
	limit := v.limit
	if limit <= 0 {
		limit = 50
	}

	res, err := v.env.Preview(ctx, h, table, limit)
	if err != nil {
		return err
	}

	ui.OutputLine("%s %s", ui.SessionIcon, ui.BoldStyle.Render(table))
	ui.PrintExecution(res)
	return nil
}
