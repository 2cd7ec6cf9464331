package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/aki/sqlmux/internal/session"
)

// LookupTable verifies that token names a table visible to the surface's
// session. Comparison is a case-sensitive exact match on the unqualified
// table name; a qualified listing entry like "public.users" matches the
// token "users". The matched listing entry is returned alongside the
// resolved session.
func (d *Dispatcher) LookupTable(ctx context.Context, surface, token string) (session.Handle, string, error) {
	h, err := d.router.Resolve(ctx, surface)
	if err != nil {
		return session.Handle{}, "", err
	}

	if d.schema == nil {
		return session.Handle{}, "", fmt.Errorf("no schema source configured")
	}

	tables, err := d.schema.ListTables(ctx, h)
	if err != nil {
		return session.Handle{}, "", fmt.Errorf("failed to list tables: %w", err)
	}

	want := unqualified(token)
	for _, name := range tables {
		if unqualified(name) == want {
			return h, name, nil
		}
	}
	return session.Handle{}, "", TableNotFoundError{Name: token}
}

// Browse looks up a table and opens the environment's table view on it
func (d *Dispatcher) Browse(ctx context.Context, surface, token string) error {
	h, name, err := d.LookupTable(ctx, surface, token)
	if err != nil {
		return err
	}

	if d.viewer == nil {
		return ErrNoHostSurface
	}

	d.log.Debug("opening table view", "session", h.Label, "table", name)
	return d.viewer.OpenTableView(ctx, h, name)
}

// unqualified returns the component after the last dot
func unqualified(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}
