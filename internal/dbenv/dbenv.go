// Package dbenv adapts database/sql connections to the dispatch collaborator
// contracts.
//
// Each session handle carries a driver name and DSN; dbenv opens a pool per
// handle lazily and keeps it for the process lifetime. Connection
// establishment semantics stay with database/sql — dbenv adds no retries or
// timeouts of its own.
package dbenv

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/aki/sqlmux/internal/dispatch"
	"github.com/aki/sqlmux/internal/logger"
	"github.com/aki/sqlmux/internal/session"
)

// queryKeywords are the leading statement keywords that produce a row set
var queryKeywords = []string{"select", "with", "show", "explain", "values", "table", "pragma"}

// identifierPattern restricts table names interpolated into preview queries
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*(\.[A-Za-z_][A-Za-z0-9_$]*)*$`)

// Env executes SQL and lists schema objects over database/sql
type Env struct {
	mu   sync.Mutex
	dbs  map[string]*sql.DB
	log  logger.Logger
	open func(driver, dsn string) (*sql.DB, error)
}

// Option configures an Env
type Option func(*Env)

// WithLogger sets the logger
func WithLogger(log logger.Logger) Option {
	return func(e *Env) { e.log = log }
}

// WithOpener overrides how pools are opened, for tests
func WithOpener(open func(driver, dsn string) (*sql.DB, error)) Option {
	return func(e *Env) { e.open = open }
}

// New creates an environment adapter
func New(opts ...Option) *Env {
	e := &Env{
		dbs:  make(map[string]*sql.DB),
		log:  logger.Nop(),
		open: sql.Open,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Close releases all open pools
func (e *Env) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var firstErr error
	for id, db := range e.dbs {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(e.dbs, id)
	}
	return firstErr
}

// db returns the pool for a handle, opening it on first use
func (e *Env) db(h session.Handle) (*sql.DB, error) {
	if h.Driver == "" || h.DSN == "" {
		return nil, fmt.Errorf("session %s has no driver or DSN", h.Label)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if db, ok := e.dbs[h.ID]; ok {
		return db, nil
	}

	db, err := e.open(normalizeDriver(h.Driver), h.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open session %s: %w", h.Label, err)
	}
	e.dbs[h.ID] = db
	return db, nil
}

// Execute implements dispatch.Executor. Statements with a row-producing
// keyword run as queries; everything else runs as an exec and reports rows
// affected.
func (e *Env) Execute(ctx context.Context, h session.Handle, sqlText string) (*dispatch.ExecutionResult, error) {
	db, err := e.db(h)
	if err != nil {
		return nil, err
	}

	e.log.Debug("executing", "session", h.Label, "bytes", len(sqlText))

	if isQuery(sqlText) {
		return e.query(ctx, db, sqlText)
	}

	res, err := db.ExecContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		// Some drivers cannot report a count; the statement still succeeded
		affected = 0
	}
	return &dispatch.ExecutionResult{RowsAffected: affected}, nil
}

func (e *Env) query(ctx context.Context, db *sql.DB, sqlText string) (*dispatch.ExecutionResult, error) {
	rows, err := db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &dispatch.ExecutionResult{Columns: cols}
	for rows.Next() {
		raw := make([]sql.RawBytes, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make([]string, len(cols))
		for i, v := range raw {
			if v == nil {
				row[i] = "NULL"
			} else {
				row[i] = string(v)
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result.RowsAffected = int64(len(result.Rows))
	return result, nil
}

// ListTables implements dispatch.SchemaSource using the driver's catalog
func (e *Env) ListTables(ctx context.Context, h session.Handle) ([]string, error) {
	db, err := e.db(h)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, catalogQuery(h.Driver))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// Preview returns the first rows of a table for the environment's table view
func (e *Env) Preview(ctx context.Context, h session.Handle, table string, limit int) (*dispatch.ExecutionResult, error) {
	if !identifierPattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name: %s", table)
	}
	if limit <= 0 {
		limit = 50
	}

	db, err := e.db(h)
	if err != nil {
		return nil, err
	}
	return e.query(ctx, db, fmt.Sprintf("SELECT * FROM %s LIMIT %d", table, limit))
}

// normalizeDriver maps session driver aliases to registered driver names
func normalizeDriver(driver string) string {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return "pgx"
	default:
		return driver
	}
}

// catalogQuery returns the table-listing query for a driver
func catalogQuery(driver string) string {
	switch strings.ToLower(driver) {
	case "postgres", "postgresql", "pgx":
		return `SELECT table_schema || '.' || table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name`
	case "sqlite", "sqlite3":
		return `SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name`
	default:
		return `SELECT table_name FROM information_schema.tables WHERE table_type = 'BASE TABLE' ORDER BY table_name`
	}
}

// isQuery reports whether the statement produces a row set. Only a full
// leading keyword counts, so "tableau_sync()" does not route as a query.
func isQuery(sqlText string) bool {
	word := strings.ToLower(strings.TrimSpace(sqlText))
	if i := strings.IndexFunc(word, func(r rune) bool {
		return !unicode.IsLetter(r)
	}); i >= 0 {
		word = word[:i]
	}
	for _, keyword := range queryKeywords {
		if word == keyword {
			return true
		}
	}
	return false
}
