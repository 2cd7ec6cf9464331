// Package dispatch wires boundary resolution and session routing to the
// environment's executor.
//
// The dispatcher owns no connections and renders no results: it decides what
// text to send and which session receives it, hands the pair to the injected
// Executor, and passes the executor's result or error straight back to the
// caller.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/aki/sqlmux/internal/logger"
	"github.com/aki/sqlmux/internal/session"
	"github.com/aki/sqlmux/internal/textunit"
)

// Executor runs SQL against a session. Owned by the environment; the
// dispatcher does not interpret its results or manage retries and timeouts.
type Executor interface {
	Execute(ctx context.Context, h session.Handle, sqlText string) (*ExecutionResult, error)
}

// SchemaSource lists the tables visible to a session
type SchemaSource interface {
	ListTables(ctx context.Context, h session.Handle) ([]string, error)
}

// TableViewer opens an environment-owned view of a table. Fire-and-forget
// from the dispatcher's perspective.
type TableViewer interface {
	OpenTableView(ctx context.Context, h session.Handle, table string) error
}

// ExecutionResult carries the executor's outcome. Query results hold columns
// and stringified rows; statements hold the affected row count.
type ExecutionResult struct {
	Columns      []string   `json:"columns,omitempty"`
	Rows         [][]string `json:"rows,omitempty"`
	RowsAffected int64      `json:"rows_affected"`
}

// Request describes one user-initiated dispatch
type Request struct {
	Surface string        // Edit surface identity, e.g. a file path
	Unit    textunit.Kind // Granularity of text to execute
	Text    string        // Full document text
	Offset  int           // Cursor byte offset

	// Region bounds, used only when Unit is KindRegion
	RegionStart int
	RegionEnd   int

	// Persist records the implicitly resolved session as the surface's
	// binding, making later dispatches stick to it
	Persist bool
}

// Result is the outcome of one dispatch
type Result struct {
	Handle    session.Handle   `json:"session"`
	Span      textunit.Span    `json:"span"`
	SQL       string           `json:"sql"`
	Skipped   bool             `json:"skipped"`
	Reason    string           `json:"reason,omitempty"`
	Execution *ExecutionResult `json:"execution,omitempty"`
}

// Config assembles a Dispatcher's collaborators
type Config struct {
	Router   *session.Router
	Executor Executor
	Schema   SchemaSource // optional; table lookup fails without it
	Viewer   TableViewer  // optional; Browse fails without it
	Logger   logger.Logger
}

// Dispatcher routes execution units from edit surfaces to live sessions
type Dispatcher struct {
	router   *session.Router
	executor Executor
	schema   SchemaSource
	viewer   TableViewer
	log      logger.Logger
}

// New creates a dispatcher
func New(cfg Config) (*Dispatcher, error) {
	if cfg.Router == nil {
		return nil, fmt.Errorf("router is required")
	}
	if cfg.Executor == nil {
		return nil, fmt.Errorf("executor is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{
		router:   cfg.Router,
		executor: cfg.Executor,
		schema:   cfg.Schema,
		viewer:   cfg.Viewer,
		log:      log,
	}, nil
}

// Run resolves a session and an execution unit for the request and hands the
// pair to the executor. An all-whitespace unit is reported as a skip without
// touching the executor. Executor failures pass through unwrapped for the
// environment to render.
func (d *Dispatcher) Run(ctx context.Context, req Request) (*Result, error) {
	h, err := d.router.Resolve(ctx, req.Surface)
	if err != nil {
		return nil, err
	}
	if req.Persist {
		d.router.Bind(req.Surface, h)
	}

	span, err := textunit.Resolve(textunit.Request{
		Kind:        req.Unit,
		Text:        req.Text,
		Offset:      req.Offset,
		RegionStart: req.RegionStart,
		RegionEnd:   req.RegionEnd,
	})
	if err != nil {
		return nil, err
	}

	sqlText := strings.TrimSpace(span.Extract(req.Text))
	result := &Result{Handle: h, Span: span, SQL: sqlText}

	if sqlText == "" {
		result.Skipped = true
		result.Reason = "nothing to execute"
		d.log.Debug("empty selection skipped", "surface", req.Surface, "unit", req.Unit)
		return result, nil
	}

	d.log.Debug("dispatching", "surface", req.Surface, "session", h.Label, "unit", req.Unit, "bytes", len(sqlText))

	exec, err := d.executor.Execute(ctx, h, sqlText)
	if err != nil {
		return nil, err
	}
	result.Execution = exec
	return result, nil
}
