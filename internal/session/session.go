// Package session provides session routing for sqlmux.
//
// A Handle references a live database session owned by the environment; the
// Router decides which handle receives the SQL dispatched from a given edit
// surface. Discovery of live sessions is delegated to an injected Source so
// the environment's global state never leaks into the routing logic.
package session

import (
	"context"
)

// Handle references an already-established database session. sqlmux only
// routes to it; the environment owns the connection itself.
type Handle struct {
	ID     string `json:"id" yaml:"id"`
	Label  string `json:"label" yaml:"label"`
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// Zero reports whether the handle is the zero value
func (h Handle) Zero() bool {
	return h == Handle{}
}

// Candidate pairs a display label with a discoverable session handle
type Candidate struct {
	Label  string
	Handle Handle
}

// Source enumerates the environment's live session-bearing surfaces.
// Implementations must re-scan on every call; candidates are returned in
// discovery order, most recently registered first.
type Source interface {
	Sessions(ctx context.Context) ([]Candidate, error)
}

// SourceFunc adapts a function to the Source interface
type SourceFunc func(ctx context.Context) ([]Candidate, error)

// Sessions implements Source
func (f SourceFunc) Sessions(ctx context.Context) ([]Candidate, error) {
	return f(ctx)
}

// Chooser presents labels to the user and returns the index of the chosen
// one. A cancelled prompt returns ErrCancelled.
type Chooser interface {
	Choose(labels []string) (int, error)
}

// ChooserFunc adapts a function to the Chooser interface
type ChooserFunc func(labels []string) (int, error)

// Choose implements Chooser
func (f ChooserFunc) Choose(labels []string) (int, error) {
	return f(labels)
}
