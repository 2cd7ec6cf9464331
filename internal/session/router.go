package session

import (
	"context"
	"fmt"
	"sync"
)

// Router maintains per-surface session bindings and resolves which session
// receives dispatched SQL.
//
// A binding, once set, is authoritative: it short-circuits discovery until
// explicitly re-set, and is never cleared for the surface's lifetime. The
// mutex only guards the map itself; each routing decision is a single
// synchronous action.
type Router struct {
	mu       sync.RWMutex
	source   Source
	bindings map[string]Handle
}

// NewRouter creates a router that discovers candidates from source
func NewRouter(source Source) *Router {
	return &Router{
		source:   source,
		bindings: make(map[string]Handle),
	}
}

// Bound returns the explicit binding for a surface, if any
func (r *Router) Bound(surface string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.bindings[surface]
	return h, ok
}

// Bind sets the authoritative session for a surface. Re-binding replaces the
// previous handle; there is no unbind.
func (r *Router) Bind(surface string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bindings[surface] = h
}

// Bindings returns a snapshot of all surface bindings
func (r *Router) Bindings() map[string]Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Handle, len(r.bindings))
	for k, v := range r.bindings {
		out[k] = v
	}
	return out
}

// Restore seeds bindings loaded from a previous process. Existing bindings
// are not overwritten.
func (r *Router) Restore(bindings map[string]Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for surface, h := range bindings {
		if _, ok := r.bindings[surface]; !ok {
			r.bindings[surface] = h
		}
	}
}

// Resolve returns the session for a surface. An explicit binding wins
// without consulting discovery; otherwise the most recently registered
// candidate is returned. Discovery is re-run on every call so closed
// sessions never linger.
func (r *Router) Resolve(ctx context.Context, surface string) (Handle, error) {
	if h, ok := r.Bound(surface); ok {
		return h, nil
	}

	candidates, err := r.source.Sessions(ctx)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to enumerate sessions: %w", err)
	}
	if len(candidates) == 0 {
		return Handle{}, ErrNoActiveSession
	}

	return candidates[0].Handle, nil
}

// Select always enumerates candidates, presents their labels to the chooser,
// and binds the surface to the chosen session. This is the explicit "set
// connection" path; the resulting binding is sticky.
func (r *Router) Select(ctx context.Context, surface string, chooser Chooser) (Handle, error) {
	candidates, err := r.source.Sessions(ctx)
	if err != nil {
		return Handle{}, fmt.Errorf("failed to enumerate sessions: %w", err)
	}
	if len(candidates) == 0 {
		return Handle{}, ErrNoCandidates
	}

	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = c.Label
	}

	idx, err := chooser.Choose(labels)
	if err != nil {
		return Handle{}, err
	}
	if idx < 0 || idx >= len(candidates) {
		return Handle{}, fmt.Errorf("choice %d out of range [0, %d)", idx, len(candidates))
	}

	h := candidates[idx].Handle
	r.Bind(surface, h)
	return h, nil
}
