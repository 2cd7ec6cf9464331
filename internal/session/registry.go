package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/aki/sqlmux/internal/filemanager"
)

// Record describes a registered database session
type Record struct {
	ID           string    `yaml:"id" json:"id"`
	Label        string    `yaml:"label" json:"label"`
	Driver       string    `yaml:"driver" json:"driver"`
	DSN          string    `yaml:"dsn" json:"dsn"`
	RegisteredAt time.Time `yaml:"registered_at" json:"registered_at"`
}

// Handle returns the routing handle for the record
func (r Record) Handle() Handle {
	return Handle{ID: r.ID, Label: r.Label, Driver: r.Driver, DSN: r.DSN}
}

// registryFile is the on-disk layout of the session registry
type registryFile struct {
	Sessions []Record `yaml:"sessions"`
}

// Registry is a file-backed Source. Sessions registered here are the
// environment's "session-bearing surfaces" for CLI and MCP use: the file is
// re-read on every enumeration, so registrations and removals made by other
// processes are visible immediately.
type Registry struct {
	path    string
	manager *filemanager.Manager[registryFile]
}

// NewRegistry creates a registry stored under dir
func NewRegistry(dir string) *Registry {
	return &Registry{
		path:    filepath.Join(dir, "sessions.yaml"),
		manager: filemanager.NewManager[registryFile](),
	}
}

// Register records a session and returns it with ID and registration time
// filled in. The newest record sorts first so the recency heuristic can take
// the head of the list.
func (r *Registry) Register(ctx context.Context, rec Record) (Record, error) {
	if rec.Label == "" {
		return Record{}, fmt.Errorf("session label is required")
	}
	if rec.Driver == "" {
		return Record{}, fmt.Errorf("session driver is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.RegisteredAt.IsZero() {
		rec.RegisteredAt = time.Now().UTC()
	}

	err := r.manager.Update(ctx, r.path, func(f *registryFile) error {
		for _, existing := range f.Sessions {
			if existing.Label == rec.Label {
				return fmt.Errorf("session already registered: %s", rec.Label)
			}
		}
		f.Sessions = append([]Record{rec}, f.Sessions...)
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Remove deletes a session record by ID or label
func (r *Registry) Remove(ctx context.Context, identifier string) error {
	found := false
	err := r.manager.Update(ctx, r.path, func(f *registryFile) error {
		kept := f.Sessions[:0]
		for _, rec := range f.Sessions {
			if rec.ID == identifier || rec.Label == identifier {
				found = true
				continue
			}
			kept = append(kept, rec)
		}
		f.Sessions = kept
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("session not found: %s", identifier)
	}
	return nil
}

// List returns all registered sessions, most recent first
func (r *Registry) List(ctx context.Context) ([]Record, error) {
	f, err := r.manager.Read(ctx, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session registry: %w", err)
	}
	return f.Sessions, nil
}

// Find returns the record matching an ID or label
func (r *Registry) Find(ctx context.Context, identifier string) (Record, error) {
	records, err := r.List(ctx)
	if err != nil {
		return Record{}, err
	}
	for _, rec := range records {
		if rec.ID == identifier || rec.Label == identifier {
			return rec, nil
		}
	}
	return Record{}, fmt.Errorf("session not found: %s", identifier)
}

// Sessions implements Source
func (r *Registry) Sessions(ctx context.Context) ([]Candidate, error) {
	records, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(records))
	for _, rec := range records {
		candidates = append(candidates, Candidate{Label: rec.Label, Handle: rec.Handle()})
	}
	return candidates, nil
}
