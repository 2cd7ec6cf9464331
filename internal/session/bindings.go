package session

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aki/sqlmux/internal/filemanager"
)

// bindingFile is the on-disk layout of persisted surface bindings
type bindingFile struct {
	Bindings map[string]Handle `yaml:"bindings"`
}

// BindingStore persists surface bindings across processes. The Router itself
// keeps bindings in memory for the surface's lifetime; the store lets a
// short-lived CLI process behave like one long-lived surface by reloading
// them on startup.
type BindingStore struct {
	path    string
	manager *filemanager.Manager[bindingFile]
}

// NewBindingStore creates a binding store under dir
func NewBindingStore(dir string) *BindingStore {
	return &BindingStore{
		path:    filepath.Join(dir, "bindings.yaml"),
		manager: filemanager.NewManager[bindingFile](),
	}
}

// Load returns all persisted bindings
func (s *BindingStore) Load(ctx context.Context) (map[string]Handle, error) {
	f, err := s.manager.Read(ctx, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]Handle{}, nil
		}
		return nil, fmt.Errorf("failed to read bindings: %w", err)
	}
	if f.Bindings == nil {
		return map[string]Handle{}, nil
	}
	return f.Bindings, nil
}

// Put records the binding for a surface
func (s *BindingStore) Put(ctx context.Context, surface string, h Handle) error {
	return s.manager.Update(ctx, s.path, func(f *bindingFile) error {
		if f.Bindings == nil {
			f.Bindings = make(map[string]Handle)
		}
		f.Bindings[surface] = h
		return nil
	})
}
