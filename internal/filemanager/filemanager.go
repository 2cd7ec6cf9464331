// Package filemanager provides process-safe YAML file operations.
//
// Several sqlmux processes (the CLI, an MCP server, an editor integration)
// may touch the same state files, so every read takes a shared flock and
// every write takes an exclusive one. Writes go through a temp file and
// rename so readers never observe a partial file.
package filemanager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"
)

// ErrLockTimeout is returned when acquiring a file lock times out
var ErrLockTimeout = errors.New("timeout acquiring file lock")

// UpdateFunc modifies data in-place under an exclusive lock
type UpdateFunc[T any] func(data *T) error

// Manager provides process-safe YAML file operations
type Manager[T any] struct {
	lockTimeout time.Duration
}

// NewManager creates a file manager with default settings
func NewManager[T any]() *Manager[T] {
	return &Manager[T]{lockTimeout: 5 * time.Second}
}

// NewManagerWithTimeout creates a file manager with a custom lock timeout
func NewManagerWithTimeout[T any](timeout time.Duration) *Manager[T] {
	return &Manager[T]{lockTimeout: timeout}
}

// Read reads a file under a shared lock. A missing file yields an error
// satisfying os.IsNotExist.
func (m *Manager[T]) Read(ctx context.Context, path string) (*T, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	lock := flock.New(lockPath(path))
	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	locked, err := lock.TryRLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire read lock: %w", err)
	}
	if !locked {
		return nil, ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	return m.read(path)
}

// Write writes a file under an exclusive lock
func (m *Manager[T]) Write(ctx context.Context, path string, data *T) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	lock := flock.New(lockPath(path))
	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	return m.write(path, data)
}

// Update reads, modifies, and writes a file under one exclusive lock. A
// missing file starts from the zero value of T.
func (m *Manager[T]) Update(ctx context.Context, path string, fn UpdateFunc[T]) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	lock := flock.New(lockPath(path))
	lockCtx, cancel := context.WithTimeout(ctx, m.lockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to acquire write lock: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	data := new(T)
	if _, err := os.Stat(path); err == nil {
		loaded, err := m.read(path)
		if err != nil {
			return err
		}
		data = loaded
	} else if !os.IsNotExist(err) {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return m.write(path, data)
}

func (m *Manager[T]) read(path string) (*T, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data := new(T)
	if err := yaml.Unmarshal(raw, data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return data, nil
}

func (m *Manager[T]) write(path string, data *T) error {
	raw, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	if err := os.Chmod(path, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	return nil
}

// lockPath returns the sidecar lock file for path. Locking a sidecar rather
// than the file itself keeps the rename-based write safe.
func lockPath(path string) string {
	return path + ".lock"
}
