package filemanager

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string   `yaml:"name"`
	Items []string `yaml:"items,omitempty"`
}

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state", "doc.yaml")
	m := NewManager[testDoc]()
	ctx := context.Background()

	want := &testDoc{Name: "primary", Items: []string{"a", "b"}}
	require.NoError(t, m.Write(ctx, path, want))

	got, err := m.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadMissingFile(t *testing.T) {
	m := NewManager[testDoc]()

	_, err := m.Read(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	m := NewManager[testDoc]()
	ctx := context.Background()

	err := m.Update(ctx, path, func(d *testDoc) error {
		d.Name = "created"
		return nil
	})
	require.NoError(t, err)

	got, err := m.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "created", got.Name)
}

func TestUpdateModifiesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	m := NewManager[testDoc]()
	ctx := context.Background()

	require.NoError(t, m.Write(ctx, path, &testDoc{Name: "one", Items: []string{"x"}}))

	err := m.Update(ctx, path, func(d *testDoc) error {
		d.Items = append(d.Items, "y")
		return nil
	})
	require.NoError(t, err)

	got, err := m.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, got.Items)
}

func TestUpdateCallbackError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	m := NewManager[testDoc]()
	ctx := context.Background()

	require.NoError(t, m.Write(ctx, path, &testDoc{Name: "keep"}))

	err := m.Update(ctx, path, func(d *testDoc) error {
		d.Name = "discard"
		return assert.AnError
	})
	require.Error(t, err)

	got, err := m.Read(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Name, "failed update must not modify the file")
}

func TestReadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not yaml"), 0o644))

	m := NewManager[testDoc]()
	_, err := m.Read(context.Background(), path)
	require.Error(t, err)
}
