package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRegisterAndList(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	ctx := context.Background()

	first, err := reg.Register(ctx, Record{Label: "analytics", Driver: "pgx", DSN: "postgres://localhost/analytics"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.RegisteredAt.IsZero())

	second, err := reg.Register(ctx, Record{Label: "reporting", Driver: "pgx", DSN: "postgres://localhost/reporting"})
	require.NoError(t, err)

	records, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, second.ID, records[0].ID, "most recent registration sorts first")
	assert.Equal(t, first.ID, records[1].ID)
}

func TestRegistryEmptyList(t *testing.T) {
	reg := NewRegistry(t.TempDir())

	records, err := reg.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)

	candidates, err := reg.Sessions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, candidates)
}

func TestRegistryRejectsDuplicateLabel(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	ctx := context.Background()

	_, err := reg.Register(ctx, Record{Label: "analytics", Driver: "pgx", DSN: "dsn"})
	require.NoError(t, err)

	_, err = reg.Register(ctx, Record{Label: "analytics", Driver: "pgx", DSN: "dsn2"})
	require.Error(t, err)
}

func TestRegistryRequiresLabelAndDriver(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	ctx := context.Background()

	_, err := reg.Register(ctx, Record{Driver: "pgx", DSN: "dsn"})
	require.Error(t, err)

	_, err = reg.Register(ctx, Record{Label: "analytics", DSN: "dsn"})
	require.Error(t, err)
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	ctx := context.Background()

	rec, err := reg.Register(ctx, Record{Label: "analytics", Driver: "pgx", DSN: "dsn"})
	require.NoError(t, err)

	require.NoError(t, reg.Remove(ctx, rec.ID))

	records, err := reg.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Error(t, reg.Remove(ctx, "analytics"), "removing a missing session fails")
}

func TestRegistryRemoveByLabel(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	ctx := context.Background()

	_, err := reg.Register(ctx, Record{Label: "analytics", Driver: "pgx", DSN: "dsn"})
	require.NoError(t, err)

	require.NoError(t, reg.Remove(ctx, "analytics"))
}

func TestRegistryFind(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	ctx := context.Background()

	rec, err := reg.Register(ctx, Record{Label: "analytics", Driver: "pgx", DSN: "dsn"})
	require.NoError(t, err)

	byID, err := reg.Find(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byID.ID)

	byLabel, err := reg.Find(ctx, "analytics")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, byLabel.ID)

	_, err = reg.Find(ctx, "missing")
	require.Error(t, err)
}

func TestRegistryAsSource(t *testing.T) {
	reg := NewRegistry(t.TempDir())
	ctx := context.Background()

	_, err := reg.Register(ctx, Record{Label: "old", Driver: "pgx", DSN: "dsn-old"})
	require.NoError(t, err)
	_, err = reg.Register(ctx, Record{Label: "new", Driver: "pgx", DSN: "dsn-new"})
	require.NoError(t, err)

	router := NewRouter(reg)
	h, err := router.Resolve(ctx, "query.sql")
	require.NoError(t, err)
	assert.Equal(t, "new", h.Label, "implicit routing picks the most recent registration")
}

func TestBindingStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewBindingStore(dir)
	ctx := context.Background()

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	h := Handle{ID: "abc", Label: "analytics", Driver: "pgx", DSN: "dsn"}
	require.NoError(t, store.Put(ctx, "query.sql", h))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, h, loaded["query.sql"])

	// Reload through a fresh store, as a new process would
	loaded, err = NewBindingStore(dir).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, h, loaded["query.sql"])
}
