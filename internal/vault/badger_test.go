package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()

	store, err := NewBadgerStore(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestBadgerStore_SetGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "github", "token", "ghp_example"))

	value, err := store.Get(ctx, "github", "token")
	require.NoError(t, err)
	assert.Equal(t, "ghp_example", value)
}

func TestBadgerStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "github", "token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_SetRejectsEmptyValue(t *testing.T) {
	store := newTestStore(t)

	err := store.Set(context.Background(), "github", "token", "   ")
	assert.ErrorIs(t, err, ErrEmptyValue)
}

func TestBadgerStore_Overwrite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "github", "token", "first"))
	require.NoError(t, store.Set(ctx, "github", "token", "second"))

	value, err := store.Get(ctx, "github", "token")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestBadgerStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "github", "token", "value"))
	require.NoError(t, store.Delete(ctx, "github", "token"))
	require.NoError(t, store.Delete(ctx, "github", "token"))

	_, err := store.Get(ctx, "github", "token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerStore_ServicesAreIsolated(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "github", "token", "gh"))
	require.NoError(t, store.Set(ctx, "gitlab", "token", "gl"))

	value, err := store.Get(ctx, "github", "token")
	require.NoError(t, err)
	assert.Equal(t, "gh", value)
}
