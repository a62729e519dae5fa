package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	store, err := NewGormStore(filepath.Join(t.TempDir(), "client.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGormStoreSetGetRemove(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.GetItem("theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SetItem("theme", "dark"))
	value, ok, err := store.GetItem("theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dark", value)

	require.NoError(t, store.SetItem("theme", "light"))
	value, _, err = store.GetItem("theme")
	require.NoError(t, err)
	assert.Equal(t, "light", value)

	require.NoError(t, store.RemoveItem("theme"))
	_, ok, err = store.GetItem("theme")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGormStoreKeysAndEmptyValue(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.SetItem("token", ""))
	require.NoError(t, store.SetItem("language", "en"))

	value, ok, err := store.GetItem("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, value)

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.Equal(t, []string{"language", "token"}, keys)
}

func TestGormStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.db")
	store, err := NewGormStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SetItem("language", "de"))
	require.NoError(t, store.Close())

	reopened, err := NewGormStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.GetItem("language")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "de", value)
}
