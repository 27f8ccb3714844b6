package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_RoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("analysis-1.json", []byte(`{"ok":true}`)))

	data, err := store.Retrieve("analysis-1.json")
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	names, err := store.List("analysis-")
	require.NoError(t, err)
	assert.Equal(t, []string{"analysis-1.json"}, names)

	require.NoError(t, store.Delete("analysis-1.json"))
	names, err = store.List("analysis-")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLocalStorage_ListFiltersByPrefix(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Store("analysis-1.json", []byte(`{}`)))
	require.NoError(t, store.Store("other.json", []byte(`{}`)))

	names, err := store.List("analysis-")
	require.NoError(t, err)
	assert.Equal(t, []string{"analysis-1.json"}, names)
}
