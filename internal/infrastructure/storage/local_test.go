package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_GuardaYDevuelveURL(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	url, err := store.Store(context.Background(), "vale_123.pdf", []byte("contenido"))
	require.NoError(t, err)
	assert.Equal(t, "/documents/vale_123.pdf", url)

	data, err := os.ReadFile(filepath.Join(dir, "vale_123.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("contenido"), data)
}

func TestLocalStore_NombresDuplicadosRecibenSufijo(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	first, err := store.Store(ctx, "vale.pdf", []byte("a"))
	require.NoError(t, err)
	second, err := store.Store(ctx, "vale.pdf", []byte("b"))
	require.NoError(t, err)
	third, err := store.Store(ctx, "vale.pdf", []byte("c"))
	require.NoError(t, err)

	assert.Equal(t, "/documents/vale.pdf", first)
	assert.Equal(t, "/documents/vale_1.pdf", second)
	assert.Equal(t, "/documents/vale_2.pdf", third)
}

func TestLocalStore_SaneaNombresConRutas(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.Store(context.Background(), "../con espacios.pdf", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, "/documents/con_espacios.pdf", url)
}
