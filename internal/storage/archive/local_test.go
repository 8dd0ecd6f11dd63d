package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalSave(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a, err := NewLocal(dir)
	require.NoError(t, err)

	uri, err := a.Save(context.Background(), "run-1/detail/10423646.html", []byte("<html></html>"))
	require.NoError(t, err)
	require.Equal(t, "file://"+filepath.Join(dir, "run-1/detail/10423646.html"), uri)

	data, err := os.ReadFile(filepath.Join(dir, "run-1", "detail", "10423646.html"))
	require.NoError(t, err)
	require.Equal(t, "<html></html>", string(data))
}

func TestLocalSaveRejectsTraversal(t *testing.T) {
	t.Parallel()

	a, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = a.Save(context.Background(), "../escape.html", []byte("x"))
	require.Error(t, err)
}

func TestLocalSaveRejectsEmptyKey(t *testing.T) {
	t.Parallel()

	a, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = a.Save(context.Background(), "  ", []byte("x"))
	require.Error(t, err)
}

func TestNewLocalCreatesDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "archive")
	_, err := NewLocal(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestNoopSave(t *testing.T) {
	t.Parallel()

	uri, err := NewNoop().Save(context.Background(), "anything", []byte("x"))
	require.NoError(t, err)
	require.Empty(t, uri)
}
