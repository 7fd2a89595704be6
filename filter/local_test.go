package filter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenLocalReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disc.img")
	require.NoError(t, os.WriteFile(path, []byte("sector data"), 0o644))

	f, err := OpenLocal(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, int64(11), f.Length())
	require.Equal(t, "disc.img", f.Filename())
	require.Equal(t, dir, f.ParentFolder())

	buf := make([]byte, 6)
	n, err := f.DataFork().Read(buf)
	require.NoError(t, err)
	require.Equal(t, 6, n)
	require.Equal(t, "sector", string(buf))
}

func TestOpenLocalMissingFile(t *testing.T) {
	_, err := OpenLocal(filepath.Join(t.TempDir(), "missing.img"))
	require.Error(t, err)
}

func TestNewLocalFromStreamHasNoBackingFile(t *testing.T) {
	l := NewLocalFromStream("mem", &bytesSeeker{bytes.NewReader([]byte("abc"))}, 3)
	require.Equal(t, int64(3), l.Length())
	require.NoError(t, l.Close())
}
