package filter

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeContainer struct {
	claims bool
	opened *Bytes
}

func (c *fakeContainer) Identify(rs io.ReadSeeker) bool {
	if !c.claims {
		return false
	}
	b := make([]byte, 4)
	n, _ := rs.Read(b)
	return n == 4 && string(b) == "FAKE"
}

func (c *fakeContainer) Open(name string, rs io.ReadSeeker) (Filter, error) {
	c.opened = NewBytes(name, []byte("unwrapped"))
	return c.opened, nil
}

func TestOpenPathFallsBackToLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.img")
	require.NoError(t, os.WriteFile(path, []byte("plain data"), 0o644))

	f, err := OpenPath(path, []Container{&fakeContainer{claims: false}})
	require.NoError(t, err)
	defer f.Close()

	_, ok := f.(*Local)
	require.True(t, ok)
	require.Equal(t, int64(10), f.Length())
}

func TestOpenPathUsesClaimingContainer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "container.bin")
	require.NoError(t, os.WriteFile(path, []byte("FAKEcontainerbody"), 0o644))

	c := &fakeContainer{claims: true}
	f, err := OpenPath(path, []Container{c})
	require.NoError(t, err)
	defer f.Close()

	require.NotNil(t, c.opened)
	require.Equal(t, f, c.opened)
}
