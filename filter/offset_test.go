package filter

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOffsetStreamWindowedRead(t *testing.T) {
	base := bytes.NewReader([]byte("0123456789"))
	o, err := NewOffsetStream(base, 2, 5) // window covers "2345"
	require.NoError(t, err)
	require.Equal(t, int64(4), o.Len())

	buf := make([]byte, 4)
	n, err := o.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "2345", string(buf))

	n, err = o.Read(buf)
	require.Equal(t, 0, n)
	require.Equal(t, io.EOF, err)
}

func TestOffsetStreamTruncatesAtEnd(t *testing.T) {
	base := bytes.NewReader([]byte("0123456789"))
	o, err := NewOffsetStream(base, 8, 9) // window covers "89"
	require.NoError(t, err)

	buf := make([]byte, 10)
	n, err := o.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "89", string(buf[:n]))
}

func TestOffsetStreamSeekWhence(t *testing.T) {
	base := bytes.NewReader([]byte("0123456789"))
	o, err := NewOffsetStream(base, 0, 9)
	require.NoError(t, err)

	pos, err := o.Seek(3, io.SeekStart)
	require.NoError(t, err)
	require.Equal(t, int64(3), pos)

	pos, err = o.Seek(2, io.SeekCurrent)
	require.NoError(t, err)
	require.Equal(t, int64(5), pos)

	pos, err = o.Seek(-1, io.SeekEnd)
	require.NoError(t, err)
	require.Equal(t, int64(9), pos)

	_, err = o.Seek(-100, io.SeekStart)
	require.Error(t, err)
}

func TestNewOffsetStreamRejectsInvertedRange(t *testing.T) {
	base := bytes.NewReader([]byte("0123456789"))
	_, err := NewOffsetStream(base, 5, 2)
	require.Error(t, err)
}
