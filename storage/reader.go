// Package storage provides a seekable, peekable byte-source wrapper used
// by every format parser in this module to decode fixed-layout records.
package storage

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// Reader wraps an io.ReadSeeker with peek and fixed-width read helpers.
// It is the single entry point every plugin uses to pull bytes off a
// Filter's data or resource fork.
type Reader struct {
	src    io.ReadSeeker
	buf    *bufio.Reader
	offset int64
}

// NewReader wraps src for buffered, peekable reading.
func NewReader(src io.ReadSeeker) *Reader {
	return &Reader{
		src: src,
		buf: bufio.NewReader(src),
	}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.buf.Read(p)
	r.offset += int64(n)
	return n, err
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	b, err := r.buf.ReadByte()
	if err == nil {
		r.offset++
	}
	return b, err
}

// Peek returns the next n bytes without advancing the reader.
func (r *Reader) Peek(n int) ([]byte, error) {
	return r.buf.Peek(n)
}

// PeekByte returns the next byte without advancing the reader.
func (r *Reader) PeekByte() (byte, error) {
	b, err := r.buf.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// PeekShort returns the next two bytes as a little-endian uint16 without
// advancing the reader.
func (r *Reader) PeekShort() (uint16, error) {
	b, err := r.buf.Peek(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// Seek implements io.Seeker. Buffered bytes are discarded on seek since the
// underlying cursor moves beneath them.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	abs, err := r.src.Seek(offset, whence)
	if err != nil {
		return 0, errors.Wrap(err, "seek failed")
	}
	r.buf.Reset(r.src)
	r.offset = abs
	return abs, nil
}

// Offset reports the reader's current logical position.
func (r *Reader) Offset() int64 {
	return r.offset
}

// ReadAt reads len(p) bytes starting at the given absolute offset, restoring
// the reader's prior position afterwards. Used by plugins that need
// out-of-sequence sector access without disturbing the sequential cursor.
func (r *Reader) ReadAt(p []byte, offset int64) (int, error) {
	prior := r.offset
	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	n, err := io.ReadFull(r, p)
	if _, seekErr := r.Seek(prior, io.SeekStart); seekErr != nil && err == nil {
		err = seekErr
	}
	return n, err
}
