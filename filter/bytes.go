package filter

import (
	"bytes"
	"time"

	"diskimage/storage"
)

// bytesSeeker adapts a []byte into an io.ReadSeeker without copying.
type bytesSeeker struct {
	*bytes.Reader
}

// Bytes is a Filter backed entirely by an in-memory byte-blob. It exists so
// a caller holding a decoded artifact (e.g. pulled from a network stream
// upstream of this module) can open it as a Filter without round-tripping
// through a temp file, per spec open(path | stream | bytes).
type Bytes struct {
	name string
	data *storage.Reader
	raw  []byte
}

// NewBytes wraps b as a Filter named name.
func NewBytes(name string, b []byte) *Bytes {
	return &Bytes{
		name: name,
		data: storage.NewReader(&bytesSeeker{bytes.NewReader(b)}),
		raw:  b,
	}
}

func (b *Bytes) DataFork() *storage.Reader { return b.data }

func (b *Bytes) ResourceFork() (*storage.Reader, bool) { return nil, false }

func (b *Bytes) Length() int64 { return int64(len(b.raw)) }

func (b *Bytes) CreationTime() time.Time { return time.Time{} }

func (b *Bytes) LastWriteTime() time.Time { return time.Time{} }

func (b *Bytes) BasePath() string { return b.name }

func (b *Bytes) Filename() string { return b.name }

func (b *Bytes) ParentFolder() string { return "" }

func (b *Bytes) Close() error { return nil }
