// Package filter provides the byte-source abstraction every image plugin
// consumes. A Filter wraps an opaque artifact — a path, an io.ReadSeeker, or
// an in-memory byte-blob — and exposes a seekable data fork and an optional
// resource fork, transparently unwrapping containerized formats such as
// AppleSingle.
package filter

import (
	"io"
	"time"

	"diskimage/storage"
)

// Filter is an opened artifact ready for higher layers to parse.
//
// A Filter is plugged in first; every format plugin consumes only a
// Filter, never an *os.File or raw io.Reader directly.
type Filter interface {
	// DataFork returns the primary seekable byte sequence.
	DataFork() *storage.Reader

	// ResourceFork returns the secondary fork, if the artifact carries one.
	ResourceFork() (*storage.Reader, bool)

	// Length reports the data fork's length in bytes.
	Length() int64

	// CreationTime and LastWriteTime report the artifact's timestamps, best
	// effort — zero time if the underlying source carries none.
	CreationTime() time.Time
	LastWriteTime() time.Time

	// BasePath is the artifact's display name (a path, or a synthetic name
	// for stream/byte-blob opens).
	BasePath() string

	// Filename is BasePath with any parent directory stripped.
	Filename() string

	// ParentFolder is BasePath's directory component.
	ParentFolder() string

	// Close releases any resources the Filter owns (open file handles).
	Close() error
}

// Container is a Filter variant that can unwrap itself from a plain
// seekable stream, identifying and decoding a containerized format such as
// AppleSingle or MacBinary. Container filters are tried, in order, before
// falling back to the Local filter.
type Container interface {
	// Identify reports whether the stream looks like this container
	// format. It must not disturb the stream's read position.
	Identify(rs io.ReadSeeker) bool

	// Open fully decodes the container, returning an opened Filter.
	Open(name string, rs io.ReadSeeker) (Filter, error)
}
