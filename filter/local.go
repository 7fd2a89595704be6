package filter

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"diskimage/storage"
)

// Local is a Filter backed directly by a file on disk, with no container
// unwrapping. It is the fallback OpenPath tries last.
type Local struct {
	path    string
	file    *os.File
	data    *storage.Reader
	length  int64
	created time.Time
	written time.Time
}

// OpenLocal opens path as a plain Filter.
func OpenLocal(path string) (*Local, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %q", path)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "cannot stat %q", path)
	}

	return &Local{
		path:    path,
		file:    f,
		data:    storage.NewReader(f),
		length:  info.Size(),
		created: info.ModTime(),
		written: info.ModTime(),
	}, nil
}

// NewLocalFromStream wraps an already-open seekable stream as a Filter,
// without any backing file to close.
func NewLocalFromStream(name string, rs io.ReadSeeker, length int64) *Local {
	return &Local{
		path:   name,
		data:   storage.NewReader(rs),
		length: length,
	}
}

func (l *Local) DataFork() *storage.Reader { return l.data }

func (l *Local) ResourceFork() (*storage.Reader, bool) { return nil, false }

func (l *Local) Length() int64 { return l.length }

func (l *Local) CreationTime() time.Time { return l.created }

func (l *Local) LastWriteTime() time.Time { return l.written }

func (l *Local) BasePath() string { return l.path }

func (l *Local) Filename() string { return filepath.Base(l.path) }

func (l *Local) ParentFolder() string { return filepath.Dir(l.path) }

func (l *Local) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
