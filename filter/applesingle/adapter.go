package applesingle

import (
	"io"
	"time"

	"diskimage/filter"
	"diskimage/storage"
)

// Container is a filter.Container implementation wrapping Identify/Open so
// the registry-style probing in filter.OpenPath can try AppleSingle before
// falling back to a plain Local filter.
type Container struct{}

func (Container) Identify(rs io.ReadSeeker) bool {
	return Identify(rs)
}

// opened adapts the decoded AppleSingle Filter to the filter.Filter contract.
type opened struct {
	inner *Filter
}

func (Container) Open(name string, rs io.ReadSeeker) (filter.Filter, error) {
	f, err := Open(name, rs)
	if err != nil {
		return nil, err
	}
	return &opened{inner: f}, nil
}

func (o *opened) DataFork() *storage.Reader {
	return storage.NewReader(o.inner.data)
}

func (o *opened) ResourceFork() (*storage.Reader, bool) {
	rsrc, ok := o.inner.ResourceFork()
	if !ok {
		return nil, false
	}
	return storage.NewReader(rsrc), true
}

func (o *opened) Length() int64 { return o.inner.data.Len() }

func (o *opened) CreationTime() time.Time { return o.inner.CreationTime() }

func (o *opened) LastWriteTime() time.Time { return o.inner.LastWriteTime() }

func (o *opened) BasePath() string { return o.inner.name }

func (o *opened) Filename() string { return o.inner.name }

func (o *opened) ParentFolder() string { return "" }

func (o *opened) Close() error { return nil }
