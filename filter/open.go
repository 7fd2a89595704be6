package filter

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"diskimage/storage"
)

// OpenPath opens path, trying each container in order to unwrap a
// containerized artifact (AppleSingle, MacBinary, ...) before falling back
// to a plain Local filter. Containers are tried against the stream without
// disturbing its position on a miss.
func OpenPath(path string, containers []Container) (Filter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %q", path)
	}

	for _, c := range containers {
		if c.Identify(f) {
			if _, err := f.Seek(0, io.SeekStart); err != nil {
				f.Close()
				return nil, errors.Wrap(err, "seek to start before container open failed")
			}
			opened, err := c.Open(path, f)
			if err != nil {
				f.Close()
				return nil, errors.Wrapf(err, "container open failed for %q", path)
			}
			return opened, nil
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "seek reset after container probe failed")
		}
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
