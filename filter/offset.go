package filter

import (
	"io"

	"github.com/pkg/errors"
)

// OffsetStream presents a [start, end] byte window of a base stream as its
// own seekable stream whose position 0 maps to start. Reads that would
// cross end are truncated. Used to carve an AppleSingle entry's data or
// resource fork out of the enclosing container without copying it.
type OffsetStream struct {
	base   io.ReadSeeker
	start  int64
	length int64
	pos    int64
}

// NewOffsetStream builds a window over base spanning the inclusive byte
// range [start, end].
func NewOffsetStream(base io.ReadSeeker, start, end int64) (*OffsetStream, error) {
	if end < start {
		return nil, errors.Errorf("offset window end %d precedes start %d", end, start)
	}
	return &OffsetStream{base: base, start: start, length: end - start + 1}, nil
}

func (o *OffsetStream) Read(p []byte) (int, error) {
	if o.pos >= o.length {
		return 0, io.EOF
	}
	if remaining := o.length - o.pos; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	if _, err := o.base.Seek(o.start+o.pos, io.SeekStart); err != nil {
		return 0, errors.Wrap(err, "offset stream seek failed")
	}
	n, err := o.base.Read(p)
	o.pos += int64(n)
	return n, err
}

func (o *OffsetStream) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = o.pos + offset
	case io.SeekEnd:
		target = o.length + offset
	default:
		return 0, errors.Errorf("invalid whence %d", whence)
	}
	if target < 0 {
		return 0, errors.New("negative seek position")
	}
	o.pos = target
	return target, nil
}

// Len reports the window's length in bytes.
func (o *OffsetStream) Len() int64 { return o.length }
