// Package binutil decodes fixed-layout, packing=1 binary records from an
// in-memory byte slice, in an explicit byte order. The teacher's parsers
// call binary.Read directly against a storage.Reader when decoding
// sequentially off a stream; this helper covers the cases elsewhere in this
// module where a record has already been pulled into memory (the QCOW v1
// header) and just needs its byte order made explicit at the call site.
package binutil

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Decode reads sizeof(v) bytes from data in the given byte order into v,
// which must be a pointer to a fixed-size value (no strings, no slices).
func Decode(data []byte, order binary.ByteOrder, v interface{}) error {
	if err := binary.Read(bytes.NewReader(data), order, v); err != nil {
		return errors.Wrap(err, "fixed-layout decode failed")
	}
	return nil
}

// Size returns the number of bytes v's fixed layout occupies.
func Size(v interface{}) int {
	return binary.Size(v)
}
