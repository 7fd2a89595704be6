// Package qcow implements the QCOW v1 sparse block-image format: a
// big-endian header, two-level L1/L2 cluster indirection, and per-cluster
// zlib compression, exposed through image.ByteAddressableImage.
package qcow

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"diskimage/binutil"
)

const (
	magic   = 0x514649FB
	version = 1

	headerSize = 48

	sectorSize = 512

	minClusterBits = 9
	maxClusterBits = 16
	minL2Bits      = 6
	maxL2Bits      = 13
)

// header is the QCOW v1 on-disk layout, per spec.md §3: all fields
// big-endian, backing files and encryption both explicitly unsupported by
// this core.
type header struct {
	Magic             uint32
	Version           uint32
	BackingFileOffset uint64
	BackingFileSize   uint32
	Mtime             uint32
	Size              uint64
	ClusterBits       uint8
	L2Bits            uint8
	Padding           uint16
	CryptMethod       uint32
	L1TableOffset     uint64
}

func parseHeader(raw []byte) (header, error) {
	if len(raw) < headerSize {
		return header{}, errors.Errorf("short header: got %d bytes, need %d", len(raw), headerSize)
	}

	var h header
	if err := binutil.Decode(raw[:headerSize], binary.BigEndian, &h); err != nil {
		return header{}, errors.Wrap(err, "decoding QCOW v1 header")
	}

	if h.Magic != magic {
		return header{}, errors.Errorf("bad magic 0x%08X, want 0x%08X", h.Magic, uint32(magic))
	}
	if h.Version != version {
		return header{}, errors.Errorf("unsupported version %d, this core only reads v1", h.Version)
	}
	if h.BackingFileOffset != 0 {
		return header{}, errors.New("differencing images (backing_file_offset != 0) are not supported")
	}
	if h.CryptMethod != 0 {
		return header{}, errors.New("encrypted images (crypt_method != 0) are not supported")
	}
	if h.ClusterBits < minClusterBits || h.ClusterBits > maxClusterBits {
		return header{}, errors.Errorf("cluster_bits %d out of range [%d,%d]", h.ClusterBits, minClusterBits, maxClusterBits)
	}
	if h.L2Bits < minL2Bits || h.L2Bits > maxL2Bits {
		return header{}, errors.Errorf("l2_bits %d out of range [%d,%d]", h.L2Bits, minL2Bits, maxL2Bits)
	}

	return h, nil
}

func (h header) clusterSize() int64 { return int64(1) << h.ClusterBits }
func (h header) l2Size() int64      { return int64(1) << h.L2Bits }

// l1Size returns the number of entries in the L1 table: one per
// clusterSize*l2Size span of the logical image.
func (h header) l1Size() int64 {
	span := h.clusterSize() * h.l2Size()
	return (int64(h.Size) + span - 1) / span
}

