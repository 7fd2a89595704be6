package qcow

import "encoding/binary"

const l2EntryCompressedBit = uint64(1) << 63

// l2Entry is one resolved QCOW v1 L2 table entry: a hole, a raw cluster
// offset, or a zlib-compressed cluster's offset and byte length.
type l2Entry struct {
	Hole             bool
	Compressed       bool
	Offset           int64
	CompressedLength int64
}

// parseL2Entry decodes the index-th 8-byte big-endian slot of a raw L2
// table, per spec.md §3: a zero entry is a hole; the compressed flag is
// the top bit; a compressed entry's low clusterBits bits, shifted down by
// 63-clusterBits, hold the compressed length minus one, with the
// remaining lower bits (below the length field) giving the on-disk offset.
func parseL2Entry(raw []byte, index int, clusterBits uint8) l2Entry {
	entry := binary.BigEndian.Uint64(raw[index*8:])
	if entry == 0 {
		return l2Entry{Hole: true}
	}

	if entry&l2EntryCompressedBit != 0 {
		lengthShift := uint(63 - clusterBits)
		lengthMask := uint64(1)<<clusterBits - 1
		length := ((entry >> lengthShift) & lengthMask) + 1

		offsetMask := uint64(1)<<lengthShift - 1
		offset := entry & offsetMask

		return l2Entry{Compressed: true, Offset: int64(offset), CompressedLength: int64(length)}
	}

	offset := entry &^ l2EntryCompressedBit
	return l2Entry{Offset: int64(offset)}
}
