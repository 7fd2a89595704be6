package qcow

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"diskimage/filter"
)

// buildHeader encodes a QCOW v1 header per spec.md §3.
func buildHeader(size uint64, clusterBits, l2Bits uint8, l1Offset uint64) []byte {
	buf := make([]byte, headerSize)
	binary.BigEndian.PutUint32(buf[0:4], magic)
	binary.BigEndian.PutUint32(buf[4:8], version)
	binary.BigEndian.PutUint64(buf[8:16], 0) // backing_file_offset
	binary.BigEndian.PutUint32(buf[16:20], 0)
	binary.BigEndian.PutUint32(buf[20:24], 0)
	binary.BigEndian.PutUint64(buf[24:32], size)
	buf[32] = clusterBits
	buf[33] = l2Bits
	binary.BigEndian.PutUint16(buf[34:36], 0)
	binary.BigEndian.PutUint32(buf[36:40], 0) // crypt_method
	binary.BigEndian.PutUint64(buf[40:48], l1Offset)
	return buf
}

// putAt grows dst as needed and writes b at offset.
func putAt(dst []byte, offset int64, b []byte) []byte {
	end := offset + int64(len(b))
	if int64(len(dst)) < end {
		grown := make([]byte, end)
		copy(grown, dst)
		dst = grown
	}
	copy(dst[offset:], b)
	return dst
}

// TestOpenComputesGeometry reproduces spec.md §4.E's fixed CHS geometry
// derivation: cylinders = sectors/16/63, heads = 16, sectors_per_track = 63.
func TestOpenComputesGeometry(t *testing.T) {
	const size = 1 << 20 // 2048 sectors
	raw := buildHeader(size, 12, 9, 0x40)
	raw = putAt(raw, 0x40, make([]byte, 8))

	f := filter.NewBytes("geometry.qcow", raw)
	q := New()
	require.NoError(t, q.Open(f))

	info := q.Info()
	require.Equal(t, uint32(2), info.Cylinders)
	require.Equal(t, uint32(16), info.Heads)
	require.Equal(t, uint32(63), info.SectorsPerTrack)
}

func TestIdentifyRejectsBadMagic(t *testing.T) {
	raw := buildHeader(1<<20, 12, 9, 0x40)
	raw[0] = 'X'

	f := filter.NewBytes("bad.qcow", raw)
	q := New()
	require.False(t, q.Identify(f))
}

// TestHoleL1ReadsZero reproduces spec.md scenario S2: a 1 MiB image whose
// L1 table is entirely zero (no L2 tables at all) reads back as zero for
// every sector, and a bulk read spans the whole image.
func TestHoleL1ReadsZero(t *testing.T) {
	const size = 1 << 20
	raw := buildHeader(size, 12, 9, 0x40)
	raw = putAt(raw, 0x40, make([]byte, 8)) // one L1 entry, value 0 (hole)

	f := filter.NewBytes("s2.qcow", raw)
	q := New()
	require.True(t, q.Identify(f))
	require.NoError(t, q.Open(f))

	for _, lba := range []int64{0, 1, 2047} {
		sector, err := q.ReadSector(lba)
		require.NoError(t, err)
		require.Equal(t, make([]byte, sectorSize), sector)
	}

	all, err := q.ReadSectors(0, 2048)
	require.NoError(t, err)
	require.Len(t, all, size)
	require.Equal(t, make([]byte, size), all)
}

// TestCompressedCluster reproduces spec.md scenario S3: one compressed
// cluster at L1[0]->L2[0] holding the zlib-deflate of 4096 bytes of 0xA5;
// sectors within the cluster cook to 0xA5, sectors beyond it (next L2 slot
// is a hole) read zero.
func TestCompressedCluster(t *testing.T) {
	const clusterBits, l2Bits = 12, 9
	const clusterSize = 1 << clusterBits
	const size = 2 * clusterSize

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(bytes.Repeat([]byte{0xA5}, clusterSize))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	const l1Offset = 0x40
	const l2Offset = 0x1000
	const clusterOffset = 0x2000

	raw := buildHeader(size, clusterBits, l2Bits, l1Offset)
	raw = putAt(raw, l1Offset, uint64Bytes(l2Offset))

	l2 := make([]byte, (1<<l2Bits)*8)
	entry := l2EntryCompressedBit | (uint64(len(compressed.Bytes())-1) << (63 - clusterBits))
	entry |= uint64(clusterOffset)
	binary.BigEndian.PutUint64(l2[0:8], entry)
	// slot 1 left at zero: a hole, so its cluster reads back as zero.
	raw = putAt(raw, l2Offset, l2)

	raw = putAt(raw, clusterOffset, compressed.Bytes())

	f := filter.NewBytes("s3.qcow", raw)
	q := New()
	require.True(t, q.Identify(f))
	require.NoError(t, q.Open(f))

	sector0, err := q.ReadSector(0)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0xA5}, sectorSize), sector0)

	sector7, err := q.ReadSector(7)
	require.NoError(t, err)
	require.Equal(t, bytes.Repeat([]byte{0xA5}, sectorSize), sector7)

	sector8, err := q.ReadSector(8)
	require.NoError(t, err)
	require.Equal(t, make([]byte, sectorSize), sector8)
}

// TestSectorCacheTransparent checks that reading the same sector twice
// (once populating the cache, once served from it) returns identical
// bytes, per spec.md §8's cache-transparency property.
func TestSectorCacheTransparent(t *testing.T) {
	const clusterBits, l2Bits = 12, 9
	const clusterSize = 1 << clusterBits
	const size = clusterSize

	raw := buildHeader(size, clusterBits, l2Bits, 0x40)
	raw = putAt(raw, 0x40, uint64Bytes(0x1000))

	l2 := make([]byte, (1<<l2Bits)*8)
	binary.BigEndian.PutUint64(l2[0:8], uint64(0x2000))
	raw = putAt(raw, 0x1000, l2)
	raw = putAt(raw, 0x2000, bytes.Repeat([]byte{0x42}, clusterSize))

	f := filter.NewBytes("cache.qcow", raw)
	q := New()
	require.NoError(t, q.Open(f))

	first, err := q.ReadSector(3)
	require.NoError(t, err)
	second, err := q.ReadSector(3)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
