package qcow

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"diskimage/filter"
	"diskimage/image"
)

const (
	l2CacheEntries      = 8
	clusterCacheEntries = 8
	sectorCacheEntries  = 64
)

// QCOW decodes a QCOW v1 sparse block image into an
// image.ByteAddressableImage, resolving L1->L2->cluster on demand and
// transparently inflating zlib-compressed clusters.
type QCOW struct {
	f filter.Filter
	h header

	l1Table []int64 // byte offset of each L2 table; 0 = hole

	l2Cache      *evictAllCache // key: L1 entry (L2 table) offset -> raw L2 table bytes
	clusterCache *evictAllCache // key: cluster's on-disk offset -> clusterSize decompressed bytes
	sectorCache  *evictAllCache // key: lba -> sectorSize bytes

	info image.Info
}

// New builds an unopened QCOW plugin.
func New() *QCOW {
	return &QCOW{}
}

func (q *QCOW) Name() string { return "qcow" }

// Identify sniffs f's first 4 bytes for the QCOW magic, without otherwise
// touching its read position.
func (q *QCOW) Identify(f filter.Filter) bool {
	peek, err := f.DataFork().Peek(4)
	if err != nil {
		return false
	}
	return peek[0] == 'Q' && peek[1] == 'F' && peek[2] == 'I' && peek[3] == 0xFB
}

// Open parses the header, loads the L1 table, and primes the caches.
func (q *QCOW) Open(f filter.Filter) error {
	q.f = f

	raw := make([]byte, headerSize)
	n, err := f.DataFork().ReadAt(raw, 0)
	if err != nil || n < headerSize {
		return image.Wrap(image.CorruptImage, err, "reading QCOW header")
	}

	h, err := parseHeader(raw)
	if err != nil {
		return image.Wrap(image.CorruptImage, err, "parsing QCOW header")
	}
	q.h = h

	l1Raw := make([]byte, h.l1Size()*8)
	if len(l1Raw) > 0 {
		n, err := f.DataFork().ReadAt(l1Raw, int64(h.L1TableOffset))
		if err != nil || int64(n) < int64(len(l1Raw)) {
			return image.Wrap(image.CorruptImage, err, "reading L1 table")
		}
	}

	l1Table := make([]int64, h.l1Size())
	for i := range l1Table {
		l1Table[i] = int64(binary.BigEndian.Uint64(l1Raw[i*8:]))
	}
	q.l1Table = l1Table

	q.l2Cache = newEvictAllCache(l2CacheEntries)
	q.clusterCache = newEvictAllCache(clusterCacheEntries)
	q.sectorCache = newEvictAllCache(sectorCacheEntries)

	sectors := int64(h.Size) / sectorSize
	q.info = image.Info{
		Sectors:         uint64(sectors),
		SectorSize:      sectorSize,
		MediaType:       image.GenericHDD,
		XMLMediaType:    image.XMLMediaBlock,
		Cylinders:       uint32(sectors / 16 / 63),
		Heads:           16,
		SectorsPerTrack: 63,
	}

	return nil
}

// Info returns the image's metadata record.
func (q *QCOW) Info() *image.Info { return &q.info }

// VerifySector has no checksum engine in this core; it always reports
// unknown, per spec.md §7's three-valued-logic contract.
func (q *QCOW) VerifySector(lba int64) (*bool, error) { return nil, nil }

func (q *QCOW) Close() error {
	if q.f == nil {
		return nil
	}
	return q.f.Close()
}

// l2TableRaw returns the raw bytes of the L2 table at tableOffset, reading
// through the L2 cache.
func (q *QCOW) l2TableRaw(tableOffset int64) ([]byte, error) {
	if cached, ok := q.l2Cache.get(tableOffset); ok {
		return cached, nil
	}

	raw := make([]byte, q.h.l2Size()*8)
	n, err := q.f.DataFork().ReadAt(raw, tableOffset)
	if err != nil || int64(n) < int64(len(raw)) {
		return nil, image.Wrap(image.CorruptImage, err, "reading L2 table at offset %d", tableOffset)
	}

	q.l2Cache.put(tableOffset, raw)
	return raw, nil
}

// resolve finds the l2Entry covering byte address addr, or ok=false if its
// L1 entry is a hole.
func (q *QCOW) resolve(addr int64) (entry l2Entry, ok bool, err error) {
	clusterSize := q.h.clusterSize()
	l2Size := q.h.l2Size()
	span := clusterSize * l2Size

	l1Index := addr / span
	if l1Index < 0 || l1Index >= int64(len(q.l1Table)) {
		return l2Entry{}, false, image.Newf(image.OutOfBounds, "byte address %d outside image", addr)
	}

	tableOffset := q.l1Table[l1Index]
	if tableOffset == 0 {
		return l2Entry{}, false, nil
	}

	raw, err := q.l2TableRaw(tableOffset)
	if err != nil {
		return l2Entry{}, false, err
	}

	clusterIndex := (addr / clusterSize) % l2Size
	e := parseL2Entry(raw, int(clusterIndex), q.h.ClusterBits)
	if e.Hole {
		return l2Entry{}, false, nil
	}
	return e, true, nil
}

// clusterData returns the decompressed, clusterSize-long contents of the
// cluster backing entry, reading through the cluster cache for compressed
// clusters (raw clusters are read straight from the backing filter each
// time, since there is no decompression cost to amortize).
func (q *QCOW) clusterData(e l2Entry) ([]byte, error) {
	clusterSize := q.h.clusterSize()

	if !e.Compressed {
		raw := make([]byte, clusterSize)
		n, err := q.f.DataFork().ReadAt(raw, e.Offset)
		if err != nil || int64(n) < clusterSize {
			return nil, image.Wrap(image.CorruptImage, err, "reading raw cluster at offset %d", e.Offset)
		}
		return raw, nil
	}

	if cached, ok := q.clusterCache.get(e.Offset); ok {
		return cached, nil
	}

	compressed := make([]byte, e.CompressedLength)
	n, err := q.f.DataFork().ReadAt(compressed, e.Offset)
	if err != nil || int64(n) < e.CompressedLength {
		return nil, image.Wrap(image.CorruptImage, err, "reading compressed cluster at offset %d", e.Offset)
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, image.Wrap(image.CorruptImage, err, "opening zlib stream for cluster at offset %d", e.Offset)
	}
	defer zr.Close()

	decoded := make([]byte, clusterSize)
	if _, err := io.ReadFull(zr, decoded); err != nil {
		return nil, image.Wrap(image.CorruptImage, err, "zlib expansion of cluster at offset %d did not yield %d bytes", e.Offset, clusterSize)
	}

	q.clusterCache.put(e.Offset, decoded)
	return decoded, nil
}

// ReadSector returns the 512-byte sector at lba, zero-filled if its L1 or
// L2 entry is a hole.
func (q *QCOW) ReadSector(lba int64) ([]byte, error) {
	if lba < 0 || uint64(lba) >= q.info.Sectors {
		return nil, image.Newf(image.OutOfBounds, "lba %d >= %d sectors", lba, q.info.Sectors)
	}

	if cached, ok := q.sectorCache.get(lba); ok {
		out := make([]byte, sectorSize)
		copy(out, cached)
		return out, nil
	}

	addr := lba * sectorSize
	entry, ok, err := q.resolve(addr)
	if err != nil {
		return nil, err
	}
	if !ok {
		zeros := make([]byte, sectorSize)
		q.sectorCache.put(lba, zeros)
		return zeros, nil
	}

	cluster, err := q.clusterData(entry)
	if err != nil {
		return nil, err
	}

	within := addr % q.h.clusterSize()
	sector := make([]byte, sectorSize)
	copy(sector, cluster[within:within+sectorSize])

	q.sectorCache.put(lba, sector)
	return sector, nil
}

// ReadSectors reads count consecutive sectors starting at lba.
func (q *QCOW) ReadSectors(lba int64, count int64) ([]byte, error) {
	if count < 0 {
		return nil, image.Newf(image.OutOfBounds, "negative count %d", count)
	}
	out := make([]byte, 0, count*sectorSize)
	for i := int64(0); i < count; i++ {
		sector, err := q.ReadSector(lba + i)
		if err != nil {
			return nil, errors.Wrapf(err, "reading sector %d of %d", i, count)
		}
		out = append(out, sector...)
	}
	return out, nil
}
