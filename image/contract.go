package image

import "diskimage/filter"

// Plugin is the minimal capability every container format registers under:
// a cheap, side-effect-free sniff, and a full parse that populates
// everything a BaseImage then exposes.
//
// Re-architected per the spec's instruction to replace the original's
// virtual ImagePlugin base class with a small set of composable interfaces
// rather than inheritance: a plugin implements Plugin plus whichever of
// OpticalImage / ByteAddressableImage / TapeImage actually describes it.
// Unimplemented capabilities return a FeatureNotImplemented error rather
// than panicking or silently no-op'ing.
type Plugin interface {
	// Name is the plugin's registry identifier (e.g. "clonecd", "qcow").
	Name() string

	// Identify sniffs f without mutating its read position and without
	// otherwise touching external state.
	Identify(f filter.Filter) bool

	// Open fully parses f, populating Info, tracks, sessions, partitions.
	// The plugin takes ownership of f and closes it from Close.
	Open(f filter.Filter) error
}

// BaseImage is the capability surface every opened image exposes,
// regardless of whether it is optical, tape, or plain block storage.
type BaseImage interface {
	Plugin

	// Info returns the image's metadata record.
	Info() *Info

	// VerifySector checks sector lba against whatever integrity mechanism
	// the format carries (checksums, EDC/ECC, ...), returning nil when the
	// format has none to offer — three-valued logic per spec.
	VerifySector(lba int64) (*bool, error)

	// Close releases the backing Filter(s).
	Close() error
}

// ByteAddressableImage is a BaseImage addressed purely by logical sector
// number, with no track/session structure (QCOW and other block images).
type ByteAddressableImage interface {
	BaseImage

	ReadSector(lba int64) ([]byte, error)
	ReadSectors(lba int64, count int64) ([]byte, error)
}

// OpticalImage is a BaseImage with CD/DVD track, session, and partition
// structure, raw/cooked sector reads, sector-tag slicing, and disk-wide
// media tags.
type OpticalImage interface {
	BaseImage

	Tracks() []Track
	Sessions() []Session
	Partitions() []Partition

	// ReadSector returns the effective-size cooked bytes for lba, resolving
	// which track contains it.
	ReadSector(lba int64) ([]byte, error)
	// ReadSectorInTrack is ReadSector scoped to a specific track; fails with
	// OutOfBounds if lba falls outside that track.
	ReadSectorInTrack(lba int64, track int) ([]byte, error)

	ReadSectors(lba int64, count int64) ([]byte, error)
	ReadSectorsInTrack(lba int64, count int64, track int) ([]byte, error)

	// ReadSectorLong returns the full raw record (2352 bytes for CD) at lba.
	ReadSectorLong(lba int64) ([]byte, error)
	ReadSectorLongInTrack(lba int64, track int) ([]byte, error)

	// ReadSectorTag slices out the named subregion of the raw sector at lba.
	ReadSectorTag(lba int64, track int, tag SectorTagType) ([]byte, error)

	// ReadDiskTag returns a disc-wide metadata blob (full TOC, CD-Text, ...).
	ReadDiskTag(tag MediaTagType) ([]byte, error)

	// VerifySectors checks an inclusive LBA range, returning the aggregate
	// verdict plus the specific failing and unknown LBAs.
	VerifySectors(startLBA, endLBA int64, track int) (verdict *bool, failing []int64, unknown []int64, err error)
}

// TapeFile describes one sequential file on a TapeImage, per spec §4.F:
// tape addressing is by block within a file, not by flat LBA.
type TapeFile struct {
	FileNumber int
	FirstBlock int64
	LastBlock  int64
}

// TapeImage is the sequential, file/block-structured counterpart to
// OpticalImage/ByteAddressableImage, consumed by verifiers rather than by
// the sector-read callers above. Shape only, per spec §4.F — this module
// does not ship a tape decoder, only the contract a future one implements.
type TapeImage interface {
	BaseImage

	Files() []TapeFile

	// ReadBlock reads the block at index within file, which must be a valid
	// FileNumber from Files(). Cross-file traversal is not random access:
	// callers must walk Files() in order.
	ReadBlock(file int, block int64) ([]byte, error)
}
