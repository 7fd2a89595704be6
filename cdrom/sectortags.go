package cdrom

import "diskimage/image"

// tagRegion is the (offset, size) of a sector-tag subregion within a
// 2352-byte raw CD sector. skip (bytes following the region before the next
// meaningful tag) is documented in spec but not needed for slicing: a
// region is fully described by offset and size.
type tagRegion struct {
	Offset int
	Size   int
}

var tagTable = map[image.SectorType]map[image.SectorTagType]tagRegion{
	image.SectorCdMode1: {
		image.SectorTagSync:   {Offset: 0, Size: 12},
		image.SectorTagHeader: {Offset: 12, Size: 4},
		image.SectorTagECC:    {Offset: 2076, Size: 276},
		image.SectorTagECCP:   {Offset: 2076, Size: 172},
		image.SectorTagECCQ:   {Offset: 2248, Size: 104},
		image.SectorTagEDC:    {Offset: 2064, Size: 4},
	},
	image.SectorCdMode2Formless: {
		image.SectorTagSubHeader: {Offset: 0, Size: 8},
		image.SectorTagEDC:       {Offset: 2332, Size: 4},
	},
	image.SectorCdMode2Form1: {
		image.SectorTagSubHeader: {Offset: 16, Size: 8},
		image.SectorTagECC:       {Offset: 2076, Size: 276},
		image.SectorTagEDC:       {Offset: 2072, Size: 4},
	},
	image.SectorCdMode2Form2: {
		image.SectorTagSubHeader: {Offset: 16, Size: 8},
		image.SectorTagEDC:       {Offset: 2348, Size: 4},
	},
}

// SectorTagRegion looks up the (offset, size) of tag within a raw sector of
// the given type. Only the (type, tag) pairs listed in tagTable resolve:
// SectorTagSync, for instance, is found for CdMode1 sectors only.
func SectorTagRegion(sectorType image.SectorType, tag image.SectorTagType) (tagRegion, bool) {
	byType, ok := tagTable[sectorType]
	if !ok {
		return tagRegion{}, false
	}
	region, ok := byType[tag]
	return region, ok
}

// SliceTag extracts tag from a full 2352-byte raw record for the given
// sector type. Subchannel is not sliceable from the raw record — callers
// must extract it from the 96-byte subchannel fork directly.
func SliceTag(raw []byte, sectorType image.SectorType, tag image.SectorTagType) ([]byte, bool) {
	region, ok := SectorTagRegion(sectorType, tag)
	if !ok {
		return nil, false
	}
	if region.Offset+region.Size > len(raw) {
		return nil, false
	}
	return raw[region.Offset : region.Offset+region.Size], true
}

// userDataTable gives the (offset, size) of the cooked user-data region
// within a raw sector, per sector type. Audio and generic Data sectors carry
// no header/ECC framing to strip, so they have no entry: the cooked read is
// the raw record unchanged.
var userDataTable = map[image.SectorType]tagRegion{
	image.SectorCdMode1:         {Offset: 16, Size: 2048},
	image.SectorCdMode2Form1:    {Offset: 24, Size: 2048},
	image.SectorCdMode2Form2:    {Offset: 24, Size: 2324},
	image.SectorCdMode2Formless: {Offset: 16, Size: 2336},
}

// SliceUserData extracts the cooked, user-visible bytes from a raw 2352-byte
// record for the given sector type.
func SliceUserData(raw []byte, sectorType image.SectorType) []byte {
	region, ok := userDataTable[sectorType]
	if !ok {
		return raw
	}
	if region.Offset+region.Size > len(raw) {
		return raw
	}
	return raw[region.Offset : region.Offset+region.Size]
}
