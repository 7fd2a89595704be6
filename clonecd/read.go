package clonecd

import (
	"diskimage/cdrom"
	"diskimage/image"
)

// trackFor locates the track containing lba, or -1 if none does.
func (c *CloneCD) trackFor(lba int64) int {
	for i, t := range c.tracks {
		if lba >= t.StartLBA && lba <= t.EndLBA {
			return i
		}
	}
	return -1
}

// trackByNumber locates the track with the given 1-based Sequence.
func (c *CloneCD) trackByNumber(track int) int {
	for i, t := range c.tracks {
		if t.Sequence == track {
			return i
		}
	}
	return -1
}

func (c *CloneCD) readRaw(idx int, lba int64) ([]byte, error) {
	t := c.tracks[idx]
	if lba < t.StartLBA || lba > t.EndLBA {
		return nil, image.Newf(image.OutOfBounds, "lba %d outside track %d (%d-%d)", lba, t.Sequence, t.StartLBA, t.EndLBA)
	}
	raw := make([]byte, t.RawBytesPerSector)
	offset := t.FileOffset + (lba-t.StartLBA)*int64(t.RawBytesPerSector)
	n, err := t.Filter.ReadAt(raw, offset)
	if err != nil {
		return nil, image.Wrap(image.IoError, err, "reading raw sector %d", lba)
	}
	if n < t.RawBytesPerSector {
		return nil, image.Newf(image.IncompleteImage, "short read at sector %d: got %d of %d bytes", lba, n, t.RawBytesPerSector)
	}
	return raw, nil
}

// ReadSector returns the cooked, effective-size bytes for lba, resolving
// which track contains it.
func (c *CloneCD) ReadSector(lba int64) ([]byte, error) {
	idx := c.trackFor(lba)
	if idx < 0 {
		return nil, image.Newf(image.OutOfBounds, "lba %d not present on any track", lba)
	}
	return c.ReadSectorInTrack(lba, c.tracks[idx].Sequence)
}

// ReadSectorInTrack is ReadSector scoped to a specific track.
func (c *CloneCD) ReadSectorInTrack(lba int64, track int) ([]byte, error) {
	idx := c.trackByNumber(track)
	if idx < 0 {
		return nil, image.Newf(image.OutOfBounds, "no such track %d", track)
	}
	raw, err := c.readRaw(idx, lba)
	if err != nil {
		return nil, err
	}
	return cdrom.SliceUserData(raw, c.tracks[idx].Type), nil
}

// ReadSectors reads count consecutive cooked sectors starting at lba,
// resolving the track per call since a run may not cross track boundaries.
func (c *CloneCD) ReadSectors(lba int64, count int64) ([]byte, error) {
	idx := c.trackFor(lba)
	if idx < 0 {
		return nil, image.Newf(image.OutOfBounds, "lba %d not present on any track", lba)
	}
	return c.ReadSectorsInTrack(lba, count, c.tracks[idx].Sequence)
}

// ReadSectorsInTrack reads count consecutive cooked sectors starting at lba
// within the given track.
func (c *CloneCD) ReadSectorsInTrack(lba int64, count int64, track int) ([]byte, error) {
	idx := c.trackByNumber(track)
	if idx < 0 {
		return nil, image.Newf(image.OutOfBounds, "no such track %d", track)
	}
	t := c.tracks[idx]
	if lba < t.StartLBA || lba+count-1 > t.EndLBA {
		return nil, image.Newf(image.OutOfBounds, "range [%d,%d) outside track %d (%d-%d)", lba, lba+count, t.Sequence, t.StartLBA, t.EndLBA)
	}

	out := make([]byte, 0, int(count)*t.EffectiveBytesPerSector)
	for i := int64(0); i < count; i++ {
		sector, err := c.ReadSectorInTrack(lba+i, track)
		if err != nil {
			return nil, err
		}
		out = append(out, sector...)
	}
	return out, nil
}

// ReadSectorLong returns the full raw 2352-byte record at lba.
func (c *CloneCD) ReadSectorLong(lba int64) ([]byte, error) {
	idx := c.trackFor(lba)
	if idx < 0 {
		return nil, image.Newf(image.OutOfBounds, "lba %d not present on any track", lba)
	}
	return c.readRaw(idx, lba)
}

// ReadSectorLongInTrack is ReadSectorLong scoped to a specific track.
func (c *CloneCD) ReadSectorLongInTrack(lba int64, track int) ([]byte, error) {
	idx := c.trackByNumber(track)
	if idx < 0 {
		return nil, image.Newf(image.OutOfBounds, "no such track %d", track)
	}
	return c.readRaw(idx, lba)
}

// ReadSectorTag slices out the named subregion of the raw sector at lba.
// Subchannel is read from the companion .sub fork instead of the raw
// record, since it is never interleaved into the .img data.
func (c *CloneCD) ReadSectorTag(lba int64, track int, tag image.SectorTagType) ([]byte, error) {
	idx := c.trackByNumber(track)
	if idx < 0 {
		return nil, image.Newf(image.OutOfBounds, "no such track %d", track)
	}
	t := c.tracks[idx]

	if tag == image.SectorTagSubchannel {
		if t.SubchannelFilter == nil {
			return nil, image.Newf(image.FeatureNotPresent, "no subchannel data for track %d", track)
		}
		buf := make([]byte, subchannelSize)
		offset := t.SubchannelOffset + (lba-t.StartLBA)*subchannelSize
		n, err := t.SubchannelFilter.ReadAt(buf, offset)
		if err != nil {
			return nil, image.Wrap(image.IoError, err, "reading subchannel for sector %d", lba)
		}
		if n < subchannelSize {
			return nil, image.Newf(image.IncompleteImage, "short subchannel read at sector %d", lba)
		}
		return buf, nil
	}

	raw, err := c.readRaw(idx, lba)
	if err != nil {
		return nil, err
	}
	region, ok := cdrom.SliceTag(raw, t.Type, tag)
	if !ok {
		return nil, image.Newf(image.TagNotSupportedForTrack, "tag %d not present on track %d sector type %s", tag, track, t.Type)
	}
	return region, nil
}

// ReadDiskTag returns a disc-wide metadata blob.
func (c *CloneCD) ReadDiskTag(tag image.MediaTagType) ([]byte, error) {
	switch tag {
	case image.MediaTagCDFullTOC:
		if len(c.fullTOC) == 0 {
			return nil, image.Newf(image.FeatureNotPresent, "no full TOC reconstructed")
		}
		return c.fullTOC, nil
	case image.MediaTagCDText:
		if len(c.cdText) == 0 {
			return nil, image.Newf(image.FeatureNotPresent, "no CD-Text present")
		}
		return c.cdText, nil
	default:
		return nil, image.Newf(image.FeatureNotImplemented, "media tag %d not implemented", tag)
	}
}

// VerifySectors checks an inclusive LBA range. This core carries no
// checksum engine, so every sector is reported unknown rather than
// pass/fail, per spec §7's three-valued-logic contract.
func (c *CloneCD) VerifySectors(startLBA, endLBA int64, track int) (*bool, []int64, []int64, error) {
	if startLBA > endLBA {
		return nil, nil, nil, image.Newf(image.OutOfBounds, "start %d after end %d", startLBA, endLBA)
	}
	unknown := make([]int64, 0, endLBA-startLBA+1)
	for lba := startLBA; lba <= endLBA; lba++ {
		unknown = append(unknown, lba)
	}
	return nil, nil, unknown, nil
}
