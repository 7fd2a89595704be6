package clonecd

import (
	"io"
	"strings"

	"github.com/pkg/errors"

	"diskimage/cdrom"
	"diskimage/filter"
	"diskimage/image"
	"diskimage/registry"
)

const rawSectorSize = 2352
const subchannelSize = 96

// CloneCD decodes a .ccd/.img/.sub triple into a full image.OpticalImage.
type CloneCD struct {
	descFilter filter.Filter
	dataFilter filter.Filter
	subFilter  filter.Filter

	info       image.Info
	tracks     []image.Track
	sessions   []image.Session
	partitions []image.Partition

	fullTOC []byte
	cdText  []byte
	disc    discInfo
}

// New builds an unopened CloneCD plugin.
func New() *CloneCD {
	return &CloneCD{}
}

func (c *CloneCD) Name() string { return "clonecd" }

// Identify sniffs f as a CloneCD descriptor: it must look textual (the
// registry's guard against binary plugins crashing a text parser, and vice
// versa) and contain a [CloneCD] section within its first lines.
func (c *CloneCD) Identify(f filter.Filter) bool {
	if !strings.HasSuffix(strings.ToLower(f.BasePath()), ".ccd") {
		return false
	}

	reader := f.DataFork()
	peek, err := reader.Peek(512)
	if err != nil && len(peek) == 0 {
		return false
	}
	if !registry.LooksTextual(peek) {
		return false
	}

	return strings.Contains(strings.ToLower(string(peek)), "[clonecd]")
}

// Open parses the .ccd descriptor, loads the companion .img (and, if
// present, .sub) files, reconstructs the TOC, and autodetects every data
// track's sector mode.
func (c *CloneCD) Open(f filter.Filter) error {
	c.descFilter = f

	text, err := readAll(f.DataFork())
	if err != nil {
		return errors.Wrap(image.Wrap(image.IoError, err, "reading .ccd descriptor"), "clonecd open")
	}

	desc, err := parseDescriptor(string(text))
	if err != nil {
		return image.Wrap(image.CorruptImage, err, "parsing .ccd descriptor")
	}

	stem := strings.TrimSuffix(f.BasePath(), ".ccd")
	stem = strings.TrimSuffix(stem, ".CCD")

	dataFilter, err := filter.OpenLocal(stem + ".img")
	if err != nil {
		return image.Wrap(image.IncompleteImage, err, "missing companion .img file")
	}
	c.dataFilter = dataFilter

	if subFilter, err := filter.OpenLocal(stem + ".sub"); err == nil {
		c.subFilter = subFilter
	}

	bounds, _, disc, err := computeTrackBounds(desc.Entries)
	if err != nil {
		return image.Wrap(image.CorruptImage, err, "reconstructing TOC")
	}
	if len(bounds) == 0 {
		return image.Newf(image.CorruptImage, "no tracks derived from TOC entries")
	}
	c.disc = disc

	types := make([]image.SectorType, len(bounds))
	for i, b := range bounds {
		raw := make([]byte, rawSectorSize)
		n, _ := c.dataFilter.DataFork().ReadAt(raw, b.StartLBA*rawSectorSize)
		types[i] = detectSectorType(raw[:n], b.Control, desc.DataTracksScrambled)
	}

	tracks := toImageTracks(bounds, types)
	for i := range tracks {
		tracks[i].Filter = c.dataFilter.DataFork()
		tracks[i].FileOffset = tracks[i].StartLBA * rawSectorSize
		if c.subFilter != nil {
			tracks[i].SubchannelFilter = c.subFilter.DataFork()
			tracks[i].SubchannelOffset = tracks[i].StartLBA * subchannelSize
			tracks[i].Subchannel = image.SubchannelRaw
		}
	}

	c.tracks = tracks
	c.sessions = buildSessions(tracks)
	c.partitions = buildPartitions(tracks)
	c.fullTOC = cdrom.ReconstructFullTOC(desc.Entries)
	c.cdText = desc.CDText

	c.info = image.Info{
		Sectors:      uint64(totalSectors(tracks)),
		SectorSize:   uint32(maxEffectiveSize(tracks)),
		MediaType:    detectMediaType(tracks),
		XMLMediaType: image.XMLMediaOptical,
		ReadableSectorTags: []image.SectorTagType{
			image.SectorTagSync, image.SectorTagHeader, image.SectorTagSubHeader,
			image.SectorTagECC, image.SectorTagECCP, image.SectorTagECCQ,
			image.SectorTagEDC, image.SectorTagSubchannel,
		},
		ReadableMediaTags: []image.MediaTagType{image.MediaTagCDFullTOC},
	}
	if len(c.cdText) > 0 {
		c.info.ReadableMediaTags = append(c.info.ReadableMediaTags, image.MediaTagCDText)
	}

	return nil
}

func readAll(r io.Reader) ([]byte, error) {
	return io.ReadAll(r)
}

func totalSectors(tracks []image.Track) int64 {
	if len(tracks) == 0 {
		return 0
	}
	last := tracks[len(tracks)-1]
	for _, t := range tracks {
		if t.EndLBA > last.EndLBA {
			last = t
		}
	}
	return last.EndLBA + 1
}

func maxEffectiveSize(tracks []image.Track) int {
	max := 0
	for _, t := range tracks {
		if t.EffectiveBytesPerSector > max {
			max = t.EffectiveBytesPerSector
		}
	}
	if max == 0 {
		max = rawSectorSize
	}
	return max
}

// Info returns the image's metadata record.
func (c *CloneCD) Info() *image.Info { return &c.info }

func (c *CloneCD) Tracks() []image.Track { return c.tracks }

func (c *CloneCD) Sessions() []image.Session { return c.sessions }

func (c *CloneCD) Partitions() []image.Partition { return c.partitions }

func (c *CloneCD) Close() error {
	var firstErr error
	if c.dataFilter != nil {
		if err := c.dataFilter.Close(); err != nil {
			firstErr = err
		}
	}
	if c.subFilter != nil {
		if err := c.subFilter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.descFilter != nil {
		if err := c.descFilter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// VerifySector has no checksum engine in this core (out of scope); it
// always reports unknown, per spec §7's three-valued-logic contract.
func (c *CloneCD) VerifySector(lba int64) (*bool, error) {
	return nil, nil
}
