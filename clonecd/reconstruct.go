package clonecd

import (
	"fmt"
	"sort"

	"diskimage/cdrom"
	"diskimage/image"
)

// trackBounds is a track as derived purely from TOC entries, before its
// sector mode has been autodetected against the backing image data.
type trackBounds struct {
	Sequence int
	Session  int
	StartLBA int64
	EndLBA   int64
	Control  uint8
}

// discInfo carries the informational fields the TOC-entry pass recovers
// alongside track boundaries: disc type, ATIP manufacturer code, serial.
type discInfo struct {
	DiscType             uint8
	ATIPManufacturerCode string
	SerialNumber         string
}

// computeTrackBounds sorts entries by (session, POINT) and derives track
// start/end boundaries, lead-out positions per session, and the
// informational ADR 5/6 fields, per spec §4.D.
func computeTrackBounds(entries []cdrom.TOCEntry) ([]trackBounds, map[int]int64, discInfo, error) {
	sorted := make([]cdrom.TOCEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Session != sorted[j].Session {
			return sorted[i].Session < sorted[j].Session
		}
		return sorted[i].Point < sorted[j].Point
	})

	var tracks []trackBounds
	leadOutBySession := map[int]int64{}
	var info discInfo

	var current *trackBounds
	currentSession := -1
	var leadOutStart int64

	flush := func(endLBA int64) {
		if current != nil {
			current.EndLBA = endLBA
			tracks = append(tracks, *current)
			current = nil
		}
	}

	for _, e := range sorted {
		pHour := e.Zero & 0x0F

		if int(e.Session) != currentSession {
			if currentSession != -1 {
				flush(leadOutStart - 1)
			}
			currentSession = int(e.Session)
		}

		switch e.ADR {
		case cdrom.ADRTrackInfo, 4:
			switch {
			case e.Point == cdrom.PointFirstTrack:
				info.DiscType = e.PSec
			case e.Point == cdrom.PointLeadOut:
				leadOutStart = cdrom.MSFToLBA(pHour, e.PMin, e.PSec, e.PFrame)
				leadOutBySession[int(e.Session)] = leadOutStart
			case e.Point >= 0x01 && e.Point <= 0x63:
				start := cdrom.MSFToLBA(pHour, e.PMin, e.PSec, e.PFrame)
				if current != nil {
					current.EndLBA = start - 1
					tracks = append(tracks, *current)
				}
				current = &trackBounds{
					Sequence: int(e.Point),
					Session:  int(e.Session),
					StartLBA: start,
					Control:  e.Control,
				}
			}
		case cdrom.ADRCatalogOrSerial:
			if e.Point == 0xC0 && e.PMin == 97 {
				manufacturer := e.PFrame - (e.PFrame % 10)
				info.ATIPManufacturerCode = fmt.Sprintf("%d/%d", e.PSec, manufacturer)
			}
		case cdrom.ADRSerial:
			serial := uint32(e.AMin)<<16 | uint32(e.ASec)<<8 | uint32(e.AFrame)
			info.SerialNumber = fmt.Sprintf("%06X", serial)
		}
	}
	flush(leadOutStart - 1)

	return tracks, leadOutBySession, info, nil
}

// toImageTracks converts trackBounds, now carrying an autodetected sector
// type and raw/effective sizes, into the public image.Track records.
func toImageTracks(bounds []trackBounds, types []image.SectorType) []image.Track {
	out := make([]image.Track, len(bounds))
	for i, b := range bounds {
		t := image.SectorAudio
		if i < len(types) {
			t = types[i]
		}
		out[i] = image.Track{
			Sequence:                b.Sequence,
			Session:                 b.Session,
			StartLBA:                b.StartLBA,
			EndLBA:                  b.EndLBA,
			RawBytesPerSector:       rawSectorSize,
			EffectiveBytesPerSector: t.EffectiveSize(),
			Type:                    t,
		}
	}
	return out
}

// buildSessions derives one image.Session per distinct session number
// present among tracks, taking the min/max (start, end) LBA per session.
func buildSessions(tracks []image.Track) []image.Session {
	bySession := map[int]*image.Session{}
	var order []int

	for _, t := range tracks {
		s, ok := bySession[t.Session]
		if !ok {
			s = &image.Session{Sequence: t.Session, FirstTrack: t.Sequence, LastTrack: t.Sequence, FirstLBA: t.StartLBA, LastLBA: t.EndLBA}
			bySession[t.Session] = s
			order = append(order, t.Session)
			continue
		}
		if t.Sequence < s.FirstTrack {
			s.FirstTrack = t.Sequence
		}
		if t.Sequence > s.LastTrack {
			s.LastTrack = t.Sequence
		}
		if t.StartLBA < s.FirstLBA {
			s.FirstLBA = t.StartLBA
		}
		if t.EndLBA > s.LastLBA {
			s.LastLBA = t.EndLBA
		}
	}

	sort.Ints(order)
	sessions := make([]image.Session, 0, len(order))
	for _, seq := range order {
		sessions = append(sessions, *bySession[seq])
	}
	return sessions
}

// buildPartitions synthesizes one partition per track.
func buildPartitions(tracks []image.Track) []image.Partition {
	out := make([]image.Partition, len(tracks))
	for i, t := range tracks {
		out[i] = image.Partition{
			Start:  t.StartLBA,
			Length: t.SectorCount(),
			Offset: t.StartLBA * int64(rawSectorSize),
			Size:   t.SectorCount() * int64(rawSectorSize),
			Type:   t.Type.String(),
		}
	}
	return out
}
