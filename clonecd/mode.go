package clonecd

import (
	"bytes"

	"diskimage/cdrom"
	"diskimage/image"
)

// syncPattern is the 12-byte CD sync mark every CdMode1/CdMode2* sector
// begins with: 00 FF×10 00.
var syncPattern = append([]byte{0x00}, append(bytes.Repeat([]byte{0xFF}, 10), 0x00)...)

// controlDataMask isolates the three CONTROL bits (0x08, 0x04, 0x01) that distinguish a data
// track (with or without digital copy permission / incremental flag) from
// an audio track.
const controlDataMask = 0x0D

const (
	controlDataTrack            = 0x04
	controlDataTrackIncremental = 0x0C
)

func isDataTrackControl(control uint8) bool {
	masked := control & controlDataMask
	return masked == controlDataTrack || masked == controlDataTrackIncremental
}

// detectSectorType reads the raw 2352-byte record at the track's first
// sector and classifies it, per spec §4.D:
//
//   - non-data CONTROL -> Audio.
//   - data CONTROL, sync mark present, mode byte 1 -> CdMode1.
//   - data CONTROL, sync mark present, mode byte 2 -> inspect the 4-byte
//     subheader pair at [16:20) and [20:24) to distinguish Form1/Form2/Formless.
//   - data CONTROL but no sync mark (e.g. corrupt rip) -> Data (generic).
func detectSectorType(raw []byte, control uint8, scrambled bool) image.SectorType {
	if !isDataTrackControl(control) {
		return image.SectorAudio
	}

	if len(raw) < rawSectorSize {
		return image.SectorData
	}

	record := make([]byte, rawSectorSize)
	copy(record, raw[:rawSectorSize])
	if scrambled {
		cdrom.Descramble(record)
	}

	if !bytes.Equal(record[0:12], syncPattern) {
		return image.SectorData
	}

	switch record[15] {
	case 1:
		return image.SectorCdMode1
	case 2:
		sub1 := record[16:20]
		sub2 := record[20:24]
		if bytes.Equal(sub1, sub2) && !allZero(sub1) {
			if sub1[2]&0x20 != 0 {
				return image.SectorCdMode2Form2
			}
			return image.SectorCdMode2Form1
		}
		return image.SectorCdMode2Formless
	default:
		return image.SectorData
	}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
