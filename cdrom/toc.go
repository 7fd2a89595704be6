package cdrom

import (
	"encoding/binary"
)

// TOCEntry is one raw CD table-of-contents descriptor, as returned by a
// drive's READ TOC/PMA/ATIP command in full-TOC mode.
type TOCEntry struct {
	Session uint8
	ADR     uint8 // 4-bit
	Control uint8 // 4-bit
	TNO     uint8
	Point   uint8
	AMin    uint8
	ASec    uint8
	AFrame  uint8
	Zero    uint8 // high nibble HOUR, low nibble PHOUR
	PMin    uint8
	PSec    uint8
	PFrame  uint8
}

// entrySize is the serialized size of one TOCEntry in the full-TOC block:
// session, (ADR<<4)|CONTROL, TNO, POINT, AMin, ASec, AFrame, Zero, PMin,
// PSec, PFrame — 11 bytes.
const entrySize = 11

// ADR/POINT kinds the CloneCD TOC-reconstruction pass switches on.
const (
	ADRTrackInfo    = 1
	ADRCatalogOrSerial = 5
	ADRSerial       = 6

	PointFirstTrack = 0xA0
	PointLastTrack  = 0xA1
	PointLeadOut    = 0xA2
)

// ReconstructFullTOC serializes entries into the canonical binary full-TOC
// block a CD drive would return: a big-endian u16 data length, the first
// and last session byte, then each 11-byte entry in order.
//
// data_length = entries*11 + 2, and that u16 is the block's own first field.
func ReconstructFullTOC(entries []TOCEntry) []byte {
	firstSession, lastSession := uint8(1), uint8(1)
	if len(entries) > 0 {
		firstSession, lastSession = entries[0].Session, entries[0].Session
		for _, e := range entries {
			if e.Session < firstSession {
				firstSession = e.Session
			}
			if e.Session > lastSession {
				lastSession = e.Session
			}
		}
	}

	dataLength := uint16(len(entries)*entrySize + 2)

	buf := make([]byte, 0, 4+len(entries)*entrySize)
	header := make([]byte, 2)
	binary.BigEndian.PutUint16(header, dataLength)
	buf = append(buf, header...)
	buf = append(buf, firstSession, lastSession)

	for _, e := range entries {
		buf = append(buf,
			e.Session,
			(e.ADR<<4)|(e.Control&0x0F),
			e.TNO,
			e.Point,
			e.AMin,
			e.ASec,
			e.AFrame,
			e.Zero,
			e.PMin,
			e.PSec,
			e.PFrame,
		)
	}

	return buf
}
