// Package clonecd implements the CloneCD optical-image container: a text
// descriptor (.ccd) reconstructing a CD full TOC, backed by a raw 2352-byte
// data fork (.img) and an optional 96-byte subchannel fork (.sub).
//
// Grammar is trivial enough that a hand-rolled line tokenizer covers it
// without pulling in a regex engine: [Section] headers and Key = Value
// pairs, hex or decimal integers depending on the field.
package clonecd

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"diskimage/cdrom"
)

type section int

const (
	sectionNone section = iota
	sectionCloneCD
	sectionDisc
	sectionSession
	sectionEntry
	sectionTrack
	sectionCDText
)

func classifySection(header string) (section, bool) {
	h := strings.ToLower(strings.TrimSpace(header))
	switch {
	case h == "clonecd":
		return sectionCloneCD, true
	case h == "disc":
		return sectionDisc, true
	case strings.HasPrefix(h, "session"):
		return sectionSession, true
	case strings.HasPrefix(h, "entry"):
		return sectionEntry, true
	case strings.HasPrefix(h, "track"):
		return sectionTrack, true
	case h == "cdtext":
		return sectionCDText, true
	default:
		return sectionNone, false
	}
}

// descriptor is the parsed contents of a .ccd file.
type descriptor struct {
	Version             int
	TocEntries          int
	Sessions            int
	DataTracksScrambled bool
	CDTextLength        int
	Catalog             string

	Entries []cdrom.TOCEntry
	CDText  []byte
}

// parseDescriptor parses the textual .ccd contents.
func parseDescriptor(text string) (*descriptor, error) {
	d := &descriptor{}

	var current section
	var pending *cdrom.TOCEntry
	seenOtherSection := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(strings.TrimRight(raw, "\r"))
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			header := line[1 : len(line)-1]
			newSection, ok := classifySection(header)
			if !ok {
				current = sectionNone
				continue
			}

			if newSection == sectionCloneCD && seenOtherSection {
				return nil, errors.New("clonecd: [CloneCD] section out of order")
			}
			if newSection != sectionCloneCD {
				seenOtherSection = true
			}

			if pending != nil {
				d.Entries = append(d.Entries, *pending)
				pending = nil
			}

			current = newSection
			if current == sectionEntry {
				pending = &cdrom.TOCEntry{}
			}
			continue
		}

		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}

		switch current {
		case sectionCloneCD:
			if strings.EqualFold(key, "Version") {
				v, _ := strconv.Atoi(value)
				d.Version = v
				// versions other than 2 or 3 are accepted as-is: no
				// warning is raised and parsing proceeds regardless.
			}
		case sectionDisc:
			parseDiscField(d, key, value)
		case sectionEntry:
			parseEntryField(pending, key, value)
		case sectionCDText:
			if strings.HasPrefix(strings.ToLower(key), "entry") {
				d.CDText = append(d.CDText, parseHexBytes(value)...)
			}
		}
	}

	if pending != nil {
		d.Entries = append(d.Entries, *pending)
	}

	return d, nil
}

func parseDiscField(d *descriptor, key, value string) {
	switch {
	case strings.EqualFold(key, "TocEntries"):
		d.TocEntries, _ = strconv.Atoi(value)
	case strings.EqualFold(key, "Sessions"):
		d.Sessions, _ = strconv.Atoi(value)
	case strings.EqualFold(key, "DataTracksScrambled"):
		n, _ := strconv.Atoi(value)
		d.DataTracksScrambled = n == 1
	case strings.EqualFold(key, "CDTextLength"):
		d.CDTextLength, _ = strconv.Atoi(value)
	case strings.EqualFold(key, "CATALOG"):
		d.Catalog = value
	}
}

func parseEntryField(e *cdrom.TOCEntry, key, value string) {
	if e == nil {
		return
	}
	switch strings.ToLower(key) {
	case "session":
		e.Session = uint8(parseDec(value))
	case "point":
		e.Point = uint8(parseHex(value))
	case "adr":
		e.ADR = uint8(parseHex(value))
	case "control":
		e.Control = uint8(parseHex(value))
	case "trackno":
		e.TNO = uint8(parseDec(value))
	case "amin":
		e.AMin = uint8(parseDec(value))
	case "asec":
		e.ASec = uint8(parseDec(value))
	case "aframe":
		e.AFrame = uint8(parseDec(value))
	case "zero":
		e.Zero = uint8(parseDec(value))
	case "pmin":
		e.PMin = uint8(parseDec(value))
	case "psec":
		e.PSec = uint8(parseDec(value))
	case "pframe":
		e.PFrame = uint8(parseDec(value))
	}
}

// splitKeyValue splits a "Key = Value" line, tolerating missing spaces
// around '='.
func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:idx])
	value = strings.TrimSpace(line[idx+1:])
	return key, value, true
}

func parseDec(s string) int64 {
	s = strings.TrimSpace(s)
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

func parseHex(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	n, _ := strconv.ParseInt(s, 16, 64)
	return n
}

// parseHexBytes parses a space-separated run of two-digit hex bytes, e.g.
// "80 01 09 8A" -> []byte{0x80, 0x01, 0x09, 0x8A}.
func parseHexBytes(s string) []byte {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.ParseUint(f, 16, 8)
		if err != nil {
			continue
		}
		out = append(out, byte(n))
	}
	return out
}
