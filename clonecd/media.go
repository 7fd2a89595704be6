package clonecd

import "diskimage/image"

// detectMediaType applies the spec §4.D media-type heuristic over the
// fully classified track list.
func detectMediaType(tracks []image.Track) image.MediaType {
	hasData := false
	hasAudio := false
	hasMode2 := false
	sessionSet := map[int]bool{}

	for _, t := range tracks {
		sessionSet[t.Session] = true
		switch t.Type {
		case image.SectorAudio:
			hasAudio = true
		case image.SectorCdMode2Form1, image.SectorCdMode2Form2, image.SectorCdMode2Formless:
			hasMode2 = true
			hasData = true
		case image.SectorCdMode1, image.SectorData:
			hasData = true
		}
	}

	if !hasData {
		return image.CDDA
	}

	firstIsAudio := len(tracks) > 0 && tracks[0].Type == image.SectorAudio
	firstIsData := len(tracks) > 0 && tracks[0].Type != image.SectorAudio

	if firstIsAudio && hasData && len(sessionSet) > 1 && hasMode2 {
		return image.CDPLUS
	}
	if (firstIsData && hasAudio) || hasMode2 {
		return image.CDROMXA
	}
	if !hasAudio {
		return image.CDROM
	}
	return image.CD
}
