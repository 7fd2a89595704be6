package clonecd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"diskimage/image"
)

func track(seq, session int, t image.SectorType) image.Track {
	return image.Track{Sequence: seq, Session: session, Type: t}
}

func TestDetectMediaTypeAllAudioIsCDDA(t *testing.T) {
	tracks := []image.Track{track(1, 1, image.SectorAudio), track(2, 1, image.SectorAudio)}
	require.Equal(t, image.CDDA, detectMediaType(tracks))
}

func TestDetectMediaTypeAllDataIsCDROM(t *testing.T) {
	tracks := []image.Track{track(1, 1, image.SectorCdMode1)}
	require.Equal(t, image.CDROM, detectMediaType(tracks))
}

func TestDetectMediaTypeMixedMode2IsCDROMXA(t *testing.T) {
	tracks := []image.Track{track(1, 1, image.SectorAudio), track(2, 1, image.SectorCdMode2Form1)}
	require.Equal(t, image.CDROMXA, detectMediaType(tracks))
}
