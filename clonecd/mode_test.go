package clonecd

import (
	"testing"

	"github.com/stretchr/testify/require"

	"diskimage/image"
)

func buildSectorHeader(mode byte) []byte {
	raw := make([]byte, rawSectorSize)
	copy(raw, syncPattern)
	raw[15] = mode
	return raw
}

func TestDetectSectorTypeAudioByControl(t *testing.T) {
	raw := make([]byte, rawSectorSize)
	require.Equal(t, image.SectorAudio, detectSectorType(raw, 0x00, false))
}

func TestDetectSectorTypeMode1(t *testing.T) {
	raw := buildSectorHeader(1)
	require.Equal(t, image.SectorCdMode1, detectSectorType(raw, controlDataTrack, false))
}

func TestDetectSectorTypeMode2Formless(t *testing.T) {
	raw := buildSectorHeader(2)
	// raw[16:24] left all-zero: equal halves, but allZero disqualifies Form1/2.
	require.Equal(t, image.SectorCdMode2Formless, detectSectorType(raw, controlDataTrack, false))
}

func TestDetectSectorTypeMode2Form1(t *testing.T) {
	raw := buildSectorHeader(2)
	sub := []byte{0x01, 0x00, 0x00, 0x00}
	copy(raw[16:20], sub)
	copy(raw[20:24], sub)
	require.Equal(t, image.SectorCdMode2Form1, detectSectorType(raw, controlDataTrack, false))
}

func TestDetectSectorTypeMode2Form2(t *testing.T) {
	raw := buildSectorHeader(2)
	sub := []byte{0x01, 0x00, 0x20, 0x00}
	copy(raw[16:20], sub)
	copy(raw[20:24], sub)
	require.Equal(t, image.SectorCdMode2Form2, detectSectorType(raw, controlDataTrack, false))
}

func TestDetectSectorTypeNoSyncFallsBackToData(t *testing.T) {
	raw := buildSectorHeader(1)
	raw[0] = 0xFF // corrupt the sync mark
	require.Equal(t, image.SectorData, detectSectorType(raw, controlDataTrack, false))
}
