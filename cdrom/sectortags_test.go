package cdrom

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"diskimage/image"
)

func TestSliceTagMode1(t *testing.T) {
	raw := make([]byte, rawSectorSize)
	for i := range raw {
		raw[i] = byte(i % 256)
	}

	sync, ok := SliceTag(raw, image.SectorCdMode1, image.SectorTagSync)
	require.True(t, ok)
	require.Equal(t, raw[0:12], sync)

	header, ok := SliceTag(raw, image.SectorCdMode1, image.SectorTagHeader)
	require.True(t, ok)
	require.Equal(t, raw[12:16], header)

	_, ok = SliceTag(raw, image.SectorCdMode1, image.SectorTagSubHeader)
	require.False(t, ok, "Mode1 sectors carry no subheader")
}

func TestSliceUserDataBySectorType(t *testing.T) {
	raw := bytes.Repeat([]byte{0x11}, rawSectorSize)

	mode1 := SliceUserData(raw, image.SectorCdMode1)
	require.Len(t, mode1, 2048)

	form2 := SliceUserData(raw, image.SectorCdMode2Form2)
	require.Len(t, form2, 2324)

	audio := SliceUserData(raw, image.SectorAudio)
	require.Equal(t, raw, audio, "audio sectors are not cooked")
}
