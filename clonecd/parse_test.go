package clonecd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleDescriptor = `[CloneCD]
Version=3

[Disc]
TocEntries=3
Sessions=1
DataTracksScrambled=0
CDTextLength=0
CATALOG=1234567890123

[Entry 0]
Session=1
Point=0xa0
ADR=0x01
Control=0x04
TrackNo=0
AMin=0
ASec=0
AFrame=0
ALBA=-150
Zero=0
PMin=1
PSec=0
PFrame=0
PLBA=0

[Entry 1]
Session=1
Point=0x01
ADR=0x01
Control=0x04
TrackNo=0
AMin=0
ASec=0
AFrame=0
ALBA=-150
Zero=0
PMin=0
PSec=2
PFrame=0
PLBA=0

[Entry 2]
Session=1
Point=0xa2
ADR=0x01
Control=0x04
TrackNo=0
AMin=0
ASec=0
AFrame=0
ALBA=-150
Zero=0
PMin=0
PSec=4
PFrame=0
PLBA=300
`

func TestParseDescriptor(t *testing.T) {
	d, err := parseDescriptor(sampleDescriptor)
	require.NoError(t, err)

	require.Equal(t, 3, d.Version)
	require.Equal(t, 3, d.TocEntries)
	require.Equal(t, 1, d.Sessions)
	require.False(t, d.DataTracksScrambled)
	require.Equal(t, "1234567890123", d.Catalog)
	require.Len(t, d.Entries, 3)

	require.Equal(t, uint8(0xa0), d.Entries[0].Point)
	require.Equal(t, uint8(1), d.Entries[0].PMin)
	require.Equal(t, uint8(0x01), d.Entries[1].Point)
	require.Equal(t, uint8(0xa2), d.Entries[2].Point)
}

func TestParseDescriptorRejectsOutOfOrderCloneCDSection(t *testing.T) {
	text := "[Disc]\nTocEntries=0\n\n[CloneCD]\nVersion=3\n"
	_, err := parseDescriptor(text)
	require.Error(t, err)
}

func TestParseHexBytes(t *testing.T) {
	require.Equal(t, []byte{0x80, 0x01, 0x09, 0x8A}, parseHexBytes("80 01 09 8A"))
	require.Empty(t, parseHexBytes(""))
}
