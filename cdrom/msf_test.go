package cdrom

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMSFRoundTrip checks spec.md §8's testable property 1: converting an
// LBA to MSF and back yields the original LBA, for sample LBAs spanning
// frame, second, minute and hour rollovers.
func TestMSFRoundTrip(t *testing.T) {
	for _, lba := range []int64{0, 1, 74, 75, 149, 150, 151, 4499, 333000} {
		msf := LBAToMSF(lba)
		got := MSFToLBA(msf.Hour, msf.Min, msf.Sec, msf.Frame)
		require.Equal(t, lba, got, "lba=%d msf=%+v", lba, msf)
	}
}

func TestLBAToMSFPregap(t *testing.T) {
	// LBA 0 sits 2 seconds (150 frames) into the disc's addressable space.
	msf := LBAToMSF(0)
	require.Equal(t, uint8(0), msf.Min)
	require.Equal(t, uint8(2), msf.Sec)
	require.Equal(t, uint8(0), msf.Frame)
}
