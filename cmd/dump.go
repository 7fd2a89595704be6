package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diskimage/image"
)

var (
	dumpLBA   int64
	dumpCount int64
	dumpTrack int
)

var dumpCmd = &cobra.Command{
	Use:                   "dump FILE",
	Short:                 "Hex-dump one or more sectors from FILE",
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		f, err := openFile(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()

		plugin, err := newRegistry().Open(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		data, err := readSectors(plugin, dumpLBA, dumpCount, dumpTrack)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		hexDump(data, dumpLBA)
	},
}

// readSectors dispatches to whichever read surface the opened plugin
// implements. A non-zero track selects ReadSectorsInTrack on an
// image.OpticalImage; otherwise it falls back to the flat
// image.ByteAddressableImage surface.
func readSectors(plugin image.Plugin, lba, count int64, track int) ([]byte, error) {
	if optical, ok := plugin.(image.OpticalImage); ok {
		if track != 0 {
			return optical.ReadSectorsInTrack(lba, count, track)
		}
		return optical.ReadSectors(lba, count)
	}
	if block, ok := plugin.(image.ByteAddressableImage); ok {
		return block.ReadSectors(lba, count)
	}
	return nil, fmt.Errorf("plugin %q supports no sector read surface", plugin.Name())
}

func hexDump(data []byte, startLBA int64) {
	const width = 16
	for offset := 0; offset < len(data); offset += width {
		end := offset + width
		if end > len(data) {
			end = len(data)
		}
		fmt.Printf("%08x  ", int64(offset)+startLBA*width)
		for _, b := range data[offset:end] {
			fmt.Printf("%02x ", b)
		}
		fmt.Println()
	}
}

func init() {
	dumpCmd.Flags().Int64Var(&dumpLBA, "lba", 0, "starting logical block address")
	dumpCmd.Flags().Int64Var(&dumpCount, "count", 1, "number of sectors to dump")
	dumpCmd.Flags().IntVar(&dumpTrack, "track", 0, "track number (optical images only; 0 = resolve from lba)")
	rootCmd.AddCommand(dumpCmd)
}
