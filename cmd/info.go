package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diskimage/image"
)

var infoCmd = &cobra.Command{
	Use:                   "info FILE",
	Short:                 "Print the metadata and track layout of FILE",
	Args:                  cobra.ExactArgs(1),
	DisableFlagsInUseLine: true,
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]

		f, err := openFile(filename)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		plugin, err := newRegistry().Open(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		base, ok := plugin.(image.BaseImage)
		if !ok {
			fmt.Printf("plugin %q does not expose image metadata\n", plugin.Name())
			os.Exit(1)
		}
		defer base.Close()

		info := base.Info()
		fmt.Printf("format:      %s\n", plugin.Name())
		fmt.Printf("sectors:     %d\n", info.Sectors)
		fmt.Printf("sector size: %d\n", info.SectorSize)
		fmt.Printf("media type:  %s\n", info.MediaType)

		if optical, ok := plugin.(image.OpticalImage); ok {
			printTracks(optical)
		}
	},
}

func printTracks(optical image.OpticalImage) {
	fmt.Println("tracks:")
	for _, t := range optical.Tracks() {
		fmt.Printf("  #%-3d session %-2d  lba %8d-%8d  %s\n",
			t.Sequence, t.Session, t.StartLBA, t.EndLBA, t.Type)
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
