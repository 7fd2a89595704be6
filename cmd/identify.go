package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var identifyCmd = &cobra.Command{
	Use:                   "identify FILE",
	Short:                 "Identify the image container format of FILE",
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

		plugin, err := newRegistry().Detect(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("%s: %s\n", filename, plugin.Name())
	},
}

func init() {
	rootCmd.AddCommand(identifyCmd)
}
