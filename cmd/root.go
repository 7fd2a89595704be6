// Package cmd provides the thin CLI that drives the format registry: enough
// to identify, inspect, and dump sectors from a supported image, with the
// console UI, progress reporting, statistics, and checksum verification
// left to external collaborators.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"diskimage/clonecd"
	"diskimage/filter"
	"diskimage/image"
	"diskimage/qcow"
	"diskimage/registry"
)

var rootCmd = &cobra.Command{
	Use:   "diskimage",
	Short: "Disk and optical image container inspector",
	Long: `diskimage identifies and inspects disk/optical image containers
(CloneCD .ccd/.img/.sub, QCOW v1) through a shared format registry.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// newRegistry builds the registry with every plugin this core ships.
// Callers needing a different plugin set (tests, future formats) build
// their own registry.Registry directly instead of going through the CLI.
func newRegistry() *registry.Registry {
	r := registry.New()
	r.Register(func() image.Plugin { return clonecd.New() })
	r.Register(func() image.Plugin { return qcow.New() })
	return r
}

func openFile(filename string) (filter.Filter, error) {
	return filter.OpenLocal(filename)
}
