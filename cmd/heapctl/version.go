package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/format"
)

// Set by the linker: -X main.version=... -X main.commit=... -X main.date=...
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type versionInfo struct {
	Version       string `json:"version"`
	Commit        string `json:"commit"`
	Built         string `json:"built"`
	Go            string `json:"go"`
	Platform      string `json:"platform"`
	WordSize      int    `json:"word_size"`
	Alignment     int    `json:"alignment"`
	SizeClasses   int    `json:"size_classes"`
	MaxRegionSize uint64 `json:"max_region_size"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version:       version,
		Commit:        commit,
		Built:         date,
		Go:            runtime.Version(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		WordSize:      format.WordSize,
		Alignment:     format.Alignment,
		SizeClasses:   format.NumClasses,
		MaxRegionSize: format.MaxRegionSize,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build and heap format information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runVersion()
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion() error {
	info := currentVersion()
	if jsonOut {
		return printJSON(info)
	}
	printInfo("heapctl %s\n", info.Version)
	printInfo("  commit: %s\n", info.Commit)
	printInfo("  built: %s (%s, %s)\n", info.Built, info.Go, info.Platform)
	printInfo("  format: %d-byte words, %d-byte alignment, %d size classes, regions up to %s\n",
		info.WordSize, info.Alignment, info.SizeClasses, formatBytes(int(info.MaxRegionSize)))
	return nil
}
