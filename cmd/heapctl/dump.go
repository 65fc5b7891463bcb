package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/mem"
	"github.com/joshuapare/heapkit/internal/format"
)

var (
	dumpLimit     int
	dumpCheckOnly bool
	dumpBlocks    bool
)

func init() {
	cmd := newDumpCmd()
	cmd.Flags().IntVar(&dumpLimit, "limit", mem.DefaultLimit, "Address space to reserve for the image")
	cmd.Flags().BoolVar(&dumpCheckOnly, "check", false, "Only validate the image")
	cmd.Flags().BoolVar(&dumpBlocks, "blocks", false, "List every block, not just the summary and free lists")
	rootCmd.AddCommand(cmd)
}

func newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <image>",
		Short: "Validate and print a file-backed heap image",
		Long: `The dump command attaches to a heap image written by
"heapctl replay --region file", validates it, and prints usage and free lists.

Example:
  heapctl dump heap.img
  heapctl dump heap.img --blocks
  heapctl dump heap.img --check
  heapctl dump heap.img --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(args)
		},
	}
	return cmd
}

// DumpClass is one non-empty size class in JSON output.
type DumpClass struct {
	Class  int   `json:"class"`
	Blocks []int `json:"blocks"`
	Sizes  []int `json:"sizes"`
}

// DumpReport is the JSON form of dump.
type DumpReport struct {
	Image       string      `json:"image"`
	Usage       alloc.Usage `json:"usage"`
	Utilization float64     `json:"utilization"`
	FreeLists   []DumpClass `json:"free_lists"`
}

func runDump(args []string) error {
	path := args[0]
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("failed to stat image: %w", err)
	}

	printVerbose("Opening image: %s\n", path)
	region, err := openFileRegion(path, dumpLimit)
	if err != nil {
		return err
	}
	defer region.Close()

	fa, err := alloc.Attach(region, nil, nil)
	if err != nil {
		return fmt.Errorf("invalid heap image: %w", err)
	}

	if dumpCheckOnly {
		printInfo("%s: ok (%s)\n", path, formatBytes(fa.HeapSize()))
		return nil
	}

	if jsonOut {
		u := fa.Usage()
		rep := DumpReport{Image: path, Usage: u, Utilization: u.Utilization()}
		for class := range format.NumClasses {
			list := fa.FreeList(class)
			if len(list) == 0 {
				continue
			}
			dc := DumpClass{Class: class}
			for _, b := range list {
				dc.Blocks = append(dc.Blocks, int(b.Ptr))
				dc.Sizes = append(dc.Sizes, b.Size)
			}
			rep.FreeLists = append(rep.FreeLists, dc)
		}
		return printJSON(rep)
	}

	if dumpBlocks {
		return fa.Dump(os.Stdout)
	}

	u := fa.Usage()
	printInfo("Image:       %s\n", path)
	printInfo("Heap size:   %s\n", formatBytes(u.HeapSize))
	printInfo("Allocated:   %s blocks, %s\n", numbers.Sprintf("%d", u.AllocatedBlocks), formatBytes(u.AllocatedBytes))
	printInfo("Free:        %s blocks, %s (largest %s)\n", numbers.Sprintf("%d", u.FreeBlocks), formatBytes(u.FreeBytes), formatBytes(u.LargestFree))
	printInfo("Utilization: %.1f%%\n", u.Utilization()*100)
	for class := range format.NumClasses {
		if n := len(fa.FreeList(class)); n > 0 {
			printInfo("  class %2d: %d free\n", class, n)
		}
	}
	return nil
}
