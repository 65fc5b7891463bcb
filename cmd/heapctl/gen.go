package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	genSeed       int64
	genIDs        int
	genMaxSize    int
	genReallocPct int
	genOutput     string
)

func init() {
	cmd := newGenCmd()
	cmd.Flags().Int64Var(&genSeed, "seed", 1, "Random seed")
	cmd.Flags().IntVar(&genIDs, "ids", 1000, "Number of distinct blocks")
	cmd.Flags().IntVar(&genMaxSize, "max-size", trace.DefaultMaxSize, "Largest request size in bytes")
	cmd.Flags().IntVar(&genReallocPct, "realloc", 20, "Percent of live-block operations that resize (0-90)")
	cmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(cmd)
}

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a random allocation trace",
		Long: `The gen command writes a random but valid trace: every block is
allocated once, optionally resized, and released before the trace ends.

Example:
  heapctl gen --ids 5000 -o random.rep
  heapctl gen --seed 7 --realloc 50 --max-size 65536`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGen()
		},
	}
	return cmd
}

func runGen() error {
	if genIDs < 0 {
		return fmt.Errorf("--ids must not be negative, got %d", genIDs)
	}
	tr := trace.Generate(trace.GenOptions{
		Seed:           genSeed,
		NumIDs:         genIDs,
		MaxSize:        genMaxSize,
		ReallocPercent: genReallocPct,
	})
	allocs, reallocs, frees := tr.Counts()
	logger.Info("generated trace", "seed", genSeed, "ops", len(tr.Ops), "allocs", allocs, "reallocs", reallocs, "frees", frees)

	if genOutput == "" {
		_, err := tr.WriteTo(os.Stdout)
		return err
	}

	f, err := os.Create(genOutput)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	w := bufio.NewWriter(f)
	if _, err := tr.WriteTo(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	printVerbose("Wrote %s operations to %s\n", numbers.Sprintf("%d", len(tr.Ops)), genOutput)
	return nil
}
