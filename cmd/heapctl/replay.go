package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/mem"
	"github.com/joshuapare/heapkit/internal/logger"
	"github.com/joshuapare/heapkit/internal/trace"
)

var (
	replayRegion     string
	replayFile       string
	replayLimit      int
	replayCheckEvery int
	replayTrack      bool
	replayChunk      int
	replaySplit      int
	replayStats      bool
)

func init() {
	cmd := newReplayCmd()
	cmd.Flags().StringVar(&replayRegion, "region", regionSlice, "Region kind: slice, anon, or file")
	cmd.Flags().StringVar(&replayFile, "file", "", "Heap image path for --region file (replaced on each run)")
	cmd.Flags().IntVar(&replayLimit, "limit", mem.DefaultLimit, "Region reservation in bytes")
	cmd.Flags().IntVar(&replayCheckEvery, "check", 0, "Run the heap checker every N operations (0 = never)")
	cmd.Flags().BoolVar(&replayTrack, "checked", false, "Track live allocations and fail on untracked pointers")
	cmd.Flags().IntVar(&replayChunk, "chunk", alloc.DefaultConfig.ChunkSize, "Minimum heap extension in bytes")
	cmd.Flags().IntVar(&replaySplit, "split", alloc.DefaultConfig.SplitThreshold, "Block size at which placement switches to the high end")
	cmd.Flags().BoolVar(&replayStats, "stats", false, "Include allocator counters in the report")
	rootCmd.AddCommand(cmd)
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace>...",
		Short: "Replay allocation traces and report utilization",
		Long: `The replay command runs each trace against a fresh heap, validating
alignment, bounds, overlap, and payload contents after every operation, and
reports space utilization and throughput.

Example:
  heapctl replay traces/*.rep
  heapctl replay short1.rep --check 1 --checked
  heapctl replay short1.rep --region file --file heap.img
  heapctl replay traces/*.rep --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), args)
		},
	}
	return cmd
}

// ReplayReport is the per-trace outcome printed by replay.
type ReplayReport struct {
	Trace       string       `json:"trace"`
	Ops         int          `json:"ops"`
	Allocs      int          `json:"allocs"`
	Reallocs    int          `json:"reallocs"`
	Frees       int          `json:"frees"`
	PeakLive    int          `json:"peak_live"`
	HeapSize    int          `json:"heap_size"`
	Utilization float64      `json:"utilization"`
	OpsPerSec   float64      `json:"ops_per_sec"`
	Duration    string       `json:"duration"`
	Stats       *alloc.Stats `json:"stats,omitempty"`
}

func runReplay(ctx context.Context, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := alloc.Config{ChunkSize: replayChunk, SplitThreshold: replaySplit}

	reports := make([]ReplayReport, 0, len(args))
	for _, path := range args {
		rep, err := replayOne(ctx, path, cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		reports = append(reports, rep)
	}

	if jsonOut {
		return printJSON(reports)
	}
	printReplayTable(reports)
	return nil
}

func replayOne(ctx context.Context, path string, cfg alloc.Config) (ReplayReport, error) {
	printVerbose("Reading trace: %s\n", path)
	tr, err := trace.ParseFile(path)
	if err != nil {
		return ReplayReport{}, err
	}

	region, err := newRegion(replayRegion, replayFile, replayLimit)
	if err != nil {
		return ReplayReport{}, err
	}
	defer region.Close()

	fa, err := alloc.New(region, region.Tracker(), &cfg)
	if err != nil {
		return ReplayReport{}, fmt.Errorf("failed to initialize heap: %w", err)
	}

	logger.Info("replay start", "trace", path, "ops", len(tr.Ops), "ids", tr.NumIDs, "region", replayRegion)
	res, err := trace.Replay(ctx, fa, tr, trace.Options{CheckEvery: replayCheckEvery, Track: replayTrack})
	if err != nil {
		logger.Error("replay failed", "trace", path, "error", err)
		return ReplayReport{}, err
	}
	if err := region.Persist(ctx); err != nil {
		return ReplayReport{}, err
	}
	logger.Info("replay done", "trace", path, "ops", res.Ops, "heap", res.FinalHeap, "util", res.Utilization())

	rep := ReplayReport{
		Trace:       filepath.Base(path),
		Ops:         res.Ops,
		Allocs:      res.Allocs,
		Reallocs:    res.Reallocs,
		Frees:       res.Frees,
		PeakLive:    res.PeakLive,
		HeapSize:    res.FinalHeap,
		Utilization: res.Utilization(),
		OpsPerSec:   res.Throughput(),
		Duration:    res.Duration.Round(time.Microsecond).String(),
	}
	if replayStats {
		st := fa.Stats()
		rep.Stats = &st
	}
	return rep, nil
}

func printReplayTable(reports []ReplayReport) {
	printInfo("%-24s %10s %8s %12s %14s\n", "TRACE", "OPS", "UTIL", "HEAP", "OPS/SEC")
	var totalOps int
	var totalUtil float64
	for _, r := range reports {
		printInfo("%-24s %10s %7.1f%% %12s %14s\n",
			r.Trace,
			numbers.Sprintf("%d", r.Ops),
			r.Utilization*100,
			formatBytes(r.HeapSize),
			numbers.Sprintf("%.0f", r.OpsPerSec))
		if r.Stats != nil {
			printStats(r.Stats)
		}
		totalOps += r.Ops
		totalUtil += r.Utilization
	}
	if len(reports) > 1 {
		printInfo("%-24s %10s %7.1f%%\n", "TOTAL",
			numbers.Sprintf("%d", totalOps), totalUtil/float64(len(reports))*100)
	}
}

func printStats(st *alloc.Stats) {
	printInfo("    alloc: %d calls, %d fast, %d slow | free: %d | realloc: %d (%d kept, %d in place, %d moved)\n",
		st.AllocCalls, st.AllocFastPath, st.AllocSlowPath, st.FreeCalls,
		st.ReallocCalls, st.ReallocUnchanged, st.ReallocInPlace, st.ReallocMoved)
	printInfo("    place: %d whole, %d low, %d high | coalesce: %d next, %d prev, %d both | extend: %d (%s)\n",
		st.PlaceWhole, st.SplitLow, st.SplitHigh,
		st.CoalesceNext, st.CoalescePrev, st.CoalesceBoth,
		st.ExtendCalls, formatBytes(int(st.ExtendBytes)))
}
