package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ale-mal/interval-tree/pkg/config"
	"github.com/ale-mal/interval-tree/pkg/rangeset"
	"github.com/ale-mal/interval-tree/pkg/rbtree"
	"github.com/ale-mal/interval-tree/pkg/safeconv"
)

// nodeFootprintBytes is the padded in-memory size of one arena slot: seven
// uint32 fields plus the color flag.
const nodeFootprintBytes = 32

// statsOptions captures the flags of the stats command.
type statsOptions struct {
	configPath string
	input      string
}

// inputStats is everything the stats command reports on one input set.
type inputStats struct {
	intervals       int
	mergedRanges    int
	coveredSpan     int
	maxHigh         uint32
	shards          int
	arenaSlots      int
	liveBytes       int
	hibernatedBytes int
}

// NewStatsCommand creates the stats command.
func NewStatsCommand() *cobra.Command {
	options := &statsOptions{}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report interval set and tree storage statistics",
		Long: `Stats loads [low, high] interval pairs into sharded arena-backed
interval trees and reports the merged coverage of the set and how much
memory the trees occupy live and hibernated. The shard count and the
hibernation threshold come from the tree section of the config.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStats(cmd, options)
		},
	}

	cmd.Flags().StringVarP(&options.configPath, "config", "c", "", "path to the config file")
	cmd.Flags().StringVarP(&options.input, "input", "i", "-", "input file, - for stdin")

	return cmd
}

func runStats(cmd *cobra.Command, options *statsOptions) error {
	cfg, err := config.Load(options.configPath)
	if err != nil {
		return err
	}

	intervals, err := ReadIntervals(options.input)
	if err != nil {
		return err
	}

	sharded := rbtree.NewShardedAllocator(cfg.Tree.Shards, cfg.Tree.HibernationThreshold)

	trees := make([]*rbtree.IntervalTree, cfg.Tree.Shards)
	for idx := range trees {
		trees[idx] = rbtree.NewIntervalTree(sharded.GetShardByID(safeconv.MustIntToUint32(idx)))
	}

	stats := inputStats{intervals: len(intervals), shards: cfg.Tree.Shards}

	for idx, rng := range intervals {
		high := safeconv.MustIntToUint32(rng.High)
		trees[idx%len(trees)].Insert(safeconv.MustIntToUint32(rng.Low), high, 0)

		if high > stats.maxHigh {
			stats.maxHigh = high
		}
	}

	merged := rangeset.Merge(intervals)
	stats.mergedRanges = len(merged)

	for _, rng := range merged {
		stats.coveredSpan += rng.High - rng.Low + 1
	}

	for _, shard := range sharded.Shards() {
		stats.arenaSlots += shard.Size()
	}

	stats.liveBytes = stats.arenaSlots * nodeFootprintBytes

	sharded.Hibernate()

	for _, shard := range sharded.Shards() {
		stats.hibernatedBytes += shard.HibernatedSize()
	}

	sharded.Boot()

	renderStats(cmd.OutOrStdout(), stats)

	return nil
}

func renderStats(w io.Writer, stats inputStats) {
	ratio := "n/a"
	if stats.hibernatedBytes > 0 {
		ratio = fmt.Sprintf("%.2fx", float64(stats.liveBytes)/float64(stats.hibernatedBytes))
	}

	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Metric", "Value"})
	tbl.AppendRow(table.Row{"Intervals", humanize.Comma(int64(stats.intervals))})
	tbl.AppendRow(table.Row{"Merged ranges", humanize.Comma(int64(stats.mergedRanges))})
	tbl.AppendRow(table.Row{"Covered span", humanize.Comma(int64(stats.coveredSpan))})
	tbl.AppendRow(table.Row{"Highest endpoint", humanize.Comma(int64(safeconv.MustUint32ToInt(stats.maxHigh)))})
	tbl.AppendRow(table.Row{"Shards", humanize.Comma(int64(stats.shards))})
	tbl.AppendRow(table.Row{"Arena slots", humanize.Comma(int64(stats.arenaSlots))})
	tbl.AppendRow(table.Row{"Live size", humanize.Bytes(uint64(stats.liveBytes))})
	tbl.AppendRow(table.Row{"Hibernated size", humanize.Bytes(uint64(stats.hibernatedBytes))})
	tbl.AppendRow(table.Row{"Compression", ratio})
	tbl.Render()
}
