package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ale-mal/interval-tree/pkg/config"
	"github.com/ale-mal/interval-tree/pkg/persist"
	"github.com/ale-mal/interval-tree/pkg/rangeset"
)

// mergeOptions captures the flags of the merge command.
type mergeOptions struct {
	configPath string
	input      string
	format     string
	plotPath   string
	save       bool
	codec      string
	noColor    bool
}

// mergedState is the persisted result of a merge run.
type mergedState struct {
	Inputs int                   `json:"inputs" yaml:"inputs"`
	Ranges []rangeset.Range[int] `json:"ranges" yaml:"ranges"`
}

// NewMergeCommand creates the merge command.
func NewMergeCommand() *cobra.Command {
	options := &mergeOptions{}

	cmd := &cobra.Command{
		Use:   "merge",
		Short: "Merge overlapping intervals into a minimal sorted set",
		Long: `Merge reads [low, high] interval pairs from a JSON or CSV file
(or stdin with --input -) and folds every group of overlapping or touching
intervals into a single range. The result is reported as a table, JSON or CSV.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMerge(cmd, options)
		},
	}

	cmd.Flags().StringVarP(&options.configPath, "config", "c", "", "path to the config file")
	cmd.Flags().StringVarP(&options.input, "input", "i", "-", "input file, - for stdin")
	cmd.Flags().StringVarP(&options.format, "format", "f", "", "output format: table, json or csv")
	cmd.Flags().StringVar(&options.plotPath, "plot", "", "write an HTML chart of the merged ranges")
	cmd.Flags().BoolVar(&options.save, "save", false, "persist the merged state into the configured directory")
	cmd.Flags().StringVar(&options.codec, "codec", "", "persistence codec: json, gob or yaml")
	cmd.Flags().BoolVar(&options.noColor, "no-color", false, "disable colored output")

	return cmd
}

func runMerge(cmd *cobra.Command, options *mergeOptions) error {
	cfg, err := config.Load(options.configPath)
	if err != nil {
		return err
	}

	format := cfg.Output.Format
	if options.format != "" {
		format = options.format
	}

	intervals, err := ReadIntervals(options.input)
	if err != nil {
		return err
	}

	merged := rangeset.Merge(intervals)

	err = renderRanges(cmd.OutOrStdout(), format, merged)
	if err != nil {
		return err
	}

	if format == formatTable {
		useColor := cfg.Output.Color && !options.noColor
		renderSummary(cmd.OutOrStdout(), useColor, len(intervals), len(merged))
	}

	if options.plotPath != "" {
		err = writePlot(options.plotPath, cfg.Plot.Width, cfg.Plot.Height, merged)
		if err != nil {
			return err
		}
	}

	if options.save {
		codecName := cfg.Persist.Codec
		if options.codec != "" {
			codecName = options.codec
		}

		err = saveMerged(cfg, codecName, len(intervals), merged)
		if err != nil {
			return err
		}
	}

	return nil
}

func saveMerged(cfg *config.Config, codecName string, inputs int, merged []rangeset.Range[int]) error {
	codec, err := persist.ForName(codecName)
	if err != nil {
		return err
	}

	persister := persist.NewPersister[mergedState](cfg.Persist.Basename, codec)

	err = persister.Save(cfg.Persist.Directory, func() *mergedState {
		return &mergedState{Inputs: inputs, Ranges: merged}
	})
	if err != nil {
		return fmt.Errorf("save merged state: %w", err)
	}

	return nil
}
