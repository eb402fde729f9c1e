package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ale-mal/interval-tree/pkg/rangeset"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSV   = "csv"
)

// ErrUnknownFormat is returned for unrecognized output formats.
var errUnknownFormat = fmt.Errorf("unknown output format")

// renderRanges writes the merged ranges to w in the requested format.
func renderRanges(w io.Writer, format string, ranges []rangeset.Range[int]) error {
	switch format {
	case formatTable:
		renderTable(w, ranges)

		return nil
	case formatJSON:
		return renderJSON(w, ranges)
	case formatCSV:
		renderCSV(w, ranges)

		return nil
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}

func renderTable(w io.Writer, ranges []rangeset.Range[int]) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"#", "Low", "High", "Width"})

	for idx, rng := range ranges {
		tbl.AppendRow(table.Row{idx + 1, rng.Low, rng.High, rng.High - rng.Low + 1})
	}

	tbl.AppendFooter(table.Row{"", "", "Total", fmt.Sprintf("%s ranges", humanize.Comma(int64(len(ranges))))})
	tbl.Render()
}

func renderJSON(w io.Writer, ranges []rangeset.Range[int]) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(ranges)
	if err != nil {
		return fmt.Errorf("encode ranges: %w", err)
	}

	return nil
}

func renderCSV(w io.Writer, ranges []rangeset.Range[int]) {
	fmt.Fprintln(w, "low,high")

	for _, rng := range ranges {
		fmt.Fprintf(w, "%s,%s\n", strconv.Itoa(rng.Low), strconv.Itoa(rng.High))
	}
}

// renderSummary prints a one-line colored digest of the merge.
func renderSummary(w io.Writer, useColor bool, inputs, outputs int) {
	headline := color.New(color.FgGreen, color.Bold)
	if !useColor {
		headline.DisableColor()
	}

	headline.Fprintf(w, "merged %s intervals into %s ranges\n",
		humanize.Comma(int64(inputs)), humanize.Comma(int64(outputs)))
}
