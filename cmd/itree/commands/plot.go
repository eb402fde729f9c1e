package commands

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/ale-mal/interval-tree/pkg/rangeset"
)

// writePlot renders the merged ranges as a bar chart of range widths and
// writes a standalone HTML page to path.
func writePlot(path, width, height string, ranges []rangeset.Range[int]) error {
	labels := make([]string, len(ranges))
	widths := make([]opts.BarData, len(ranges))

	for idx, rng := range ranges {
		labels[idx] = fmt.Sprintf("[%d, %d]", rng.Low, rng.High)
		widths[idx] = opts.BarData{Value: rng.High - rng.Low + 1}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: width, Height: height}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Merged Ranges",
			Subtitle: fmt.Sprintf("%d disjoint ranges", len(ranges)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Range"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Width"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("Width", widths)

	page := components.NewPage()
	page.AddCharts(bar)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}
	defer file.Close()

	err = page.Render(file)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}
