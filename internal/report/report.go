// Package report renders run diagnostics as self-contained HTML charts.
package report

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/gonum/mat"
)

// LossCurves writes a line chart of the train and test MSE histories
// versus epoch to outputPath. The error axis is logarithmic so convergence
// over many epochs stays readable.
func LossCurves(trainMSE, testMSE []float64, outputPath string) error {
	if len(trainMSE) != len(testMSE) {
		return fmt.Errorf("history length mismatch: train %d, test %d", len(trainMSE), len(testMSE))
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Reconstruction MSE",
			Subtitle: "Mean squared error over train and held-out goal columns",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Epoch",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "MSE",
			Type: "log",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Top: "5%"}),
	)

	epochs := make([]string, len(trainMSE))
	for i := range epochs {
		epochs[i] = fmt.Sprintf("%d", i+1)
	}
	toSeries := func(history []float64) []opts.LineData {
		data := make([]opts.LineData, len(history))
		for i, v := range history {
			data[i] = opts.LineData{Value: v}
		}
		return data
	}
	line.SetXAxis(epochs)
	line.AddSeries("train", toSeries(trainMSE))
	line.AddSeries("test", toSeries(testMSE))

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return line.Render(f)
}

// Heatmap writes matrix m to outputPath as an HTML heatmap. Row 0 is drawn
// at the top.
func Heatmap(title string, m mat.Matrix, outputPath string) error {
	rows, cols := m.Dims()

	lo, hi := math.Inf(1), math.Inf(-1)
	data := make([]opts.HeatMapData, 0, rows*cols)
	for i := range rows {
		for j := range cols {
			v := m.At(i, j)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			// echarts draws y category 0 at the bottom, so flip rows.
			data = append(data, opts.HeatMapData{Value: [3]any{j, rows - 1 - i, v}})
		}
	}
	if lo > hi {
		lo, hi = 0, 1
	}

	xLabels := make([]string, cols)
	for j := range cols {
		xLabels[j] = fmt.Sprintf("%d", j)
	}
	yLabels := make([]string, rows)
	for i := range rows {
		yLabels[i] = fmt.Sprintf("%d", rows-1-i)
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "goal",
			Type:      "category",
			Data:      xLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "state",
			Type:      "category",
			Data:      yLabels,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: []string{"#313695", "#74add1", "#fee090", "#f46d43", "#a50026"}},
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	heatmap.AddSeries(title, data)

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()
	return heatmap.Render(f)
}
