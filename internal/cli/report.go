package cli

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"slices"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	cnnway "github.com/Alu-Vidor/cnn-way"
	"github.com/Alu-Vidor/cnn-way/grid"
)

// inkColors is the visual map ramp for the registered grid, blank to ink.
var inkColors = []string{"#ffffff", "#d9d9d9", "#a6a6a6", "#737373", "#404040", "#000000"}

// byDigit returns predictions in digit order.
func byDigit(preds []cnnway.Prediction) []cnnway.Prediction {
	out := slices.Clone(preds)
	slices.SortFunc(out, func(a, b cnnway.Prediction) int { return a.Digit - b.Digit })
	return out
}

func digitLabels(preds []cnnway.Prediction) []string {
	labels := make([]string, len(preds))
	for i, p := range preds {
		labels[i] = strconv.Itoa(p.Digit)
	}
	return labels
}

// saveScorePlot writes a PNG bar chart of the class probabilities.
func saveScorePlot(path string, preds []cnnway.Prediction) error {
	ordered := byDigit(preds)
	values := make(plotter.Values, len(ordered))
	for i, p := range ordered {
		values[i] = p.Probability
	}

	p := plot.New()
	p.Title.Text = "Digit probabilities"
	p.X.Label.Text = "Digit"
	p.Y.Label.Text = "Probability"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(18))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 0x1f, G: 0x9e, B: 0x89, A: 0xff}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(digitLabels(ordered)...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}

// writeReport renders an HTML page with the probability and similarity
// charts and the registered input.
func writeReport(w io.Writer, res cnnway.Result) error {
	ordered := byDigit(res.Predictions)
	labels := digitLabels(ordered)

	probs := make([]opts.BarData, len(ordered))
	conv := make([]opts.BarData, len(ordered))
	pixel := make([]opts.BarData, len(ordered))
	for i, p := range ordered {
		probs[i] = opts.BarData{Value: round3(p.Probability)}
		conv[i] = opts.BarData{Value: round3(p.ConvScore)}
		pixel[i] = opts.BarData{Value: round3(p.PixelScore)}
	}

	probBar := charts.NewBar()
	probBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "cnnway report"}),
		charts.WithTitleOpts(opts.Title{Title: "Digit probabilities"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	probBar.SetXAxis(labels).
		AddSeries("probability", probs,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}),
		)

	simBar := charts.NewBar()
	simBar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Cosine similarity", Subtitle: "feature maps vs raw pixels"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	simBar.SetXAxis(labels).
		AddSeries("conv", conv).
		AddSeries("pixel", pixel)

	page := components.NewPage()
	page.AddCharts(probBar, simBar, gridScatter("Registered input", res.Normalized))
	return page.Render(w)
}

// gridScatter plots g as a coloured scatter, one point per cell, with row 0
// at the top.
func gridScatter(title string, g grid.Grid) *charts.Scatter {
	data := make([]opts.ScatterData, 0, g.Rows()*g.Cols())
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			data = append(data, opts.ScatterData{Value: []interface{}{c, g.Rows() - 1 - r, round3(g.At(r, c))}})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "560px", Height: "560px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -1, Max: g.Cols()}),
		charts.WithYAxisOpts(opts.YAxis{Min: -1, Max: g.Rows()}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:      opts.Bool(true),
			Min:       0,
			Max:       1,
			Dimension: "2",
			InRange:   &opts.VisualMapInRange{Color: inkColors},
		}),
	)
	scatter.AddSeries("ink", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 14}))
	return scatter
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
