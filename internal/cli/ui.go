package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	cnnway "github.com/Alu-Vidor/cnn-way"
	"github.com/Alu-Vidor/cnn-way/grid"
)

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleTop     = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconArrow   = "→"

	barWidth = 24
)

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+styleValue.Render(value))
}

// printFile prints a written output path.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+styleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printPredictions prints one ranked row per prediction, highlighting the
// first.
func printPredictions(w io.Writer, preds []cnnway.Prediction) {
	for i, p := range preds {
		digit := styleNumber.Render(fmt.Sprintf("%d", p.Digit))
		if i == 0 {
			digit = styleTop.Render(fmt.Sprintf("%d", p.Digit))
		}
		fmt.Fprintf(w, "  %s  %s %s  %s\n",
			digit,
			bar(p.Probability, barWidth),
			styleValue.Render(formatPercent(p.Probability)),
			styleDim.Render(fmt.Sprintf("conv %.3f  pixel %.3f", p.ConvScore, p.PixelScore)),
		)
	}
}

// printShade prints g as shaded text.
func printShade(w io.Writer, g grid.Grid) {
	fmt.Fprintln(w, styleDim.Render(strings.TrimRight(shade(g), "\n")))
}
