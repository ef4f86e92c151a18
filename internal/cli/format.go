package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/Alu-Vidor/cnn-way/grid"
)

// shadeRamp runs from blank to full ink.
const shadeRamp = " .:-=+*#%@"

// shade draws g as text, two characters per cell so the result keeps
// roughly square proportions in a terminal. Values are clamped to [0,1].
func shade(g grid.Grid) string {
	var sb strings.Builder
	last := len(shadeRamp) - 1
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			v := math.Min(math.Max(g.At(r, c), 0), 1)
			ch := shadeRamp[int(math.Round(v*float64(last)))]
			sb.WriteByte(ch)
			sb.WriteByte(ch)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// bar renders p in [0,1] as a horizontal bar of the given width.
func bar(p float64, width int) string {
	n := int(math.Round(math.Min(math.Max(p, 0), 1) * float64(width)))
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%5.1f%%", p*100)
}
