package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	cnnway "github.com/Alu-Vidor/cnn-way"
	"github.com/Alu-Vidor/cnn-way/grid"
	"github.com/Alu-Vidor/cnn-way/imageutil"
)

var errInput = errors.New("give either an image path or --strokes, not both")

// readInput loads the drawing named on the command line and rasterises it
// onto a CanvasSize ink grid.
func readInput(logger *log.Logger, args []string, strokesPath string) (grid.Grid, error) {
	switch {
	case len(args) == 1 && strokesPath == "":
		img, err := imageutil.LoadImage(args[0])
		if err != nil {
			return grid.Grid{}, err
		}
		logger.Debug("loaded image", "path", args[0], "bounds", img.Bounds())
		return imageutil.Rasterize(img, cnnway.CanvasSize)

	case len(args) == 0 && strokesPath != "":
		f, err := os.Open(strokesPath)
		if err != nil {
			return grid.Grid{}, fmt.Errorf("failed to open strokes: %w", err)
		}
		defer f.Close()
		strokes, err := imageutil.LoadStrokes(f)
		if err != nil {
			return grid.Grid{}, err
		}
		logger.Debug("loaded strokes", "path", strokesPath, "strokes", len(strokes))
		img := imageutil.NewStrokeCanvas().Render(strokes)
		return imageutil.Rasterize(img, cnnway.CanvasSize)

	default:
		return grid.Grid{}, errInput
	}
}
