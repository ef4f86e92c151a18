package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	cnnway "github.com/Alu-Vidor/cnn-way"
	"github.com/Alu-Vidor/cnn-way/grid"
	"github.com/Alu-Vidor/cnn-way/imageutil"
)

const (
	defaultInspectScale = 10
	featureDir          = "features"
)

func newInspectCmd() *cobra.Command {
	var (
		strokesPath string
		outDir      string
		scale       int
	)

	cmd := &cobra.Command{
		Use:   "inspect [image]",
		Short: "Write the registered input, feature maps and score charts",
		Long: `Inspect classifies a drawing like classify does and writes what the
classifier saw into --out:

  raw.png            the rasterised input
  normalized.png     the input after registration
  features/<id>.png  one pooled feature map per kernel
  scores.png         class probabilities as a bar chart
  report.html        interactive probability and similarity charts`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				return fmt.Errorf("--out is required")
			}
			if scale < 1 {
				return fmt.Errorf("--scale must be at least 1, got %d", scale)
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			raw, err := readInput(logger, args, strokesPath)
			if err != nil {
				return err
			}
			c, err := cnnway.NewClassifier(cfg.Options()...)
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.Predict(raw)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Join(outDir, featureDir), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			out := cmd.OutOrStdout()
			printTitle(out, "Wrote")
			write := func(name string, fn func(path string) error) error {
				if err := ctx.Err(); err != nil {
					return err
				}
				path := filepath.Join(outDir, name)
				if err := fn(path); err != nil {
					return err
				}
				logger.Debug("wrote", "path", path)
				printFile(out, path)
				return nil
			}

			if err := write("raw.png", saveGrid(raw, scale)); err != nil {
				return err
			}
			if err := write("normalized.png", saveGrid(res.Normalized, scale)); err != nil {
				return err
			}
			for _, b := range res.Features {
				// Pooled maps are half the canvas, so double the scale.
				name := filepath.Join(featureDir, b.Kernel.ID+".png")
				if err := write(name, saveGrid(b.Display(), scale*2)); err != nil {
					return err
				}
			}
			if err := write("scores.png", func(path string) error {
				return saveScorePlot(path, res.Predictions)
			}); err != nil {
				return err
			}
			if err := write("report.html", func(path string) error {
				f, err := os.Create(path)
				if err != nil {
					return fmt.Errorf("failed to create report: %w", err)
				}
				if err := writeReport(f, res); err != nil {
					f.Close()
					return fmt.Errorf("failed to render report: %w", err)
				}
				return f.Close()
			}); err != nil {
				return err
			}

			if top, ok := res.Top(); ok && !res.Blank() {
				fmt.Fprintln(out)
				printKeyValue(out, "prediction", fmt.Sprintf("%d (%s)", top.Digit, formatPercent(top.Probability)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&strokesPath, "strokes", "", "read strokes from a JSON file instead of an image")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "directory to write images and the report into")
	cmd.Flags().IntVar(&scale, "scale", defaultInspectScale, "pixels per grid cell in written images")

	return cmd
}

// saveGrid returns a writer that saves g as a PNG enlarged by scale.
func saveGrid(g grid.Grid, scale int) func(path string) error {
	return func(path string) error {
		return imageutil.SavePNG(imageutil.ScaleUp(imageutil.GridImage(g), scale), path)
	}
}
