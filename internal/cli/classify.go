package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	cnnway "github.com/Alu-Vidor/cnn-way"
)

const defaultTop = 3

// classifyOutput is the --json document.
type classifyOutput struct {
	Blank       bool                `json:"blank"`
	Predictions []cnnway.Prediction `json:"predictions"`
}

func newClassifyCmd() *cobra.Command {
	var (
		strokesPath string
		top         int
		asJSON      bool
		show        bool
	)

	cmd := &cobra.Command{
		Use:   "classify [image]",
		Short: "Rank the digit classes for a drawing",
		Long: `Classify rasterises a drawing of one digit, either an image file (PNG, JPEG,
GIF or TIFF) or a JSON stroke file, and prints the most likely digits.

Stroke files hold a list of polylines on a 280x280 canvas:

  [[{"x":140,"y":40},{"x":140,"y":240}]]`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 1 {
				return fmt.Errorf("--top must be at least 1, got %d", top)
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			raw, err := readInput(logger, args, strokesPath)
			if err != nil {
				return err
			}

			prog := newProgress(logger)
			c, err := cnnway.NewClassifier(cfg.Options()...)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Built %d templates from %s glyphs", c.Bank().Len(), cfg.Templates.Source))
			if err := ctx.Err(); err != nil {
				return err
			}

			res, err := c.Predict(raw)
			if err != nil {
				return err
			}
			preds := cnnway.TopK(res.Predictions, top)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeClassifyJSON(out, classifyOutput{Blank: res.Blank(), Predictions: preds})
			}
			renderResult(out, res, preds, show)
			return nil
		},
	}

	cmd.Flags().StringVar(&strokesPath, "strokes", "", "read strokes from a JSON file instead of an image")
	cmd.Flags().IntVarP(&top, "top", "k", defaultTop, "number of ranked digits to print")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print predictions as JSON")
	cmd.Flags().BoolVar(&show, "show", false, "print the registered input as text")

	return cmd
}

func writeClassifyJSON(w io.Writer, out classifyOutput) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func renderResult(w io.Writer, res cnnway.Result, preds []cnnway.Prediction, show bool) {
	if show {
		printTitle(w, "Registered input")
		printShade(w, res.Normalized)
		fmt.Fprintln(w)
	}
	if res.Blank() {
		printWarning(w, "no ink found; every digit is equally likely")
	}
	printTitle(w, "Predictions")
	printPredictions(w, preds)
}
