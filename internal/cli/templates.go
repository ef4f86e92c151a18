package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	cnnway "github.com/Alu-Vidor/cnn-way"
)

func newTemplatesCmd() *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Classify every reference glyph against the template bank",
		Long: `Templates re-registers each reference glyph of the configured source and
classifies it. Every glyph should come out as its own digit; the margin to the
runner-up shows how well separated the classes are.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			src := cnnway.TemplateSource(cfg.Templates.Source)

			glyphs, err := cnnway.GlyphsFor(src, cfg.Templates.Font)
			if err != nil {
				return err
			}
			c, err := cnnway.NewClassifier(append(cfg.Options(), cnnway.WithGlyphs(glyphs))...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printTitle(out, fmt.Sprintf("Templates (%s)", src))

			correct := 0
			for _, g := range glyphs {
				if err := ctx.Err(); err != nil {
					return err
				}
				normalized := cnnway.Register(g.Raster)
				res, err := c.Predict(normalized)
				if err != nil {
					return fmt.Errorf("digit %d: %w", g.Digit, err)
				}
				if show {
					printShade(out, normalized)
				}

				top, _ := res.Top()
				margin := top.Probability
				if len(res.Predictions) > 1 {
					margin -= res.Predictions[1].Probability
				}
				logger.Debug("template", "digit", g.Digit, "top", top.Digit, "margin", margin)

				line := fmt.Sprintf("%d %s %d  %s  margin %s",
					g.Digit, iconArrow, top.Digit, formatPercent(top.Probability), formatPercent(margin))
				if top.Digit == g.Digit {
					correct++
					printSuccess(out, "%s", line)
				} else {
					printWarning(out, "%s", line)
				}
			}

			fmt.Fprintln(out)
			printKeyValue(out, "correct", fmt.Sprintf("%d/%d", correct, len(glyphs)))
			if correct != len(glyphs) {
				return fmt.Errorf("%d of %d templates misclassified", len(glyphs)-correct, len(glyphs))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "print each registered glyph as text")

	return cmd
}
