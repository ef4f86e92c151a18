package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	cnnway "github.com/Alu-Vidor/cnn-way"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. The main
// package calls it with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the cnnway CLI.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "cnnway",
		Short: "cnnway recognises hand-drawn digits with fixed convolution kernels",
		Long: `cnnway registers a drawing of a single digit onto a 28x28 canvas, runs it
through a bank of six hand-written 3x3 kernels and ranks the ten digit
classes by similarity to reference templates. Nothing is trained.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			cnnway.SetLogger(slog.New(logger))

			cfg := cnnway.DefaultConfig()
			if configPath != "" {
				var err error
				cfg, err = cnnway.LoadConfig(configPath)
				if err != nil {
					return err
				}
				logger.Debug("loaded config", "path", configPath)
			}

			ctx := withLogger(cmd.Context(), logger)
			ctx = withConfig(ctx, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetVersionTemplate(fmt.Sprintf("cnnway %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a cnnway.toml file")

	root.AddCommand(newClassifyCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newTemplatesCmd())

	return root
}

func withConfig(ctx context.Context, cfg cnnway.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// configFromContext returns the loaded configuration, or the defaults when
// none was attached.
func configFromContext(ctx context.Context) cnnway.Config {
	if cfg, ok := ctx.Value(configKey).(cnnway.Config); ok {
		return cfg
	}
	return cnnway.DefaultConfig()
}
