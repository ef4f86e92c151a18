package cnnway

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfig is returned when a configuration file fails validation.
var ErrInvalidConfig = errors.New("cnnway: invalid configuration")

// Config is the on-disk configuration, normally cnnway.toml:
//
//	[classifier]
//	conv_weight = 0.7
//	pixel_weight = 0.3
//	temperature = 4.0
//
//	[templates]
//	source = "ascii"   # or "font"
//	font = ""          # TrueType path when source = "font"; empty for Go Regular
type Config struct {
	Classifier ClassifierConfig `toml:"classifier"`
	Templates  TemplatesConfig  `toml:"templates"`
}

// ClassifierConfig mirrors Params.
type ClassifierConfig struct {
	ConvWeight  float64 `toml:"conv_weight"`
	PixelWeight float64 `toml:"pixel_weight"`
	Temperature float64 `toml:"temperature"`
}

// TemplatesConfig selects the reference glyph source.
type TemplatesConfig struct {
	Source string `toml:"source"`
	Font   string `toml:"font"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	p := DefaultParams()
	return Config{
		Classifier: ClassifierConfig{
			ConvWeight:  p.ConvWeight,
			PixelWeight: p.PixelWeight,
			Temperature: p.Temperature,
		},
		Templates: TemplatesConfig{Source: string(SourceASCII)},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig, so keys left out of
// the file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%w: unknown key %q in %s", ErrInvalidConfig, undecoded[0].String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Params converts the classifier section.
func (c Config) Params() Params {
	return Params{
		ConvWeight:  c.Classifier.ConvWeight,
		PixelWeight: c.Classifier.PixelWeight,
		Temperature: c.Classifier.Temperature,
	}
}

// Validate checks both sections.
func (c Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch TemplateSource(c.Templates.Source) {
	case SourceASCII, SourceFont:
	default:
		return fmt.Errorf("%w: templates.source %q", ErrInvalidConfig, c.Templates.Source)
	}
	if c.Templates.Font != "" && TemplateSource(c.Templates.Source) != SourceFont {
		return fmt.Errorf("%w: templates.font is only used with source = %q", ErrInvalidConfig, SourceFont)
	}
	return nil
}

// Options converts the configuration into Classifier options.
func (c Config) Options() []Option {
	return []Option{
		WithParams(c.Params()),
		WithTemplateSource(TemplateSource(c.Templates.Source), c.Templates.Font),
	}
}
