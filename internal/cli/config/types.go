// Package config provides configuration management for the gdpplot CLI.
//
// Settings are layered with koanf: defaults, gdpplot.yaml, a .env file,
// GDPPLOT_ environment variables and finally explicitly set flags.
package config

import (
	"time"

	"github.com/leapstack-labs/gdpplot/pkg/core"
)

// Default configuration values.
const (
	DefaultSourcePath    = "isp_gdp.csv"
	DefaultMinYear       = 1960
	DefaultMaxYear       = 2015
	DefaultCodeFieldName = "Country Code"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultSink          = "svg"
	DefaultOutDir        = "plots"
	DefaultHistoryFile   = ".gdpplot/history.db"
	DefaultAddr          = ":8765"
	DefaultRateLimit     = 20
	DefaultBurst         = 40
	DefaultShutdown      = 5 * time.Second
)

// Config holds all CLI configuration options.
type Config struct {
	Dataset      DatasetConfig `koanf:"dataset"`
	Countries    []string      `koanf:"countries"`
	OutputFormat string        `koanf:"output" validate:"oneof=auto text markdown json"`
	Verbose      bool          `koanf:"verbose"`
	Plot         PlotConfig    `koanf:"plot"`
	History      HistoryConfig `koanf:"history"`
	Serve        ServeConfig   `koanf:"serve"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
}

// DatasetConfig describes the GDP source table.
type DatasetConfig struct {
	SourcePath     string `koanf:"source_path" validate:"required"`
	Source         string `koanf:"source" validate:"oneof=delimited duckdb"`
	FieldSeparator string `koanf:"field_separator" validate:"len=1,nefield=QuoteCharacter"`
	QuoteCharacter string `koanf:"quote_character" validate:"len=1"`
	MinYear        int    `koanf:"min_year" validate:"gte=0"`
	MaxYear        int    `koanf:"max_year" validate:"gte=0"`
	KeyFieldName   string `koanf:"key_field_name" validate:"required"`
	CodeFieldName  string `koanf:"code_field_name"`
}

// PlotConfig holds render settings.
type PlotConfig struct {
	Sink   string `koanf:"sink" validate:"oneof=svg json csv xlsx"`
	OutDir string `koanf:"out_dir" validate:"required"`
	Title  string `koanf:"title"`
	Height int    `koanf:"height" validate:"gt=0"`
	Width  int    `koanf:"width" validate:"gt=0"`
}

// HistoryConfig controls the run history database.
type HistoryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"required_if=Enabled true"`
}

// ServeConfig holds HTTP API settings.
type ServeConfig struct {
	Addr            string        `koanf:"addr" validate:"required"`
	Watch           bool          `koanf:"watch"`
	RateLimit       float64       `koanf:"rate_limit" validate:"gte=0"`
	Burst           int           `koanf:"burst" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

// DatasetConfig converts the dataset section into the core build options.
func (c *Config) DatasetConfig() core.DatasetConfig {
	return core.DatasetConfig{
		SourcePath:     c.Dataset.SourcePath,
		Source:         c.Dataset.Source,
		FieldSeparator: firstRune(c.Dataset.FieldSeparator, core.DefaultFieldSeparator),
		QuoteCharacter: firstRune(c.Dataset.QuoteCharacter, core.DefaultQuoteCharacter),
		MinYear:        c.Dataset.MinYear,
		MaxYear:        c.Dataset.MaxYear,
		KeyFieldName:   c.Dataset.KeyFieldName,
	}
}

func firstRune(s string, def rune) rune {
	for _, r := range s {
		return r
	}
	return def
}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		Dataset: DatasetConfig{
			SourcePath:     DefaultSourcePath,
			Source:         core.DefaultSource,
			FieldSeparator: string(core.DefaultFieldSeparator),
			QuoteCharacter: string(core.DefaultQuoteCharacter),
			MinYear:        DefaultMinYear,
			MaxYear:        DefaultMaxYear,
			KeyFieldName:   core.DefaultKeyFieldName,
			CodeFieldName:  DefaultCodeFieldName,
		},
		Countries:    []string{},
		OutputFormat: DefaultOutput,
		Plot: PlotConfig{
			Sink:   DefaultSink,
			OutDir: DefaultOutDir,
			Title:  "GDP",
			Height: 400,
			Width:  800,
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    DefaultHistoryFile,
		},
		Serve: ServeConfig{
			Addr:            DefaultAddr,
			Watch:           true,
			RateLimit:       DefaultRateLimit,
			Burst:           DefaultBurst,
			ShutdownTimeout: DefaultShutdown,
		},
	}
}

// defaultMap flattens Default into koanf keys.
func defaultMap() map[string]any {
	d := Default()
	return map[string]any{
		"dataset.source_path":     d.Dataset.SourcePath,
		"dataset.source":          d.Dataset.Source,
		"dataset.field_separator": d.Dataset.FieldSeparator,
		"dataset.quote_character": d.Dataset.QuoteCharacter,
		"dataset.min_year":        d.Dataset.MinYear,
		"dataset.max_year":        d.Dataset.MaxYear,
		"dataset.key_field_name":  d.Dataset.KeyFieldName,
		"dataset.code_field_name": d.Dataset.CodeFieldName,
		"countries":               d.Countries,
		"output":                  d.OutputFormat,
		"verbose":                 d.Verbose,
		"plot.sink":               d.Plot.Sink,
		"plot.out_dir":            d.Plot.OutDir,
		"plot.title":              d.Plot.Title,
		"plot.height":             d.Plot.Height,
		"plot.width":              d.Plot.Width,
		"history.enabled":         d.History.Enabled,
		"history.path":            d.History.Path,
		"serve.addr":              d.Serve.Addr,
		"serve.watch":             d.Serve.Watch,
		"serve.rate_limit":        d.Serve.RateLimit,
		"serve.burst":             d.Serve.Burst,
		"serve.shutdown_timeout":  d.Serve.ShutdownTimeout.String(),
	}
}
