package commands

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/gdpplot/internal/cli/config"
	"github.com/leapstack-labs/gdpplot/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the file written by init.
const ConfigFileName = "gdpplot.yaml"

// starterConfig is the gdpplot.yaml layout written by init.
type starterConfig struct {
	Dataset struct {
		SourcePath     string `yaml:"source_path"`
		Source         string `yaml:"source"`
		FieldSeparator string `yaml:"field_separator"`
		QuoteCharacter string `yaml:"quote_character"`
		MinYear        int    `yaml:"min_year"`
		MaxYear        int    `yaml:"max_year"`
		KeyFieldName   string `yaml:"key_field_name"`
		CodeFieldName  string `yaml:"code_field_name"`
	} `yaml:"dataset"`
	Countries []string `yaml:"countries"`
	Output    string   `yaml:"output"`
	Plot      struct {
		Sink   string `yaml:"sink"`
		OutDir string `yaml:"out_dir"`
		Title  string `yaml:"title"`
		Height int    `yaml:"height"`
		Width  int    `yaml:"width"`
	} `yaml:"plot"`
	History struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"history"`
	Serve struct {
		Addr            string  `yaml:"addr"`
		Watch           bool    `yaml:"watch"`
		RateLimit       float64 `yaml:"rate_limit"`
		Burst           int     `yaml:"burst"`
		ShutdownTimeout string  `yaml:"shutdown_timeout"`
	} `yaml:"serve"`
}

func newStarterConfig() starterConfig {
	d := config.Default()

	var s starterConfig
	s.Dataset.SourcePath = d.Dataset.SourcePath
	s.Dataset.Source = d.Dataset.Source
	s.Dataset.FieldSeparator = d.Dataset.FieldSeparator
	s.Dataset.QuoteCharacter = d.Dataset.QuoteCharacter
	s.Dataset.MinYear = d.Dataset.MinYear
	s.Dataset.MaxYear = d.Dataset.MaxYear
	s.Dataset.KeyFieldName = d.Dataset.KeyFieldName
	s.Dataset.CodeFieldName = d.Dataset.CodeFieldName
	s.Countries = []string{"China"}
	s.Output = d.OutputFormat
	s.Plot.Sink = d.Plot.Sink
	s.Plot.OutDir = d.Plot.OutDir
	s.Plot.Title = d.Plot.Title
	s.Plot.Height = d.Plot.Height
	s.Plot.Width = d.Plot.Width
	s.History.Enabled = d.History.Enabled
	s.History.Path = d.History.Path
	s.Serve.Addr = d.Serve.Addr
	s.Serve.Watch = d.Serve.Watch
	s.Serve.RateLimit = d.Serve.RateLimit
	s.Serve.Burst = d.Serve.Burst
	s.Serve.ShutdownTimeout = d.Serve.ShutdownTimeout.String()
	return s
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a starter gdpplot.yaml",
		Long: `Write a gdpplot.yaml holding every setting at its default value.

Existing configuration is kept unless --force is given.`,
		Example: `  # Initialize in current directory
  gdpplot init

  # Initialize in a new directory
  gdpplot init my-plots

  # Force overwrite existing config
  gdpplot init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			cc := NewCommandContext(cmd)
			return runInit(cc.Renderer, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(newStarterConfig()); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", configPath, err)
	}

	r.StatusLine(configPath, "success", "")
	r.Println("")
	r.Success("gdpplot project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  1. Point dataset.source_path at your GDP table")
	r.Println("  2. Run 'gdpplot countries' to check it loads")
	r.Println("  3. Run 'gdpplot plot China' to draw a chart")
	return nil
}
