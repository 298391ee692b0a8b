// Package cli provides the command-line interface for gdpplot.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/leapstack-labs/gdpplot/internal/cli/commands"
	"github.com/leapstack-labs/gdpplot/internal/cli/config"
	"github.com/leapstack-labs/gdpplot/internal/cli/output"
	"github.com/spf13/cobra"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gdpplot",
		Short: "gdpplot - GDP series builder and plotter",
		Long: `gdpplot reads a table of GDP figures by country and year and turns it
into per-country time series.

Series can be printed, served over HTTP, or written as SVG, JSON, CSV
or XLSX plots.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = config.WithConfig(ctx, cfg)
			ctx = config.WithLogger(ctx, config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose))

			// Create and store renderer based on output mode
			mode := output.Mode(cfg.OutputFormat)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = output.WithRenderer(ctx, renderer)
			cmd.SetContext(ctx)

			if cfg.Verbose {
				if configFile := config.GetConfigFileUsed(); configFile != "" {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Using config file: %s\n", configFile)
				}
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
Built with Go
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./gdpplot.yaml)")
	pf.String("source-path", "", "Path to the GDP table")
	pf.String("source", "", "Table loader (delimited|duckdb)")
	pf.String("separator", "", "Field separator character")
	pf.String("quote", "", "Quote character")
	pf.Int("min-year", 0, "First year of the series")
	pf.Int("max-year", 0, "Last year of the series")
	pf.String("key-field", "", "Column holding the country name")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("source", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"delimited", "duckdb"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.MarkPersistentFlagFilename("source-path", "csv", "tsv", "txt")

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewSeriesCommand())
	rootCmd.AddCommand(commands.NewPlotCommand())
	rootCmd.AddCommand(commands.NewCountriesCommand())
	rootCmd.AddCommand(commands.NewExamplesCommand())
	rootCmd.AddCommand(commands.NewHistoryCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for gdpplot.

To load completions:

Bash:
  $ source <(gdpplot completion bash)
  
  # To load completions for each session, execute once:
  # Linux:
  $ gdpplot completion bash > /etc/bash_completion.d/gdpplot
  # macOS:
  $ gdpplot completion bash > $(brew --prefix)/etc/bash_completion.d/gdpplot

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  
  # To load completions for each session, execute once:
  $ gdpplot completion zsh > "${fpath[1]}/_gdpplot"
  
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ gdpplot completion fish | source
  
  # To load completions for each session, execute once:
  $ gdpplot completion fish > ~/.config/fish/completions/gdpplot.fish

PowerShell:
  PS> gdpplot completion powershell | Out-String | Invoke-Expression
  
  # To load completions for every new session, run:
  PS> gdpplot completion powershell > gdpplot.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
	return cmd
}
