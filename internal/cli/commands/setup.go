package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/gdpplot/internal/cli/config"
	"github.com/leapstack-labs/gdpplot/internal/cli/output"
	"github.com/leapstack-labs/gdpplot/internal/dataset"
	"github.com/leapstack-labs/gdpplot/internal/render"
	"github.com/leapstack-labs/gdpplot/internal/state"
	"github.com/leapstack-labs/gdpplot/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Builder  *dataset.Builder
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the config, logger and
// renderer the root command stored in the command context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	ctx := cmd.Context()
	cfg := config.GetConfig(ctx)
	if cfg == nil {
		cfg = config.Default()
	}
	logger := config.GetLogger(ctx)
	r := output.FromContext(ctx)
	if r == nil {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Builder:  dataset.NewBuilder(logger),
		Renderer: r,
	}
}

// countriesOrDefault returns args, or the configured countries when args is empty.
func countriesOrDefault(cfg *config.Config, args []string) []string {
	if len(args) > 0 {
		return args
	}
	return cfg.Countries
}

// newChart builds a chart with the configured title and size.
func newChart(cfg *config.Config, countries []string, m core.SeriesMap) render.Chart {
	c := render.NewChart(countries, m, cfg.Dataset.MinYear, cfg.Dataset.MaxYear)
	if cfg.Plot.Title != "" {
		c.Title = cfg.Plot.Title
	}
	if cfg.Plot.Width > 0 {
		c.Width = cfg.Plot.Width
	}
	if cfg.Plot.Height > 0 {
		c.Height = cfg.Plot.Height
	}
	return c
}

// openHistory opens and migrates the run history database.
func openHistory(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	if dir := filepath.Dir(cfg.History.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.History.Path); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// recorder writes one history entry per build. A nil recorder, or one whose
// store failed to open, records nothing; history problems never fail a command.
type recorder struct {
	store  core.Store
	logger *slog.Logger
	run    *core.Run
}

// startRun records a running build when history is enabled.
func startRun(cc *CommandContext, command string, countries []string) *recorder {
	rec := &recorder{logger: cc.Logger}
	if !cc.Cfg.History.Enabled {
		return rec
	}

	store, err := openHistory(cc.Cfg, cc.Logger)
	if err != nil {
		cc.Logger.Warn("history unavailable", slog.String("error", err.Error()))
		return rec
	}

	ds := cc.Cfg.DatasetConfig()
	run, err := store.CreateRun(&core.Run{
		Command:    command,
		SourcePath: ds.SourcePath,
		Countries:  core.Countries(countries),
		MinYear:    ds.MinYear,
		MaxYear:    ds.MaxYear,
	})
	if err != nil {
		cc.Logger.Warn("failed to record run", slog.String("error", err.Error()))
		_ = store.Close()
		return rec
	}

	rec.store = store
	rec.run = run
	return rec
}

// finish completes the run with the build outcome and closes the store.
func (r *recorder) finish(points int, buildErr error) {
	if r == nil || r.store == nil {
		return
	}
	defer func() { _ = r.store.Close() }()

	status, msg := core.RunStatusSuccess, ""
	if buildErr != nil {
		status, msg = core.RunStatusFailed, buildErr.Error()
	}
	if err := r.store.CompleteRun(r.run.ID, status, points, msg); err != nil {
		r.logger.Warn("failed to complete run", slog.String("id", r.run.ID), slog.String("error", err.Error()))
	}
}
