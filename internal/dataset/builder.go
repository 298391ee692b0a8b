// Package dataset builds per-country GDP series from a table source.
package dataset

import (
	"context"
	"errors"
	"log/slog"

	"github.com/leapstack-labs/gdpplot/internal/series"
	"github.com/leapstack-labs/gdpplot/internal/table"
	"github.com/leapstack-labs/gdpplot/pkg/core"
	"golang.org/x/sync/errgroup"
)

// Builder loads a table once per build and extracts each requested country.
type Builder struct {
	logger *slog.Logger
}

// NewBuilder creates a builder. A nil logger discards output.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Builder{logger: logger}
}

// Build returns a series for every name in countries.
//
// Names absent from the table map to an empty slice. Repeated names collapse
// into one entry. Load and extraction errors are returned as they are, so
// callers can test their kind; a *core.MalformedValueError gets its Country set.
func (b *Builder) Build(ctx context.Context, cfg core.DatasetConfig, countries []string) (core.SeriesMap, error) {
	tbl, err := table.Load(ctx, cfg, b.logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := make(core.SeriesMap, len(countries))
	for _, name := range countries {
		row, ok := tbl[name]
		if !ok {
			b.logger.Debug("country not in table", slog.String("country", name))
			result[name] = []core.Point{}
			continue
		}

		points, err := series.Extract(row, cfg.MinYear, cfg.MaxYear)
		if err != nil {
			var mv *core.MalformedValueError
			if errors.As(err, &mv) {
				mv.Country = name
			}
			return nil, err
		}
		result[name] = points
	}

	b.logger.Debug("built series",
		slog.Int("countries", len(result)),
		slog.Int("points", result.PointCount()))

	return result, nil
}

// BuildAll runs one Build per country list concurrently, with at most limit
// builds in flight (limit <= 0 means no limit). Results keep the order of lists.
// The first error cancels the remaining builds and is returned unchanged.
func (b *Builder) BuildAll(ctx context.Context, cfg core.DatasetConfig, lists [][]string, limit int) ([]core.SeriesMap, error) {
	results := make([]core.SeriesMap, len(lists))

	eg, egctx := errgroup.WithContext(ctx)
	if limit > 0 {
		eg.SetLimit(limit)
	}
	for i, countries := range lists {
		eg.Go(func() error {
			m, err := b.Build(egctx, cfg, countries)
			if err != nil {
				return err
			}
			results[i] = m
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Build is a convenience wrapper around a discard-logging Builder.
func Build(ctx context.Context, cfg core.DatasetConfig, countries []string) (core.SeriesMap, error) {
	return NewBuilder(nil).Build(ctx, cfg, countries)
}
