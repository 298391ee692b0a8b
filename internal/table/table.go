// Package table loads a delimited GDP table into a core.RawTable keyed by
// one column. The parsing itself is delegated to a registered Source.
package table

import (
	"context"
	"errors"
	"log/slog"

	"github.com/leapstack-labs/gdpplot/pkg/core"
)

var (
	// ErrNoHeader is the cause of a SchemaError for an input without a header record.
	ErrNoHeader = errors.New("missing header record")
	// ErrMissingKeyField is the cause of a SchemaError when the header lacks the key column.
	ErrMissingKeyField = errors.New("key field not in header")
)

// Options are the parameters of a single table load.
type Options struct {
	Path           string
	FieldSeparator rune
	QuoteCharacter rune
	KeyFieldName   string
}

// OptionsFromConfig extracts load options from a dataset config.
func OptionsFromConfig(cfg core.DatasetConfig) Options {
	return Options{
		Path:           cfg.SourcePath,
		FieldSeparator: cfg.FieldSeparator,
		QuoteCharacter: cfg.QuoteCharacter,
		KeyFieldName:   cfg.KeyFieldName,
	}
}

// Source parses a table file into rows keyed by Options.KeyFieldName.
//
// Implementations must return *core.SourceUnavailableError when the file cannot
// be opened and *core.SchemaError when a record's shape does not match the header.
// When the key repeats, the later row replaces the earlier one.
type Source interface {
	Load(ctx context.Context, opts Options) (core.RawTable, error)
}

// Load reads the table described by cfg through the source it names.
// An empty cfg.Source selects the delimited source.
func Load(ctx context.Context, cfg core.DatasetConfig, logger *slog.Logger) (core.RawTable, error) {
	name := cfg.Source
	if name == "" {
		name = core.DefaultSource
	}
	src, err := NewSource(name, logger)
	if err != nil {
		return nil, err
	}
	return src.Load(ctx, OptionsFromConfig(cfg))
}

func keyIndex(header []string, key string) int {
	for i, name := range header {
		if name == key {
			return i
		}
	}
	return -1
}

func discardIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
