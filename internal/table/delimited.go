package table

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/leapstack-labs/gdpplot/internal/delimited"
	"github.com/leapstack-labs/gdpplot/pkg/core"
)

func init() {
	Register("delimited", func(logger *slog.Logger) Source { return NewDelimitedSource(logger) })
}

// DelimitedSource streams the file through a delimited.Reader.
type DelimitedSource struct {
	logger *slog.Logger
}

// NewDelimitedSource creates a delimited source. A nil logger discards output.
func NewDelimitedSource(logger *slog.Logger) *DelimitedSource {
	return &DelimitedSource{logger: discardIfNil(logger)}
}

// Load reads the whole file and keys each record by opts.KeyFieldName.
func (s *DelimitedSource) Load(ctx context.Context, opts Options) (core.RawTable, error) {
	f, err := os.Open(opts.Path)
	if err != nil {
		return nil, &core.SourceUnavailableError{Path: opts.Path, Err: err}
	}
	defer func() { _ = f.Close() }()

	r := delimited.NewReader(f)
	r.Comma = opts.FieldSeparator
	r.Quote = opts.QuoteCharacter

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, &core.SchemaError{Path: opts.Path, Line: 1, Err: ErrNoHeader}
	}
	if err != nil {
		return nil, s.readError(opts.Path, err)
	}

	keyIdx := keyIndex(header, opts.KeyFieldName)
	if keyIdx < 0 {
		return nil, &core.SchemaError{
			Path: opts.Path,
			Line: r.Line(),
			Err:  fmt.Errorf("%w: %q", ErrMissingKeyField, opts.KeyFieldName),
		}
	}

	tbl := make(core.RawTable)
	records := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, s.readError(opts.Path, err)
		}
		if len(record) != len(header) {
			return nil, &core.SchemaError{
				Path: opts.Path,
				Line: r.Line(),
				Want: len(header),
				Got:  len(record),
			}
		}

		row := make(core.RawRow, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		tbl[record[keyIdx]] = row
		records++
	}

	s.logger.Debug("loaded table",
		slog.String("path", opts.Path),
		slog.Int("columns", len(header)),
		slog.Int("records", records),
		slog.Int("keys", len(tbl)))

	return tbl, nil
}

func (s *DelimitedSource) readError(path string, err error) error {
	var pe *delimited.ParseError
	if errors.As(err, &pe) {
		return &core.SchemaError{Path: path, Line: pe.Line, Column: pe.Column, Err: pe.Err}
	}
	if errors.Is(err, delimited.ErrInvalidDelim) {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return &core.SourceUnavailableError{Path: path, Err: err}
}

var _ Source = (*DelimitedSource)(nil)
