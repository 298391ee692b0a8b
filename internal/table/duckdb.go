package table

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/gdpplot/pkg/core"
	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

func init() {
	Register("duckdb", func(logger *slog.Logger) Source { return NewDuckDBSource(logger) })
}

// DuckDBSource parses the file with DuckDB's read_csv in an in-memory database.
// Every column is read as text so cells reach the table unchanged; NULL becomes "".
type DuckDBSource struct {
	logger *slog.Logger
}

// NewDuckDBSource creates a DuckDB source. A nil logger discards output.
func NewDuckDBSource(logger *slog.Logger) *DuckDBSource {
	return &DuckDBSource{logger: discardIfNil(logger)}
}

// Load opens a fresh in-memory database, reads the file and closes the database.
func (s *DuckDBSource) Load(ctx context.Context, opts Options) (core.RawTable, error) {
	absPath, err := filepath.Abs(opts.Path)
	if err != nil {
		return nil, &core.SourceUnavailableError{Path: opts.Path, Err: err}
	}
	// read_csv errors do not distinguish a missing file from a bad one
	f, err := os.Open(absPath)
	if err != nil {
		return nil, &core.SourceUnavailableError{Path: opts.Path, Err: err}
	}
	_ = f.Close()

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	defer func() { _ = db.Close() }()

	query := readCSVQuery(absPath, opts)
	s.logger.Debug("reading table with duckdb", slog.String("query", query))

	//nolint:gosec // literals are quoted by sqlString
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &core.SchemaError{Path: opts.Path, Err: err}
	}
	defer func() { _ = rows.Close() }()

	header, err := rows.Columns()
	if err != nil {
		return nil, &core.SchemaError{Path: opts.Path, Err: err}
	}
	keyIdx := keyIndex(header, opts.KeyFieldName)
	if keyIdx < 0 {
		return nil, &core.SchemaError{
			Path: opts.Path,
			Line: 1,
			Err:  fmt.Errorf("%w: %q", ErrMissingKeyField, opts.KeyFieldName),
		}
	}

	values := make([]sql.NullString, len(header))
	ptrs := make([]any, len(header))
	for i := range values {
		ptrs[i] = &values[i]
	}

	tbl := make(core.RawTable)
	line := 1
	for rows.Next() {
		line++
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &core.SchemaError{Path: opts.Path, Line: line, Err: err}
		}
		row := make(core.RawRow, len(header))
		for i, name := range header {
			row[name] = values[i].String
		}
		tbl[row[header[keyIdx]]] = row
	}
	if err := rows.Err(); err != nil {
		return nil, &core.SchemaError{Path: opts.Path, Err: err}
	}

	s.logger.Debug("loaded table",
		slog.String("path", opts.Path),
		slog.Int("columns", len(header)),
		slog.Int("keys", len(tbl)))

	return tbl, nil
}

// readCSVQuery builds a read_csv call that keeps every cell as text and keeps
// file order, so later duplicate keys still win.
func readCSVQuery(path string, opts Options) string {
	quote := sqlString(string(opts.QuoteCharacter))
	return fmt.Sprintf(
		"SELECT * FROM read_csv(%s, delim = %s, quote = %s, escape = %s, header = true, all_varchar = true, strict_mode = true, null_padding = false, parallel = false)",
		sqlString(path),
		sqlString(string(opts.FieldSeparator)),
		quote,
		quote,
	)
}

func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

var _ Source = (*DuckDBSource)(nil)
