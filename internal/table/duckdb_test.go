package table

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/gdpplot/internal/testutil"
	"github.com/leapstack-labs/gdpplot/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuckDBSource_Load(t *testing.T) {
	path := testutil.WriteSampleGDP(t)
	src := NewDuckDBSource(testutil.NewTestLogger(t))

	tbl, err := src.Load(context.Background(), defaultOptions(path))
	require.NoError(t, err)

	assert.Len(t, tbl, 6)
	assert.Equal(t, "KOR", tbl["Korea, Rep."]["Country Code"])
	assert.Equal(t, "5.5", tbl["Nowhere"]["1961"])
	assert.Equal(t, "", tbl["Nowhere"]["1960"])
	assert.Equal(t, "", tbl["Aruba"]["1963"])
	// values stay as written, no numeric coercion
	assert.Equal(t, "543300000000", tbl["United States"]["1960"])
}

func TestDuckDBSource_MatchesDelimited(t *testing.T) {
	path := testutil.WriteSampleGDP(t)
	opts := defaultOptions(path)

	want, err := NewDelimitedSource(nil).Load(context.Background(), opts)
	require.NoError(t, err)

	got, err := NewDuckDBSource(nil).Load(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestDuckDBSource_DuplicateKeyLastWins(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "dup.csv",
		"Country Name,1960\nChina,1\nIndia,2\nChina,3\n")

	tbl, err := NewDuckDBSource(nil).Load(context.Background(), defaultOptions(path))
	require.NoError(t, err)
	assert.Equal(t, "3", tbl["China"]["1960"])
}

func TestDuckDBSource_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewDuckDBSource(nil).Load(context.Background(), defaultOptions(filepath.Join(dir, "nope.csv")))
		assert.ErrorIs(t, err, core.ErrSourceUnavailable)
	})

	t.Run("short row", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "short.csv", "Country Name,1960,1961\nChina,1,2\nIndia,3\n")
		_, err := NewDuckDBSource(nil).Load(context.Background(), defaultOptions(path))
		assert.ErrorIs(t, err, core.ErrSchema)
	})

	t.Run("long row", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "long.csv", "Country Name,1960\nChina,1\nIndia,3,4\n")
		_, err := NewDuckDBSource(nil).Load(context.Background(), defaultOptions(path))
		assert.ErrorIs(t, err, core.ErrSchema)
	})

	t.Run("key field missing", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "nokey.csv", "Name,1960\nChina,1\n")
		_, err := NewDuckDBSource(nil).Load(context.Background(), defaultOptions(path))
		assert.ErrorIs(t, err, core.ErrSchema)
		assert.ErrorIs(t, err, ErrMissingKeyField)
	})
}

func TestReadCSVQuery(t *testing.T) {
	q := readCSVQuery("/data/o'brien.csv", Options{FieldSeparator: ';', QuoteCharacter: '\''})

	assert.Contains(t, q, "read_csv('/data/o''brien.csv'")
	assert.Contains(t, q, "delim = ';'")
	assert.Contains(t, q, "quote = ''''")
	assert.Contains(t, q, "all_varchar = true")
	assert.Contains(t, q, "strict_mode = true")
	assert.Contains(t, q, "null_padding = false")
}
