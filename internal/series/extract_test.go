package series

import (
	"strconv"
	"testing"

	"github.com/leapstack-labs/gdpplot/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		row     core.RawRow
		minYear int
		maxYear int
		want    []core.Point
	}{
		{
			name:    "skips empty, absent and out of range years",
			row:     core.RawRow{"1960": "", "1961": "5.5", "1963": "9.9"},
			minYear: 1960,
			maxYear: 1962,
			want:    []core.Point{{Year: 1961, Value: 5.5}},
		},
		{
			name:    "inclusive bounds",
			row:     core.RawRow{"2000": "1", "2001": "2", "2002": "3"},
			minYear: 2000,
			maxYear: 2002,
			want:    []core.Point{{Year: 2000, Value: 1}, {Year: 2001, Value: 2}, {Year: 2002, Value: 3}},
		},
		{
			name:    "single year range",
			row:     core.RawRow{"2000": "1", "2001": "2"},
			minYear: 2001,
			maxYear: 2001,
			want:    []core.Point{{Year: 2001, Value: 2}},
		},
		{
			name:    "inverted range is empty",
			row:     core.RawRow{"2000": "1"},
			minYear: 2001,
			maxYear: 2000,
			want:    []core.Point{},
		},
		{
			name:    "surrounding spaces ignored by the parse",
			row:     core.RawRow{"1990": " 7 ", "1991": "\t8"},
			minYear: 1990,
			maxYear: 1991,
			want:    []core.Point{{Year: 1990, Value: 7}, {Year: 1991, Value: 8}},
		},
		{
			name:    "non year columns ignored",
			row:     core.RawRow{"Country Name": "China", "Country Code": "CHN", "1960": "59716467625.3148"},
			minYear: 1950,
			maxYear: 1970,
			want:    []core.Point{{Year: 1960, Value: 59716467625.3148}},
		},
		{
			name:    "scientific and negative numbers",
			row:     core.RawRow{"1": "1e3", "2": "-2.5"},
			minYear: 1,
			maxYear: 2,
			want:    []core.Point{{Year: 1, Value: 1000}, {Year: 2, Value: -2.5}},
		},
		{
			name:    "empty row",
			row:     core.RawRow{},
			minYear: 1960,
			maxYear: 2015,
			want:    []core.Point{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.row, tt.minYear, tt.maxYear)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtract_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		row   core.RawRow
		year  int
		value string
	}{
		{"not available marker", core.RawRow{"1960": "1", "1961": "N/A"}, 1961, "N/A"},
		{"thousands separator", core.RawRow{"1960": "1,000"}, 1960, "1,000"},
		{"first bad year reported", core.RawRow{"1960": "x", "1961": "y"}, 1960, "x"},
		{"spaces only", core.RawRow{"1960": "1", "1961": "  "}, 1961, "  "},
		{"tab only", core.RawRow{"1962": "\t"}, 1962, "\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points, err := Extract(tt.row, 1960, 1962)
			require.Error(t, err)
			assert.Nil(t, points)
			assert.ErrorIs(t, err, core.ErrMalformedValue)
			assert.ErrorIs(t, err, strconv.ErrSyntax)

			var mv *core.MalformedValueError
			require.ErrorAs(t, err, &mv)
			assert.Equal(t, tt.year, mv.Year)
			assert.Equal(t, tt.value, mv.Value)
		})
	}
}

func TestExtract_MalformedOutOfRangeIgnored(t *testing.T) {
	got, err := Extract(core.RawRow{"1959": "bad", "1960": "1"}, 1960, 1960)
	require.NoError(t, err)
	assert.Equal(t, []core.Point{{Year: 1960, Value: 1}}, got)
}

func TestExtract_AscendingAndIdempotent(t *testing.T) {
	row := core.RawRow{}
	for y := 2015; y >= 1960; y -= 3 {
		row[strconv.Itoa(y)] = strconv.Itoa(y * 10)
	}

	first, err := Extract(row, 1960, 2015)
	require.NoError(t, err)
	second, err := Extract(row, 1960, 2015)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.NotEmpty(t, first)
	for i, p := range first {
		assert.GreaterOrEqual(t, p.Year, 1960)
		assert.LessOrEqual(t, p.Year, 2015)
		assert.Equal(t, float64(p.Year*10), p.Value)
		if i > 0 {
			assert.Greater(t, p.Year, first[i-1].Year)
		}
	}
}
