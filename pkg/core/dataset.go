package core

// Default dataset values.
const (
	DefaultSource         = "delimited"
	DefaultFieldSeparator = ','
	DefaultQuoteCharacter = '"'
	DefaultKeyFieldName   = "Country Name"
)

// DatasetConfig describes where a GDP table lives and how to read it.
// A MinYear greater than MaxYear is valid and selects no years.
type DatasetConfig struct {
	SourcePath     string
	Source         string // table source name, e.g. "delimited" or "duckdb"
	FieldSeparator rune
	QuoteCharacter rune
	MinYear        int
	MaxYear        int
	KeyFieldName   string
}

// RawRow maps a column name to the raw cell text of one record.
type RawRow map[string]string

// RawTable maps a key-field value to its row.
type RawTable map[string]RawRow

// Keys returns the table keys in no particular order.
func (t RawTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	return keys
}

// Point is one plottable (year, value) pair.
type Point struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// SeriesMap maps a requested country name to its year-ascending points.
type SeriesMap map[string][]Point

// Countries returns names with duplicates removed, keeping the order of
// first occurrence.
func Countries(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// PointCount returns the total number of points across all series.
func (m SeriesMap) PointCount() int {
	n := 0
	for _, pts := range m {
		n += len(pts)
	}
	return n
}
