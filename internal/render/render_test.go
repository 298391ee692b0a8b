package render

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/leapstack-labs/gdpplot/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleChart() Chart {
	m := core.SeriesMap{
		"United Kingdom": {{Year: 1960, Value: 72328047042.1072}, {Year: 1961, Value: 76694360635.6044}},
		"United States":  {{Year: 1960, Value: 543300000000}, {Year: 1961, Value: 563300000000}},
		"Atlantis":       {},
	}
	return NewChart([]string{"United Kingdom", "United States", "Atlantis", "United Kingdom"}, m, 1960, 1961)
}

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "svg", "xlsx"}, List())

	s, err := Get("svg")
	require.NoError(t, err)
	assert.Equal(t, "svg", s.Ext())

	_, err = Get("png")
	var unknown *UnknownSinkError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Error(), "svg")
}

func TestChart_Entries(t *testing.T) {
	c := sampleChart()
	c.Countries = append(c.Countries, "Not Built")

	entries := c.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "United Kingdom", entries[0].Country)
	assert.Equal(t, "United States", entries[1].Country)
	assert.Equal(t, "Atlantis", entries[2].Country)
	assert.NotNil(t, entries[2].Points)
}

func TestSlugFileName(t *testing.T) {
	tests := []struct {
		countries []string
		want      string
	}{
		{nil, "isp_gdp_xy_none.svg"},
		{[]string{"China"}, "isp_gdp_xy_china.svg"},
		{[]string{"United Kingdom", "United States"}, "isp_gdp_xy_united_kingdom+united_states.svg"},
		{[]string{"Korea, Rep.", "Korea, Rep."}, "isp_gdp_xy_korea_rep.svg"},
		{[]string{"Côte d'Ivoire"}, "isp_gdp_xy_côte_d_ivoire.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugFileName("isp_gdp_xy", tt.countries, "svg"))
		})
	}
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONSink{}.Render(&buf, sampleChart()))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "GDP", doc.Title)
	require.Len(t, doc.Series, 3)
	assert.Equal(t, "United Kingdom", doc.Series[0].Country)
	assert.Equal(t, 1961, doc.Series[1].Points[1].Year)
	assert.Empty(t, doc.Series[2].Points)
	assert.Contains(t, buf.String(), `"points": []`)
}

func TestCSVSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVSink{}.Render(&buf, sampleChart()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"country", "year", "value"},
		{"United Kingdom", "1960", "72328047042.1072"},
		{"United Kingdom", "1961", "76694360635.6044"},
		{"United States", "1960", "543300000000"},
		{"United States", "1961", "563300000000"},
	}, records)
}

func TestSVGSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVGSink{}.Render(&buf, sampleChart()))
	out := buf.String()

	// well-formed XML
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}

	assert.True(t, strings.HasPrefix(out, "<svg "))
	assert.Contains(t, out, `height="400"`)
	assert.Contains(t, out, ">GDP</text>")
	assert.Equal(t, 2, strings.Count(out, "<polyline"))
	assert.Equal(t, 3, strings.Count(out, `class="legend"`))
	assert.Contains(t, out, "United States 1961: 563.3B")
	assert.Contains(t, out, ">1960</text>")
}

func TestSVGSink_Empty(t *testing.T) {
	var buf bytes.Buffer
	c := NewChart(nil, core.SeriesMap{}, 1960, 2015)
	c.Title = "Nothing <here>"
	require.NoError(t, SVGSink{}.Render(&buf, c))

	out := buf.String()
	assert.Contains(t, out, "Nothing &lt;here&gt;")
	assert.NotContains(t, out, "<polyline")
	assert.Contains(t, out, ">1960</text>")
}

func TestCompact(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{5.5, "5.5"},
		{1500, "1.5K"},
		{2_000_000, "2M"},
		{563_300_000_000, "563.3B"},
		{1.2e13, "12T"},
		{-2500, "-2.5K"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, compact(tt.in), "compact(%v)", tt.in)
	}
}

func TestNiceStep(t *testing.T) {
	assert.Equal(t, 1.0, niceStep(0))
	assert.Equal(t, 1.0, niceStep(0.7))
	assert.Equal(t, 2.0, niceStep(1.3))
	assert.Equal(t, 5.0, niceStep(4.2))
	assert.Equal(t, 100.0, niceStep(72))
}

func TestXLSXSink(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSXSink{}.Render(&buf, sampleChart()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"GDP", "United Kingdom", "United States", "Atlantis"}, f.GetSheetList())

	rows, err := f.GetRows("GDP")
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"Country", "Year", "Value"}, rows[0])
	assert.Equal(t, "United States", rows[3][0])
	assert.Equal(t, "1960", rows[3][1])

	uk, err := f.GetRows("United Kingdom")
	require.NoError(t, err)
	assert.Len(t, uk, 3)
}

func TestSheetName(t *testing.T) {
	used := map[string]bool{"gdp": true}

	assert.Equal(t, "China", sheetName("China", used))
	assert.Equal(t, "China (2)", sheetName("China", used))
	assert.Equal(t, "GDP (2)", sheetName("GDP", used))
	assert.Equal(t, "a_b", sheetName("a/b", used))
	assert.Equal(t, "Series", sheetName("''", used))

	long := sheetName("Micronesia, Fed. Sts. and other long names", used)
	assert.LessOrEqual(t, len([]rune(long)), 31)
}
