package render

import (
	"encoding/csv"
	"io"
	"strconv"
)

func init() { Register(CSVSink{}) }

// CSVSink writes long-format rows: country,year,value.
type CSVSink struct{}

func (CSVSink) Name() string        { return "csv" }
func (CSVSink) Ext() string         { return "csv" }
func (CSVSink) ContentType() string { return "text/csv; charset=utf-8" }

// Render writes a header followed by one row per point.
func (CSVSink) Render(w io.Writer, c Chart) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"country", "year", "value"}); err != nil {
		return err
	}
	for _, e := range c.Entries() {
		for _, p := range e.Points {
			rec := []string{e.Country, strconv.Itoa(p.Year), strconv.FormatFloat(p.Value, 'f', -1, 64)}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
