package render

import (
	"encoding/json"
	"io"
)

func init() { Register(JSONSink{}) }

// JSONSink writes {"title": ..., "series": [{"country", "points"}]}.
type JSONSink struct{}

// Document is the JSON shape written by JSONSink.
type Document struct {
	Title   string  `json:"title"`
	MinYear int     `json:"min_year"`
	MaxYear int     `json:"max_year"`
	Series  []Entry `json:"series"`
}

func (JSONSink) Name() string        { return "json" }
func (JSONSink) Ext() string         { return "json" }
func (JSONSink) ContentType() string { return "application/json" }

// Render writes the chart as indented JSON.
func (JSONSink) Render(w io.Writer, c Chart) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Document{
		Title:   c.Title,
		MinYear: c.MinYear,
		MaxYear: c.MaxYear,
		Series:  c.Entries(),
	})
}
