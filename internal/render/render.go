// Package render writes built GDP series to output formats such as SVG
// charts, JSON, CSV and Excel workbooks.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/leapstack-labs/gdpplot/pkg/core"
)

// Default chart dimensions.
const (
	DefaultTitle  = "GDP"
	DefaultWidth  = 800
	DefaultHeight = 400
)

// Chart is everything a sink needs to draw one plot.
type Chart struct {
	Title     string
	Countries []string // presentation order; names missing from Series are skipped
	Series    core.SeriesMap
	MinYear   int
	MaxYear   int
	Width     int
	Height    int
}

// NewChart builds a chart with default title and size, ordering countries by
// first occurrence in names.
func NewChart(names []string, m core.SeriesMap, minYear, maxYear int) Chart {
	return Chart{
		Title:     DefaultTitle,
		Countries: core.Countries(names),
		Series:    m,
		MinYear:   minYear,
		MaxYear:   maxYear,
		Width:     DefaultWidth,
		Height:    DefaultHeight,
	}
}

// Entries returns the chart series in presentation order.
func (c Chart) Entries() []Entry {
	entries := make([]Entry, 0, len(c.Countries))
	for _, name := range c.Countries {
		points, ok := c.Series[name]
		if !ok {
			continue
		}
		if points == nil {
			points = []core.Point{}
		}
		entries = append(entries, Entry{Country: name, Points: points})
	}
	return entries
}

// Entry is one named series.
type Entry struct {
	Country string       `json:"country"`
	Points  []core.Point `json:"points"`
}

// Sink renders a chart to a writer.
type Sink interface {
	Name() string
	Ext() string
	ContentType() string
	Render(w io.Writer, c Chart) error
}

var (
	sinksMu sync.RWMutex
	sinks   = make(map[string]Sink)
)

// Register adds a sink under its name.
func Register(s Sink) {
	sinksMu.Lock()
	defer sinksMu.Unlock()
	sinks[s.Name()] = s
}

// Get returns the sink registered under name.
func Get(name string) (Sink, error) {
	sinksMu.RLock()
	defer sinksMu.RUnlock()
	s, ok := sinks[name]
	if !ok {
		return nil, &UnknownSinkError{Name: name, Available: listLocked()}
	}
	return s, nil
}

// List returns registered sink names (sorted).
func List() []string {
	sinksMu.RLock()
	defer sinksMu.RUnlock()
	return listLocked()
}

func listLocked() []string {
	names := make([]string, 0, len(sinks))
	for name := range sinks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnknownSinkError is returned when an unknown sink is requested.
type UnknownSinkError struct {
	Name      string
	Available []string
}

func (e *UnknownSinkError) Error() string {
	return fmt.Sprintf("unknown sink %q (available: %s)", e.Name, strings.Join(e.Available, ", "))
}

// SlugFileName builds a plot file name such as "isp_gdp_xy_united_kingdom+united_states.svg".
// An empty country list gives "<prefix>_none.<ext>".
func SlugFileName(prefix string, countries []string, ext string) string {
	parts := make([]string, 0, len(countries))
	for _, c := range core.Countries(countries) {
		parts = append(parts, slug(c))
	}
	name := "none"
	if len(parts) > 0 {
		name = strings.Join(parts, "+")
	}
	return prefix + "_" + name + "." + ext
}

func slug(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			lastUnderscore = false
		case !lastUnderscore && b.Len() > 0:
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
