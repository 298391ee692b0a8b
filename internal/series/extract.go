// Package series turns one raw table row into year-ascending plot points.
package series

import (
	"strconv"
	"strings"

	"github.com/leapstack-labs/gdpplot/pkg/core"
)

// Extract returns the points of row for every year in [minYear, maxYear].
//
// A year contributes a point only when its column exists and its raw value is
// non-empty. Surrounding spaces are ignored by the parse, so a cell holding
// only whitespace is not a number. A non-empty cell that is not a number fails
// the whole extraction with *core.MalformedValueError. When minYear > maxYear
// the result is empty.
func Extract(row core.RawRow, minYear, maxYear int) ([]core.Point, error) {
	points := make([]core.Point, 0, yearSpan(minYear, maxYear))
	for year := minYear; year <= maxYear; year++ {
		raw, ok := row[strconv.Itoa(year)]
		if !ok {
			continue
		}
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &core.MalformedValueError{Year: year, Value: raw, Err: err}
		}
		points = append(points, core.Point{Year: year, Value: value})
	}
	return points, nil
}

func yearSpan(minYear, maxYear int) int {
	if minYear > maxYear {
		return 0
	}
	// capacity hint only; keep it bounded for absurd ranges
	return min(maxYear-minYear+1, 512)
}
