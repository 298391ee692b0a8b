package render

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"math"
	"strconv"
	"strings"
)

func init() { Register(SVGSink{}) }

var palette = []string{
	"#F44336", "#3F51B5", "#009688", "#FFC107", "#FF5722",
	"#9C27B0", "#03A9F4", "#8BC34A", "#FF9800", "#E91E63",
}

const (
	marginLeft   = 80
	marginRight  = 170
	marginTop    = 44
	marginBottom = 40
	maxTicks     = 8
)

// SVGSink draws an XY line chart with one line per country.
type SVGSink struct{}

func (SVGSink) Name() string        { return "svg" }
func (SVGSink) Ext() string         { return "svg" }
func (SVGSink) ContentType() string { return "image/svg+xml" }

// plotArea maps data coordinates to pixels.
type plotArea struct {
	x0, y0, w, h           float64
	xmin, xmax, ymin, ymax float64
}

func (a plotArea) px(year float64) float64 {
	return a.x0 + (year-a.xmin)/(a.xmax-a.xmin)*a.w
}

func (a plotArea) py(v float64) float64 {
	return a.y0 + a.h - (v-a.ymin)/(a.ymax-a.ymin)*a.h
}

// Render writes a standalone SVG document. Charts without points still get
// a title and axes.
func (SVGSink) Render(w io.Writer, c Chart) error {
	width, height := c.Width, c.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	title := c.Title
	if title == "" {
		title = DefaultTitle
	}

	entries := c.Entries()
	area := newPlotArea(entries, c, width, height)

	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { _, _ = fmt.Fprintf(bw, format, args...) }

	p(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		width, height, width, height)
	p(`<rect width="100%%" height="100%%" fill="#ffffff"/>` + "\n")
	p(`<text class="title" x="%d" y="24" font-size="16" text-anchor="middle">%s</text>`+"\n",
		width/2, html.EscapeString(title))

	// grid and ticks
	p(`<g class="axis y" font-size="10" fill="#555555">` + "\n")
	for _, v := range ticks(area.ymin, area.ymax) {
		y := area.py(v)
		p(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#eeeeee"/>`+"\n",
			ff(area.x0), ff(y), ff(area.x0+area.w), ff(y))
		p(`<text x="%s" y="%s" text-anchor="end">%s</text>`+"\n",
			ff(area.x0-6), ff(y+3), compact(v))
	}
	p("</g>\n")

	p(`<g class="axis x" font-size="10" fill="#555555">` + "\n")
	for _, v := range yearTicks(area.xmin, area.xmax) {
		x := area.px(v)
		p(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#cccccc"/>`+"\n",
			ff(x), ff(area.y0+area.h), ff(x), ff(area.y0+area.h+4))
		p(`<text x="%s" y="%s" text-anchor="middle">%d</text>`+"\n",
			ff(x), ff(area.y0+area.h+16), int(v))
	}
	p("</g>\n")

	p(`<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#999999"/>`+"\n",
		ff(area.x0), ff(area.y0), ff(area.w), ff(area.h))

	for i, e := range entries {
		color := palette[i%len(palette)]
		name := html.EscapeString(e.Country)
		p(`<g class="series" data-country="%s" stroke="%s" fill="%s">`+"\n", name, color, color)
		if len(e.Points) > 1 {
			coords := make([]string, 0, len(e.Points))
			for _, pt := range e.Points {
				coords = append(coords, ff(area.px(float64(pt.Year)))+","+ff(area.py(pt.Value)))
			}
			p(`<polyline fill="none" stroke-width="1.5" points="%s"/>`+"\n", strings.Join(coords, " "))
		}
		for _, pt := range e.Points {
			p(`<circle cx="%s" cy="%s" r="2.5"><title>%s %d: %s</title></circle>`+"\n",
				ff(area.px(float64(pt.Year))), ff(area.py(pt.Value)), name, pt.Year, compact(pt.Value))
		}
		p("</g>\n")

		ly := marginTop + 8 + i*18
		lx := width - marginRight + 16
		p(`<g class="legend" font-size="11"><rect x="%d" y="%d" width="10" height="10" fill="%s"/><text x="%d" y="%d">%s</text></g>`+"\n",
			lx, ly, color, lx+14, ly+9, name)
	}

	p("</svg>\n")
	return bw.Flush()
}

func newPlotArea(entries []Entry, c Chart, width, height int) plotArea {
	a := plotArea{
		x0: marginLeft,
		y0: marginTop,
		w:  float64(width - marginLeft - marginRight),
		h:  float64(height - marginTop - marginBottom),
	}
	if a.w < 10 {
		a.w = 10
	}
	if a.h < 10 {
		a.h = 10
	}

	a.xmin, a.xmax = math.Inf(1), math.Inf(-1)
	a.ymin, a.ymax = 0, math.Inf(-1)
	for _, e := range entries {
		for _, pt := range e.Points {
			a.xmin = math.Min(a.xmin, float64(pt.Year))
			a.xmax = math.Max(a.xmax, float64(pt.Year))
			a.ymin = math.Min(a.ymin, pt.Value)
			a.ymax = math.Max(a.ymax, pt.Value)
		}
	}

	if math.IsInf(a.xmin, 1) {
		a.xmin, a.xmax = float64(c.MinYear), float64(c.MaxYear)
		if c.MinYear > c.MaxYear {
			a.xmin, a.xmax = 0, 1
		}
	}
	if a.xmax <= a.xmin {
		a.xmin, a.xmax = a.xmin-1, a.xmax+1
	}
	if math.IsInf(a.ymax, -1) || a.ymax <= a.ymin {
		a.ymax = a.ymin + 1
	}
	a.ymax = a.ymin + niceStep((a.ymax-a.ymin)/maxTicks)*maxTicks
	return a
}

// niceStep rounds a raw tick step up to 1, 2, 2.5 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	if raw <= 0 || math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 1
	}
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	for _, m := range []float64{1, 2, 2.5, 5, 10} {
		if raw <= m*base {
			return m * base
		}
	}
	return 10 * base
}

func ticks(lo, hi float64) []float64 {
	step := niceStep((hi - lo) / maxTicks)
	var out []float64
	for v := math.Ceil(lo/step) * step; v <= hi+step/1e6; v += step {
		out = append(out, v)
	}
	return out
}

func yearTicks(lo, hi float64) []float64 {
	step := math.Max(1, math.Ceil(niceStep((hi-lo)/maxTicks)))
	var out []float64
	for v := math.Ceil(lo/step) * step; v <= hi; v += step {
		out = append(out, v)
	}
	return out
}

// compact formats large values with K, M, B and T suffixes.
func compact(v float64) string {
	abs := math.Abs(v)
	for _, u := range []struct {
		div    float64
		suffix string
	}{{1e12, "T"}, {1e9, "B"}, {1e6, "M"}, {1e3, "K"}} {
		if abs >= u.div {
			return trimFloat(v/u.div) + u.suffix
		}
	}
	return trimFloat(v)
}

// trimFloat keeps at most two decimals and drops trailing zeros.
func trimFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
