package commands

import (
	"strconv"

	"github.com/leapstack-labs/gdpplot/internal/cli/output"
	"github.com/leapstack-labs/gdpplot/internal/render"
	"github.com/leapstack-labs/gdpplot/pkg/core"
	"github.com/spf13/cobra"
)

// NewSeriesCommand creates the series command.
func NewSeriesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series [country...]",
		Short: "Print GDP points for countries",
		Long: `Build the GDP series for each named country over the configured year range
and print the (year, value) points.

Countries missing from the table print with no points. With no arguments the
countries listed in gdpplot.yaml are used.

Output adapts to environment:
  - Terminal: one table with grouped numbers
  - Piped/Scripted: a markdown table per country
  - --output json: the series in request order`,
		Example: `  # Points for two countries
  gdpplot series China "United States"

  # Restrict the year range
  gdpplot series China --min-year 1990 --max-year 2000

  # JSON for scripts
  gdpplot series China -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeries(cmd, args)
		},
	}

	return cmd
}

func runSeries(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)
	countries := countriesOrDefault(cc.Cfg, args)
	ds := cc.Cfg.DatasetConfig()

	rec := startRun(cc, "series", countries)
	m, err := cc.Builder.Build(cmd.Context(), ds, countries)
	rec.finish(m.PointCount(), err)
	if err != nil {
		return err
	}

	chart := newChart(cc.Cfg, countries, m)

	r := cc.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(render.Document{
			Title:   chart.Title,
			MinYear: chart.MinYear,
			MaxYear: chart.MaxYear,
			Series:  chart.Entries(),
		})
	case output.ModeMarkdown:
		seriesMarkdown(r, chart)
	default:
		seriesText(r, chart)
	}
	return nil
}

func seriesText(r *output.Renderer, chart render.Chart) {
	entries := chart.Entries()
	r.Header(1, chart.Title+" "+yearRange(chart))
	if len(entries) == 0 {
		r.Println(r.Muted("no countries requested"))
		return
	}

	var rows [][]string
	for _, e := range entries {
		if len(e.Points) == 0 {
			rows = append(rows, []string{e.Country, "-", "no data"})
			continue
		}
		for _, p := range e.Points {
			rows = append(rows, []string{e.Country, strconv.Itoa(p.Year), r.Number(p.Value)})
		}
	}
	r.Table([]string{"Country", "Year", "GDP"}, rows)
}

func seriesMarkdown(r *output.Renderer, chart render.Chart) {
	r.Println(output.FormatHeader(1, chart.Title+" "+yearRange(chart)))
	r.Println("")

	for _, e := range chart.Entries() {
		r.Println(output.FormatHeader(2, e.Country))
		r.Println("")
		if len(e.Points) == 0 {
			r.Println("_no data_")
			r.Println("")
			continue
		}
		rows := make([][]string, 0, len(e.Points))
		for _, p := range e.Points {
			rows = append(rows, []string{strconv.Itoa(p.Year), formatValue(p)})
		}
		r.Table([]string{"Year", "Value"}, rows)
		r.Println("")
	}
}

func formatValue(p core.Point) string {
	return strconv.FormatFloat(p.Value, 'f', -1, 64)
}

func yearRange(chart render.Chart) string {
	return "(" + strconv.Itoa(chart.MinYear) + "-" + strconv.Itoa(chart.MaxYear) + ")"
}
