package commands

import (
	"fmt"
	"path/filepath"

	"github.com/leapstack-labs/gdpplot/internal/render"
	"github.com/leapstack-labs/gdpplot/pkg/core"
	"github.com/spf13/cobra"
)

// ExampleLists are the country selections plotted by the examples command.
var ExampleLists = [][]string{
	{},
	{"China"},
	{"United Kingdom", "United States"},
}

// NewExamplesCommand creates the examples command.
func NewExamplesCommand() *cobra.Command {
	var sinkFlag string

	cmd := &cobra.Command{
		Use:   "examples",
		Short: "Write the three example plots",
		Long: `Build and plot three fixed selections concurrently: no countries, China,
and the United Kingdom with the United States. Each plot is written into
plot.out_dir with a name derived from its countries.`,
		Example: `  gdpplot examples
  gdpplot examples --sink xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExamples(cmd, sinkFlag)
		},
	}

	cmd.Flags().StringVar(&sinkFlag, "sink", "", "Render sink (svg|json|csv|xlsx, default: plot.sink)")

	return cmd
}

func runExamples(cmd *cobra.Command, sinkFlag string) error {
	cc := NewCommandContext(cmd)

	sink, err := render.Get(sinkName(cc, sinkFlag))
	if err != nil {
		return err
	}

	var all []string
	for _, list := range ExampleLists {
		all = append(all, list...)
	}

	rec := startRun(cc, "examples", all)
	results, err := cc.Builder.BuildAll(cmd.Context(), cc.Cfg.DatasetConfig(), ExampleLists, 0)
	points := 0
	for _, m := range results {
		points += m.PointCount()
	}
	rec.finish(points, err)
	if err != nil {
		return err
	}

	for i, countries := range ExampleLists {
		path := filepath.Join(cc.Cfg.Plot.OutDir, render.SlugFileName(PlotFilePrefix, countries, sink.Ext()))
		if err := writePlot(path, sink, newChart(cc.Cfg, countries, results[i])); err != nil {
			return err
		}
		cc.Renderer.StatusLine(path, "success", pointsLabel(results[i]))
	}
	return nil
}

func pointsLabel(m core.SeriesMap) string {
	return fmt.Sprintf("%d points", m.PointCount())
}
