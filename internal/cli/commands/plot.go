package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/gdpplot/internal/render"
	"github.com/spf13/cobra"
)

// PlotFilePrefix starts every generated plot file name.
const PlotFilePrefix = "isp_gdp_xy"

// PlotOptions holds options for the plot command.
type PlotOptions struct {
	Sink string
	Out  string
}

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	opts := &PlotOptions{}

	cmd := &cobra.Command{
		Use:   "plot [country...]",
		Short: "Render an XY plot of GDP by year",
		Long: `Build the GDP series for the named countries and write them through a
render sink: svg (line chart), json, csv (long format) or xlsx.

The file is written to <plot.out_dir>/isp_gdp_xy_<countries>.<ext> unless --out
is given. Use --out - to write to standard output.`,
		Example: `  # SVG chart of two countries into plots/
  gdpplot plot "United Kingdom" "United States"

  # Excel workbook at an explicit path
  gdpplot plot China --sink xlsx --out china.xlsx

  # Pipe CSV into another tool
  gdpplot plot China --sink csv --out - | head`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlot(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sink, "sink", "", "Render sink (svg|json|csv|xlsx, default: plot.sink)")
	cmd.Flags().StringVar(&opts.Out, "out", "", "Output file, or - for stdout")
	_ = cmd.RegisterFlagCompletionFunc("sink", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return render.List(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runPlot(cmd *cobra.Command, args []string, opts *PlotOptions) error {
	cc := NewCommandContext(cmd)
	countries := countriesOrDefault(cc.Cfg, args)

	sink, err := render.Get(sinkName(cc, opts.Sink))
	if err != nil {
		return err
	}

	rec := startRun(cc, "plot", countries)
	m, err := cc.Builder.Build(cmd.Context(), cc.Cfg.DatasetConfig(), countries)
	rec.finish(m.PointCount(), err)
	if err != nil {
		return err
	}

	chart := newChart(cc.Cfg, countries, m)
	if opts.Out == "-" {
		return renderTo(cmd.OutOrStdout(), sink, chart)
	}

	path := opts.Out
	if path == "" {
		path = filepath.Join(cc.Cfg.Plot.OutDir, render.SlugFileName(PlotFilePrefix, countries, sink.Ext()))
	}
	if err := writePlot(path, sink, chart); err != nil {
		return err
	}

	cc.Renderer.StatusLine(path, "success", pointsLabel(m))
	return nil
}

func sinkName(cc *CommandContext, flag string) string {
	if flag != "" {
		return strings.ToLower(flag)
	}
	return cc.Cfg.Plot.Sink
}

// writePlot renders chart into path, creating parent directories.
func writePlot(path string, sink render.Sink, chart render.Chart) (err error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, cerr)
		}
	}()

	return renderTo(f, sink, chart)
}

func renderTo(w io.Writer, sink render.Sink, chart render.Chart) error {
	if err := sink.Render(w, chart); err != nil {
		return fmt.Errorf("failed to render %s: %w", sink.Name(), err)
	}
	return nil
}
