package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/gdpplot/internal/cli/output"
	"github.com/leapstack-labs/gdpplot/internal/table"
	"github.com/spf13/cobra"
)

// CountriesOptions holds options for the countries command.
type CountriesOptions struct {
	Code  bool
	Match string
}

// CountryInfo is one listed table key.
type CountryInfo struct {
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

// NewCountriesCommand creates the countries command.
func NewCountriesCommand() *cobra.Command {
	opts := &CountriesOptions{}

	cmd := &cobra.Command{
		Use:   "countries",
		Short: "List the countries in the GDP table",
		Long: `List every key in the source table, sorted by name.

Use --code to add the dataset.code_field_name column and --match to keep only
names containing a substring (case-insensitive).`,
		Example: `  # All countries
  gdpplot countries

  # Names and codes containing "korea"
  gdpplot countries --code --match korea`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCountries(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Code, "code", false, "Show the country code column")
	cmd.Flags().StringVar(&opts.Match, "match", "", "Only names containing this text")

	return cmd
}

func runCountries(cmd *cobra.Command, opts *CountriesOptions) error {
	cc := NewCommandContext(cmd)

	tbl, err := table.Load(cmd.Context(), cc.Cfg.DatasetConfig(), cc.Logger)
	if err != nil {
		return err
	}

	match := strings.ToLower(opts.Match)
	names := tbl.Keys()
	sort.Strings(names)

	countries := make([]CountryInfo, 0, len(names))
	for _, name := range names {
		if match != "" && !strings.Contains(strings.ToLower(name), match) {
			continue
		}
		info := CountryInfo{Name: name}
		if opts.Code {
			info.Code = tbl[name][cc.Cfg.Dataset.CodeFieldName]
		}
		countries = append(countries, info)
	}

	r := cc.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(countries)
	}

	r.Header(1, fmt.Sprintf("Countries (%d)", len(countries)))
	if !opts.Code {
		for _, c := range countries {
			r.Println("- " + c.Name)
		}
		return nil
	}

	rows := make([][]string, 0, len(countries))
	for _, c := range countries {
		rows = append(rows, []string{c.Name, c.Code})
	}
	r.Table([]string{"Country", "Code"}, rows)
	return nil
}
