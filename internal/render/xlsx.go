package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

func init() { Register(XLSXSink{}) }

const (
	summarySheet  = "GDP"
	maxSheetRunes = 31
)

// XLSXSink writes a workbook with a long-format summary sheet and one sheet
// per country.
type XLSXSink struct{}

func (XLSXSink) Name() string { return "xlsx" }
func (XLSXSink) Ext() string  { return "xlsx" }
func (XLSXSink) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render writes the workbook to w.
func (XLSXSink) Render(w io.Writer, c Chart) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	if err := f.SetSheetRow(summarySheet, "A1", &[]any{"Country", "Year", "Value"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	row := 2
	used := map[string]bool{strings.ToLower(summarySheet): true}
	for _, e := range c.Entries() {
		for _, p := range e.Points {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetSheetRow(summarySheet, cell, &[]any{e.Country, p.Year, p.Value}); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
		}

		name := sheetName(e.Country, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet for %s: %w", e.Country, err)
		}
		if err := f.SetSheetRow(name, "A1", &[]any{"Year", "Value"}); err != nil {
			return fmt.Errorf("failed to write header for %s: %w", e.Country, err)
		}
		for i, p := range e.Points {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			if err := f.SetSheetRow(name, cell, &[]any{p.Year, p.Value}); err != nil {
				return fmt.Errorf("failed to write %s row: %w", e.Country, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// sheetName makes a unique Excel sheet name: no []:*?/\ characters, no
// leading or trailing apostrophe, at most 31 runes.
func sheetName(country string, used map[string]bool) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '_'
		}
		return r
	}, country)
	cleaned = strings.Trim(cleaned, "' ")
	if cleaned == "" {
		cleaned = "Series"
	}

	base := truncateRunes(cleaned, maxSheetRunes)
	name := base
	for i := 2; used[strings.ToLower(name)]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncateRunes(base, maxSheetRunes-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
