// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/gdpplot/internal/cli/output"
	gdptest "github.com/leapstack-labs/gdpplot/internal/testutil"
)

// ProjectConfig is the gdpplot.yaml written by SetupTestProject.
const ProjectConfig = `dataset:
  source_path: data/gdp.csv
  min_year: 1960
  max_year: 1963
countries:
  - China
plot:
  out_dir: plots
history:
  enabled: true
  path: .gdpplot/history.db
`

// SetupTestProject creates a temporary project with a config and the sample GDP table.
func SetupTestProject(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	gdptest.WriteFile(t, tmpDir, filepath.Join("data", "gdp.csv"), gdptest.SampleGDPCSV)
	gdptest.WriteFile(t, tmpDir, "gdpplot.yaml", ProjectConfig)
	return tmpDir
}

// TestRenderer is a Renderer writing into inspectable buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a renderer for mode; isTTY selects styled text in auto mode.
func NewTestRenderer(mode output.Mode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererMarkdown creates a test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns what was written to stdout.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns what was written to stderr.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertContains checks that the string contains the expected substring.
func AssertContains(t *testing.T, s, expected string) {
	t.Helper()
	if !strings.Contains(s, expected) {
		t.Errorf("string %q does not contain expected %q", s, expected)
	}
}

// AssertValidMarkdown checks for balanced code fences and non-empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	if fenceCount := strings.Count(md, "```"); fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	for i, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}

// AssertOutputMode checks that s has the shape of mode: JSON must decode,
// markdown must be plain valid markdown.
func AssertOutputMode(t *testing.T, s string, mode output.Mode) {
	t.Helper()

	switch mode {
	case output.ModeJSON:
		AssertNoANSI(t, s)
		if !json.Valid([]byte(s)) {
			t.Errorf("output is not valid JSON: %q", s)
		}
	case output.ModeMarkdown:
		AssertNoANSI(t, s)
		AssertValidMarkdown(t, s)
	}
}
