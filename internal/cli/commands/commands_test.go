package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeriesCommand(t *testing.T) {
	cmd := NewSeriesCommand()

	assert.Equal(t, "series [country...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Note: --output and the dataset flags are persistent flags on root
}

func TestNewPlotCommand(t *testing.T) {
	cmd := NewPlotCommand()

	assert.Equal(t, "plot [country...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	flags := []string{"sink", "out"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewCountriesCommand(t *testing.T) {
	cmd := NewCountriesCommand()

	assert.Equal(t, "countries", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")

	for _, flag := range []string{"code", "match"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestNewExamplesCommand(t *testing.T) {
	cmd := NewExamplesCommand()

	assert.Equal(t, "examples", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("sink"))
}

func TestNewHistoryCommand(t *testing.T) {
	cmd := NewHistoryCommand()

	assert.Equal(t, "history", cmd.Use)
	f := cmd.Flags().Lookup("limit")
	require.NotNil(t, f)
	assert.Equal(t, "20", f.DefValue)

	show, _, err := cmd.Find([]string{"show"})
	require.NoError(t, err)
	assert.Equal(t, "show <id>", show.Use)
}

func TestNewServeCommand(t *testing.T) {
	cmd := NewServeCommand()

	assert.Equal(t, "serve", cmd.Use)
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	watch := cmd.Flags().Lookup("watch")
	require.NotNil(t, watch)
	assert.Equal(t, "true", watch.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("addr"))
}

func TestNewInitCommand(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestExampleLists(t *testing.T) {
	require.Len(t, ExampleLists, 3)
	assert.Empty(t, ExampleLists[0])
	assert.Equal(t, []string{"China"}, ExampleLists[1])
	assert.Equal(t, []string{"United Kingdom", "United States"}, ExampleLists[2])
}
