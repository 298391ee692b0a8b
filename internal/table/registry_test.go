package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfRegistration(t *testing.T) {
	assert.True(t, IsRegistered("delimited"), "delimited source should be auto-registered")
	assert.True(t, IsRegistered("duckdb"), "duckdb source should be auto-registered")
}

func TestListSources(t *testing.T) {
	sources := ListSources()
	assert.Contains(t, sources, "delimited")
	assert.Contains(t, sources, "duckdb")
	assert.IsIncreasing(t, sources)
}

func TestGet(t *testing.T) {
	factory, ok := Get("delimited")
	require.True(t, ok)
	require.NotNil(t, factory)

	_, ok = Get("nonexistent")
	assert.False(t, ok)
}

func TestNewSource(t *testing.T) {
	src, err := NewSource("delimited", nil)
	require.NoError(t, err)
	assert.IsType(t, &DelimitedSource{}, src)

	_, err = NewSource("unknown_source", nil)
	var unknownErr *UnknownSourceError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "unknown_source", unknownErr.Name)
	assert.Contains(t, unknownErr.Error(), "dataset.source")
}
