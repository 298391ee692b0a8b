package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/leapstack-labs/gdpplot/internal/cli/config"
	"github.com/leapstack-labs/gdpplot/internal/cli/output"
	"github.com/leapstack-labs/gdpplot/internal/cli/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCommandContext_FromContext(t *testing.T) {
	cfg := config.Default()
	cfg.Countries = []string{"China"}
	tr := testutil.NewTestRendererJSON()

	ctx := config.WithConfig(context.Background(), cfg)
	ctx = output.WithRenderer(ctx, tr.Renderer)

	cmd := &cobra.Command{Use: "series"}
	cmd.SetContext(ctx)

	cc := NewCommandContext(cmd)
	assert.Same(t, cfg, cc.Cfg)
	assert.Same(t, tr.Renderer, cc.Renderer)
	require.NotNil(t, cc.Logger)
	require.NotNil(t, cc.Builder)

	require.NoError(t, cc.Renderer.JSON(map[string]string{"status": "ok"}))
	testutil.AssertOutputMode(t, tr.Output(), output.ModeJSON)

	cc.Renderer.Warning("careful")
	assert.Contains(t, tr.ErrorOutput(), "careful")
}

func TestNewCommandContext_Defaults(t *testing.T) {
	cmd := &cobra.Command{Use: "bare"}
	cmd.SetContext(context.Background())
	cmd.SetOut(&bytes.Buffer{})

	cc := NewCommandContext(cmd)
	assert.Equal(t, config.Default(), cc.Cfg)
	require.NotNil(t, cc.Renderer)
	assert.Equal(t, output.ModeMarkdown, cc.Renderer.EffectiveMode())
}
