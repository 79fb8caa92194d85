package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

func TestLoaderAppliesBuiltinDefaults(t *testing.T) {
	loader := NewLoader()
	cfg, err := loader.Load("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.StackSpacing)
	assert.Equal(t, 25, cfg.CommentOffset)
	assert.False(t, cfg.AllowAliasOverride)
	assert.Equal(t, []string{"project", "hierarchy", "diagram"}, cfg.OutputFormats)
}

func TestLoaderMergesProjectConfigOverDefaults(t *testing.T) {
	projectDir := t.TempDir()
	require.NoError(t, WriteProjectConfig(projectDir, usecases.CompilerConfig{
		StackSpacing:       900,
		CommentOffset:      10,
		AllowAliasOverride: true,
		OutputFormats:      []string{"project"},
	}))

	loader := NewLoader()
	cfg, err := loader.Load("", projectDir)
	require.NoError(t, err)

	assert.Equal(t, 900, cfg.StackSpacing)
	assert.Equal(t, 10, cfg.CommentOffset)
	assert.True(t, cfg.AllowAliasOverride)
	assert.Equal(t, []string{"project"}, cfg.OutputFormats)
}

func TestLoaderEnvVarsOverrideProjectConfig(t *testing.T) {
	projectDir := t.TempDir()
	require.NoError(t, WriteProjectConfig(projectDir, usecases.CompilerConfig{
		StackSpacing: 900,
	}))

	t.Setenv("KATNIPC_STACKS_SPACING", "1200")

	loader := NewLoader()
	cfg, err := loader.Load("", projectDir)
	require.NoError(t, err)
	assert.Equal(t, 1200, cfg.StackSpacing)
}

func TestLoaderIgnoresMissingGlobalConfigFile(t *testing.T) {
	loader := NewLoader()
	missing := filepath.Join(t.TempDir(), "does-not-exist.toml")
	_, err := loader.Load(missing, t.TempDir())
	assert.NoError(t, err)
}

func TestWriteProjectConfigRoundTrips(t *testing.T) {
	projectDir := t.TempDir()
	want := usecases.CompilerConfig{
		StackSpacing:       700,
		CommentOffset:      30,
		CatalogPath:        "custom-catalog.txt",
		AllowAliasOverride: true,
		OutputFormats:      []string{"project", "diagram"},
	}
	require.NoError(t, WriteProjectConfig(projectDir, want))

	data, err := os.ReadFile(filepath.Join(projectDir, "katnip.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "custom-catalog.txt")

	loader := NewLoader()
	got, err := loader.Load("", projectDir)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
