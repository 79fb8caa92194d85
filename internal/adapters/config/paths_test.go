package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXDGPathResolverHonorsConfigHomeOverride(t *testing.T) {
	override := t.TempDir()
	t.Setenv("KATNIPC_CONFIG_HOME", override)

	resolver := NewXDGPathResolver()
	assert.Equal(t, override, resolver.ConfigDir())
}

func TestXDGPathResolverFallsBackToXDGConfigHome(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("KATNIPC_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", xdg)

	resolver := NewXDGPathResolver()
	assert.Equal(t, filepath.Join(xdg, appName), resolver.ConfigDir())
}

func TestXDGPathResolverCatalogDirUnderDataHome(t *testing.T) {
	dataHome := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dataHome)

	resolver := NewXDGPathResolver()
	assert.Equal(t, filepath.Join(dataHome, appName, "catalog"), resolver.CatalogDir())
}

func TestXDGPathResolverConfigFileUnderConfigHome(t *testing.T) {
	override := t.TempDir()
	t.Setenv("KATNIPC_CONFIG_HOME", override)

	resolver := NewXDGPathResolver()
	assert.Equal(t, filepath.Join(override, "config.toml"), resolver.ConfigFile())
}
