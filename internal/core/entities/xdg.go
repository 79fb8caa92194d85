package entities

import (
	"fmt"
	"path/filepath"
)

// XDGPaths holds resolved XDG-compliant paths for katnipc application data.
// Path resolution is performed by the PathResolver adapter; this entity
// stores the results as a value object.
type XDGPaths struct {
	// ConfigHome is the resolved configuration directory.
	// Typically ~/.config/katnipc/ or overridden by KATNIPC_CONFIG_HOME/XDG_CONFIG_HOME.
	ConfigHome string

	// DataHome is the resolved data directory.
	// Typically ~/.local/share/katnipc/ or overridden by XDG_DATA_HOME.
	DataHome string

	// CacheHome is the resolved cache directory.
	// Typically ~/.cache/katnipc/ or overridden by XDG_CACHE_HOME.
	CacheHome string
}

// ConfigFile returns the path to the global config file (config.toml).
func (p XDGPaths) ConfigFile() string {
	return filepath.Join(p.ConfigHome, "config.toml")
}

// CatalogDir returns the path to the directory holding user-supplied catalog overrides.
func (p XDGPaths) CatalogDir() string {
	return filepath.Join(p.DataHome, "catalog")
}

// CacheDir returns the cache directory path (same as CacheHome).
func (p XDGPaths) CacheDir() string {
	return p.CacheHome
}

// Validate checks that all required paths are set and absolute.
func (p XDGPaths) Validate() error {
	if p.ConfigHome == "" {
		return fmt.Errorf("XDGPaths.ConfigHome: config home path is required")
	}
	if !filepath.IsAbs(p.ConfigHome) {
		return fmt.Errorf("XDGPaths.ConfigHome %q: config home path must be absolute", p.ConfigHome)
	}
	if p.DataHome == "" {
		return fmt.Errorf("XDGPaths.DataHome: data home path is required")
	}
	if !filepath.IsAbs(p.DataHome) {
		return fmt.Errorf("XDGPaths.DataHome %q: data home path must be absolute", p.DataHome)
	}
	if p.CacheHome == "" {
		return fmt.Errorf("XDGPaths.CacheHome: cache home path is required")
	}
	if !filepath.IsAbs(p.CacheHome) {
		return fmt.Errorf("XDGPaths.CacheHome %q: cache home path must be absolute", p.CacheHome)
	}
	return nil
}
