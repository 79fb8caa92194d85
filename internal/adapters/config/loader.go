// Package config loads katnipc's layered configuration: CLI flags override
// KATNIPC_* environment variables, which override a project katnip.toml,
// which overrides the global XDG config.toml, which overrides built-in
// defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

// Loader wraps a *viper.Viper instance configured with katnipc's layered
// config hierarchy and decodes it into a usecases.CompilerConfig.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a Loader with katnipc's built-in defaults set.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("toml")

	v.SetDefault("stacks.spacing", 600)
	v.SetDefault("comments.offset", 25)
	v.SetDefault("catalog.path", "")
	v.SetDefault("aliases.allow_override", false)
	v.SetDefault("output.formats", []string{"project", "hierarchy", "diagram"})

	return &Loader{v: v}
}

// Load applies the full hierarchy: global XDG config, then project
// katnip.toml (merged, higher priority), then KATNIPC_* environment
// variables (highest priority short of flags, which the caller applies
// separately via BindPFlag before calling Load).
func (l *Loader) Load(globalConfigFile, projectRoot string) (usecases.CompilerConfig, error) {
	if globalConfigFile != "" {
		l.v.SetConfigFile(globalConfigFile)
		if err := l.v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return usecases.CompilerConfig{}, fmt.Errorf("reading global config %s: %w", globalConfigFile, err)
			}
		}
	}

	projectConfigPath := joinProjectConfig(projectRoot)
	l.v.SetConfigFile(projectConfigPath)
	_ = l.v.MergeInConfig() // Silent fail if the project has no katnip.toml.

	l.v.SetEnvPrefix("KATNIPC")
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	return l.decode()
}

// Viper exposes the underlying *viper.Viper so cmd/ can call BindPFlag
// before Load runs, giving flags top priority in the hierarchy.
func (l *Loader) Viper() *viper.Viper { return l.v }

func (l *Loader) decode() (usecases.CompilerConfig, error) {
	cfg := usecases.DefaultCompilerConfig()

	raw := map[string]any{
		"StackSpacing":       l.v.GetInt("stacks.spacing"),
		"CommentOffset":      l.v.GetInt("comments.offset"),
		"CatalogPath":        l.v.GetString("catalog.path"),
		"AllowAliasOverride": l.v.GetBool("aliases.allow_override"),
		"OutputFormats":      l.v.GetStringSlice("output.formats"),
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return cfg, fmt.Errorf("building config decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// tomlDocument is the on-disk shape of katnip.toml, mirroring the
// dotted-key layout Load reads back with viper.
type tomlDocument struct {
	Stacks   stacksSection   `toml:"stacks"`
	Comments commentsSection `toml:"comments"`
	Catalog  catalogSection  `toml:"catalog"`
	Aliases  aliasesSection  `toml:"aliases"`
	Output   outputSection   `toml:"output"`
}

type stacksSection struct {
	Spacing int `toml:"spacing"`
}
type commentsSection struct {
	Offset int `toml:"offset"`
}
type catalogSection struct {
	Path string `toml:"path"`
}
type aliasesSection struct {
	AllowOverride bool `toml:"allow_override"`
}
type outputSection struct {
	Formats []string `toml:"formats"`
}

// WriteProjectConfig persists cfg to <projectRoot>/katnip.toml using
// go-toml/v2's encoder.
func WriteProjectConfig(projectRoot string, cfg usecases.CompilerConfig) error {
	doc := tomlDocument{
		Stacks:   stacksSection{Spacing: cfg.StackSpacing},
		Comments: commentsSection{Offset: cfg.CommentOffset},
		Catalog:  catalogSection{Path: cfg.CatalogPath},
		Aliases:  aliasesSection{AllowOverride: cfg.AllowAliasOverride},
		Output:   outputSection{Formats: cfg.OutputFormats},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding katnip.toml: %w", err)
	}
	return os.WriteFile(joinProjectConfig(projectRoot), data, 0o644)
}

func joinProjectConfig(projectRoot string) string {
	if projectRoot == "" {
		projectRoot = "."
	}
	return projectRoot + "/katnip.toml"
}
