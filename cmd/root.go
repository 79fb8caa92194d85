// Package cmd implements the katnipc CLI commands using Cobra.
package cmd

import (
	"fmt"
	"strings"

	"github.com/madstone-tech/katnipc/internal/adapters/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Build-time version information, set via SetVersionInfo from main.go.
var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
	appBuiltBy = "unknown"
)

// Persistent flag values accessible to all subcommands.
var (
	cfgFile     string
	ProjectRoot string
	Verbose     bool
)

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "katnipc",
	Short: "Katnip-to-block-project compiler",
	Long: `katnipc compiles Katnip source files into a Scratch-like visual
block-project bundle.

It lexes and parses each sprite's .knp source against a command catalog,
emits a per-sprite block graph, and packages the result as project.json
plus a zipped bundle of assets and debug artifacts.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.Root())
	},
	SilenceUsage: true,
}

func init() {
	// Persistent flags available to all subcommands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (env: KATNIPC_CONFIG_HOME)")
	rootCmd.PersistentFlags().StringVarP(&ProjectRoot, "project", "p", ".", "project root directory")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "enable verbose output (env: KATNIPC_VERBOSE)")

	// Command groups for organized help output.
	rootCmd.AddGroup(
		&cobra.Group{ID: "building", Title: "Building"},
		&cobra.Group{ID: "inspecting", Title: "Inspecting"},
	)
}

// Execute runs the root command. This is the main entry point called from main.go.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets build-time version information from ldflags.
// Call this from main.go before Execute().
func SetVersionInfo(version, commit, date, builtBy string) {
	appVersion = version
	appCommit = commit
	appDate = date
	appBuiltBy = builtBy

	rootCmd.Version = version
	rootCmd.SetVersionTemplate(
		fmt.Sprintf("katnipc %s (commit: %s, built: %s by %s)\n", version, commit, date, builtBy),
	)
}

// initConfig sets up Viper configuration with the full hierarchy:
// CLI flags > KATNIPC_* env vars > project katnip.toml > global XDG config.toml > defaults
func initConfig(root *cobra.Command) error {
	viper.SetConfigType("toml")

	// 1. Set built-in defaults.
	viper.SetDefault("stacks.spacing", 600)
	viper.SetDefault("comments.offset", 25)
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("aliases.allow_override", false)
	viper.SetDefault("output.formats", []string{"project", "hierarchy", "diagram"})

	// 2. Read global config (lowest priority file).
	if cfgFile != "" {
		// --config flag overrides all path resolution.
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		// Try XDG global config path.
		paths := config.NewXDGPathResolver()
		viper.SetConfigFile(paths.ConfigFile())
		_ = viper.ReadInConfig() // Silent fail if not found.
	}

	// 3. Merge project config (overrides global).
	viper.SetConfigFile(ProjectRoot + "/katnip.toml")
	_ = viper.MergeInConfig() // Silent fail if not found.

	// 4. Environment variables override config files.
	viper.SetEnvPrefix("KATNIPC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 5. Apply custom command aliases from [aliases] config section.
	applyCustomAliases(root)

	return nil
}

// applyCustomAliases reads the [aliases] section from config and appends
// custom aliases to matching top-level commands. Config values can be a
// single string or an array of strings. Invalid entries are silently skipped.
func applyCustomAliases(root *cobra.Command) {
	aliasMap := viper.GetStringMap("aliases")
	if len(aliasMap) == 0 {
		return
	}

	commands := root.Commands()
	cmdByName := make(map[string]*cobra.Command, len(commands))
	for _, cmd := range commands {
		cmdByName[cmd.Name()] = cmd
	}

	for name, value := range aliasMap {
		cmd, ok := cmdByName[name]
		if !ok {
			continue
		}

		var aliases []string
		switch v := value.(type) {
		case string:
			aliases = []string{v}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok {
					aliases = append(aliases, s)
				}
			}
		default:
			continue
		}

		cmd.Aliases = append(cmd.Aliases, aliases...)
	}
}
