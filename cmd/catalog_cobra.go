package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/madstone-tech/katnipc/internal/adapters/encoding"
)

var catalogCmd = &cobra.Command{
	Use:     "catalog",
	Short:   "Dump the resolved command catalog",
	Long:    "Print every command in the resolved catalog (embedded, or overridden via --catalog/catalog.path), including its argument schema and any aliases pointing to it.",
	GroupID: "inspecting",
	Example: `  katnipc catalog
  katnipc catalog --format json
  katnipc catalog --allow-alias-override`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.Flags().String("format", "text", "output format: text or json")
	catalogCmd.Flags().String("catalog", "", "path to a custom command-catalog file (default: embedded catalog)")
	catalogCmd.Flags().Bool("allow-alias-override", false, "allow a catalog alias to redefine an existing command name")

	_ = viper.BindPFlag("catalog.path", catalogCmd.Flags().Lookup("catalog"))
	_ = viper.BindPFlag("aliases.allow_override", catalogCmd.Flags().Lookup("allow-alias-override"))
}

// catalogEntry is the JSON-friendly shape of one command in the dump.
type catalogEntry struct {
	Path       string   `json:"path"`
	Opcode     string   `json:"opcode"`
	Shape      string   `json:"shape"`
	ReturnType string   `json:"returnType,omitempty"`
	Args       []string `json:"args,omitempty"`
	Aliases    []string `json:"aliases,omitempty"`
	Macro      bool     `json:"macro,omitempty"`
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg := loadCompilerConfig()
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogPath, _ = cmd.Flags().GetString("catalog")
	}
	if cmd.Flags().Changed("allow-alias-override") {
		cfg.AllowAliasOverride, _ = cmd.Flags().GetBool("allow-alias-override")
	}
	cmdCatalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	aliasesByTarget := map[string][]string{}
	for alias, target := range cmdCatalog.Aliases() {
		aliasesByTarget[target] = append(aliasesByTarget[target], alias)
	}
	for _, aliases := range aliasesByTarget {
		sort.Strings(aliases)
	}

	var entries []catalogEntry
	for _, d := range cmdCatalog.All() {
		entry := catalogEntry{
			Path:       d.FullPath(),
			Opcode:     d.Opcode,
			Shape:      string(d.Shape),
			ReturnType: string(d.ReturnType),
			Aliases:    aliasesByTarget[d.FullPath()],
			Macro:      d.IsMacro(),
		}
		for _, a := range d.Args {
			entry.Args = append(entry.Args, fmt.Sprintf("%s:%s", a.Kind, a.Name))
		}
		entries = append(entries, entry)
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "json" {
		data, err := encoding.NewEncoder().EncodeJSON(entries)
		if err != nil {
			return fmt.Errorf("encoding catalog: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	for _, e := range entries {
		line := fmt.Sprintf("%-28s -> %-28s [%s]", e.Path, e.Opcode, e.Shape)
		if e.Macro {
			line += " (macro)"
		}
		if len(e.Aliases) > 0 {
			line += fmt.Sprintf(" aliases=%v", e.Aliases)
		}
		fmt.Println(line)
		for _, a := range e.Args {
			fmt.Printf("    %s\n", a)
		}
	}
	return nil
}
