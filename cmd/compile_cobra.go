package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var compileCmd = &cobra.Command{
	Use:     "compile",
	Aliases: []string{"c", "build"},
	Short:   "Compile a Katnip project into a block-project bundle",
	Long:    "Lex, parse, and emit every sprite's .knp source into a block-project bundle, then package it as a zip archive.",
	GroupID: "building",
	Example: `  katnipc compile
  katnipc compile --project ./myproject --output ./dist
  katnipc compile --catalog ./custom_commands.txt`,
	RunE: runCompileCmd,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	compileCmd.Flags().StringP("output", "o", "dist", "output directory for the compiled bundle")
	compileCmd.Flags().String("catalog", "", "path to a custom command-catalog file (default: embedded catalog)")
	compileCmd.Flags().Bool("allow-alias-override", false, "allow a catalog alias to redefine an existing command name")

	_ = viper.BindPFlag("catalog.path", compileCmd.Flags().Lookup("catalog"))
	_ = viper.BindPFlag("aliases.allow_override", compileCmd.Flags().Lookup("allow-alias-override"))
}

func runCompileCmd(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	return NewCompileCommand(ProjectRoot).WithOutputDir(output).Execute(cmd.Context())
}
