package cmd

import "github.com/spf13/cobra"

var validateExitCode bool

var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"val"},
	Short:   "Lex and parse a project without compiling it",
	Long:    "Check a Katnip project's sprite sources for syntax and binding errors, without emitting or packaging a bundle.",
	GroupID: "building",
	Example: `  katnipc validate
  katnipc validate --project ./myproject --exit-code`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().BoolVar(&validateExitCode, "exit-code", false, "exit with a non-zero status if any errors are found")
}

func runValidate(cmd *cobra.Command, args []string) error {
	return NewValidateCommand(ProjectRoot, validateExitCode).Execute(cmd.Context())
}
