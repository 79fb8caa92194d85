package cmd

import "github.com/spf13/cobra"

var watchCmd = &cobra.Command{
	Use:     "watch",
	Aliases: []string{"w"},
	Short:   "Watch a project and recompile on change",
	Long:    "Watch the project for .knp source changes and automatically recompile the bundle.",
	GroupID: "building",
	Example: `  katnipc watch
  katnipc watch --debounce 1000
  katnipc watch --output ./dist`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringP("output", "o", "dist", "output directory for the compiled bundle")
	watchCmd.Flags().Int("debounce", 500, "debounce delay in milliseconds")
}

func runWatch(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	debounce, _ := cmd.Flags().GetInt("debounce")
	return NewWatchCommand(ProjectRoot).WithOutputDir(output).WithDebounce(debounce).Execute(cmd.Context())
}
