package cmd

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyCustomAliasesAddsStringAlias(t *testing.T) {
	resetViperDefaults(t)
	viper.Set("aliases.build", "b")

	root := &cobra.Command{Use: "root"}
	build := &cobra.Command{Use: "build", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(build)

	applyCustomAliases(root)
	assert.Contains(t, build.Aliases, "b")
}

func TestApplyCustomAliasesAddsMultipleAliasesFromSlice(t *testing.T) {
	resetViperDefaults(t)
	viper.Set("aliases.build", []any{"b", "bld"})

	root := &cobra.Command{Use: "root"}
	build := &cobra.Command{Use: "build", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(build)

	applyCustomAliases(root)
	assert.Contains(t, build.Aliases, "b")
	assert.Contains(t, build.Aliases, "bld")
}

func TestApplyCustomAliasesSkipsUnknownCommand(t *testing.T) {
	resetViperDefaults(t)
	viper.Set("aliases.doesnotexist", "x")

	root := &cobra.Command{Use: "root"}
	require.NotPanics(t, func() { applyCustomAliases(root) })
}
