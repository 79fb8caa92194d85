// Package main is the entry point for the katnipc CLI.
// katnipc compiles Katnip source files into a Scratch-like visual
// block-project bundle.
package main

import (
	"fmt"
	"os"

	"github.com/madstone-tech/katnipc/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date, builtBy)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
