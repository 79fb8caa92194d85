package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

var (
	errorBanner = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")).Render
	okBanner    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).Render
)

// CompileCommand runs the full Lex->Parse->Emit->Package pipeline over a
// Katnip project directory.
type CompileCommand struct {
	projectRoot string
	outputDir   string
}

// NewCompileCommand creates a new compile command.
func NewCompileCommand(projectRoot string) *CompileCommand {
	return &CompileCommand{projectRoot: projectRoot, outputDir: "dist"}
}

// WithOutputDir sets the staging/archive output directory.
func (c *CompileCommand) WithOutputDir(dir string) *CompileCommand {
	if dir != "" {
		c.outputDir = dir
	}
	return c
}

// Execute compiles the project and writes the bundle.
func (c *CompileCommand) Execute(ctx context.Context) error {
	start := time.Now()

	result, compileErrs, err := runCompile(ctx, c.projectRoot)
	if err != nil {
		return err
	}
	if compileErrs.HasErrors() {
		printCompileErrors(compileErrs)
		return fmt.Errorf("compilation failed with %d error(s)", len(compileErrs))
	}
	result.Stats.Duration = time.Since(start)

	id := fmt.Sprintf("build-%d", time.Now().UnixNano())
	archivePath, err := newPackager(id).Write(ctx, result, c.outputDir, id)
	if err != nil {
		return fmt.Errorf("packaging bundle: %w", err)
	}

	fmt.Println(okBanner(fmt.Sprintf("compiled %d sprite(s), %d block(s) in %v",
		result.Stats.SpritesCompiled, result.Stats.BlocksEmitted, result.Stats.Duration.Round(time.Millisecond))))
	fmt.Printf("bundle: %s\n", archivePath)
	return nil
}

func printCompileErrors(errs entities.CompileErrors) {
	fmt.Println(errorBanner(fmt.Sprintf("%d compile error(s)", len(errs))))
	for _, e := range errs {
		fmt.Printf("  %s\n", e.Error())
	}
}
