package cmd

import (
	"context"
	"fmt"
)

// ValidateCommand runs only the Lex and Parse phases over a project,
// reporting errors without emitting or packaging a bundle.
type ValidateCommand struct {
	projectRoot string
	exitCode    bool
}

// NewValidateCommand creates a new validate command.
func NewValidateCommand(projectRoot string, exitCode bool) *ValidateCommand {
	return &ValidateCommand{projectRoot: projectRoot, exitCode: exitCode}
}

// Execute lexes and parses every sprite, printing any errors found.
func (c *ValidateCommand) Execute(ctx context.Context) error {
	errs, err := runLexParse(c.projectRoot)
	if err != nil {
		return err
	}

	if len(errs) == 0 {
		fmt.Println(okBanner("no errors found"))
		return nil
	}

	printCompileErrors(errs)
	if c.exitCode {
		return fmt.Errorf("validation failed with %d error(s)", len(errs))
	}
	fmt.Println("note: use --exit-code to fail the command on validation errors")
	return nil
}
