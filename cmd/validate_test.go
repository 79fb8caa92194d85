package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateCommandExecuteSucceedsForValidProject(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "motion.move(10)"})

	cmd := NewValidateCommand(projectDir, false)
	err := cmd.Execute(context.Background())
	assert.NoError(t, err)
}

func TestValidateCommandExecuteReturnsNilWithoutExitCodeFlag(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "nope.notACommand(1)"})

	cmd := NewValidateCommand(projectDir, false)
	err := cmd.Execute(context.Background())
	assert.NoError(t, err, "without --exit-code, validation errors are reported but do not fail the command")
}

func TestValidateCommandExecuteFailsWithExitCodeFlag(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "nope.notACommand(1)"})

	cmd := NewValidateCommand(projectDir, true)
	err := cmd.Execute(context.Background())
	assert.Error(t, err)
}
