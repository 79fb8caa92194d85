package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchCommandWithOutputDirIgnoresEmptyOverride(t *testing.T) {
	cmd := NewWatchCommand("/tmp/project").WithOutputDir("")
	assert.Equal(t, "dist", cmd.outputDir)
}

func TestWatchCommandWithDebounceIgnoresNonPositiveOverride(t *testing.T) {
	cmd := NewWatchCommand("/tmp/project").WithDebounce(0)
	assert.Equal(t, 500, cmd.debounceMs)

	cmd.WithDebounce(250)
	assert.Equal(t, 250, cmd.debounceMs)
}

func TestWatchCommandRecompileSucceedsForValidProject(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "motion.move(10)"})
	outDir := t.TempDir()

	cmd := NewWatchCommand(projectDir).WithOutputDir(outDir)
	cmd.recompile(context.Background())
}

func TestWatchCommandExecuteStopsOnContextCancel(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "motion.move(10)"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewWatchCommand(projectDir).WithOutputDir(t.TempDir())
	err := cmd.Execute(ctx)
	assert.Error(t, err)
}
