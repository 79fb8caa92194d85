package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileCommandExecuteProducesBundle(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "motion.move(10)"})
	outDir := t.TempDir()

	cmd := NewCompileCommand(projectDir).WithOutputDir(outDir)
	err := cmd.Execute(context.Background())
	require.NoError(t, err)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	var sawZip bool
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".zip" {
			sawZip = true
		}
	}
	assert.True(t, sawZip, "expected a .zip bundle in %s", outDir)
}

func TestCompileCommandExecuteFailsOnCompileError(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "nope.notACommand(1)"})
	outDir := t.TempDir()

	cmd := NewCompileCommand(projectDir).WithOutputDir(outDir)
	err := cmd.Execute(context.Background())
	assert.Error(t, err)
}

func TestCompileCommandWithOutputDirIgnoresEmptyOverride(t *testing.T) {
	cmd := NewCompileCommand("/tmp/project").WithOutputDir("")
	assert.Equal(t, "dist", cmd.outputDir)
}
