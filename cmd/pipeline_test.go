package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViperDefaults(t *testing.T) {
	t.Helper()
	viper.Reset()
	viper.SetDefault("stacks.spacing", 600)
	viper.SetDefault("comments.offset", 25)
	viper.SetDefault("catalog.path", "")
	viper.SetDefault("aliases.allow_override", false)
	viper.SetDefault("output.formats", []string{"project", "hierarchy", "diagram"})
	t.Cleanup(viper.Reset)
}

func writeProject(t *testing.T, sprites map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, src := range sprites {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".knp"), []byte(src), 0o644))
	}
	return dir
}

func TestRunCompileProducesResultForValidProject(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "motion.move(10)"})

	result, compileErrs, err := runCompile(context.Background(), projectDir)
	require.NoError(t, err)
	assert.Empty(t, compileErrs)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Stats.SpritesCompiled)
}

func TestRunCompileReturnsCompileErrorsForUnknownCommand(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "nope.notACommand(1)"})

	result, compileErrs, err := runCompile(context.Background(), projectDir)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NotEmpty(t, compileErrs)
}

func TestRunLexParseReportsNoErrorsForValidProject(t *testing.T) {
	resetViperDefaults(t)
	projectDir := writeProject(t, map[string]string{"Cat": "motion.move(10)"})

	errs, err := runLexParse(projectDir)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestLoadCatalogRejectsPathTraversal(t *testing.T) {
	resetViperDefaults(t)
	cfg := loadCompilerConfig()
	cfg.CatalogPath = "../../etc/passwd"

	_, err := loadCatalog(cfg)
	assert.Error(t, err)
}

func TestLoadCatalogFallsBackToEmbeddedDefault(t *testing.T) {
	resetViperDefaults(t)
	cfg := loadCompilerConfig()

	cmdCatalog, err := loadCatalog(cfg)
	require.NoError(t, err)
	_, ok := cmdCatalog.Lookup("motion.move")
	assert.True(t, ok)
}
