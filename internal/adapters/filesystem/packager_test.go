package filesystem

import (
	"archive/zip"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madstone-tech/katnipc/internal/adapters/catalog"
	"github.com/madstone-tech/katnipc/internal/adapters/diagram"
	"github.com/madstone-tech/katnipc/internal/adapters/encoding"
	"github.com/madstone-tech/katnipc/internal/adapters/logging"
	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

func buildFixtureResult(t *testing.T) *usecases.CompileResult {
	t.Helper()
	dir := t.TempDir()
	writeSpriteFile(t, dir, "Cat", "motion.move(10)")
	sprites, err := LoadSprites(dir)
	require.NoError(t, err)

	cmdCatalog, err := catalog.NewLoader().Load(catalog.DefaultCatalogSource, false)
	require.NoError(t, err)

	compiler := usecases.NewCompiler(nil)
	result, errs := compiler.Compile(context.Background(), sprites, cmdCatalog, usecases.DefaultCompilerConfig())
	require.False(t, errs.HasErrors())
	require.NotNil(t, result)
	return result
}

func TestPackagerWritesAndArchivesBundle(t *testing.T) {
	result := buildFixtureResult(t)

	outDir := t.TempDir()
	pkg := NewPackager(encoding.NewEncoder(), diagram.NewGenerator(), logging.New(logging.LevelError))

	archivePath, err := pkg.Write(context.Background(), result, outDir, "build1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "build1.zip"), archivePath)

	stageDir := filepath.Join(outDir, "build1")
	assert.FileExists(t, filepath.Join(stageDir, "project.json"))
	assert.FileExists(t, filepath.Join(stageDir, "log_build1.txt"))
	assert.FileExists(t, filepath.Join(stageDir, "hierarchy_build1.txt"))
	assert.FileExists(t, filepath.Join(stageDir, "hierarchy_build1.toon"))
	assert.FileExists(t, filepath.Join(stageDir, "diagram_build1.d2"))

	zr, err := zip.OpenReader(archivePath)
	require.NoError(t, err)
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "project.json")
}

func TestPackagerSkipsDiagramWhenGeneratorNil(t *testing.T) {
	result := buildFixtureResult(t)
	outDir := t.TempDir()
	pkg := NewPackager(encoding.NewEncoder(), nil, nil)

	_, err := pkg.Write(context.Background(), result, outDir, "build2")
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(outDir, "build2", "diagram_build2.d2"))
}
