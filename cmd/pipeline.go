package cmd

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/viper"

	"github.com/madstone-tech/katnipc/internal/adapters/catalog"
	"github.com/madstone-tech/katnipc/internal/adapters/diagram"
	"github.com/madstone-tech/katnipc/internal/adapters/encoding"
	"github.com/madstone-tech/katnipc/internal/adapters/filesystem"
	"github.com/madstone-tech/katnipc/internal/adapters/logging"
	"github.com/madstone-tech/katnipc/internal/core/entities"
	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

// loadCompilerConfig reads the Viper-merged configuration (after
// initConfig's PersistentPreRunE has run) into a typed CompilerConfig.
func loadCompilerConfig() usecases.CompilerConfig {
	cfg := usecases.DefaultCompilerConfig()
	cfg.StackSpacing = viper.GetInt("stacks.spacing")
	cfg.CommentOffset = viper.GetInt("comments.offset")
	cfg.CatalogPath = viper.GetString("catalog.path")
	cfg.AllowAliasOverride = viper.GetBool("aliases.allow_override")
	if formats := viper.GetStringSlice("output.formats"); len(formats) > 0 {
		cfg.OutputFormats = formats
	}
	return cfg
}

// loadCatalog loads the command catalog named by cfg.CatalogPath, falling
// back to the embedded default catalog when unset.
func loadCatalog(cfg usecases.CompilerConfig) (*entities.CommandCatalog, error) {
	loader := catalog.NewLoader()

	source := catalog.DefaultCatalogSource
	if cfg.CatalogPath != "" {
		if err := entities.ValidatePath(cfg.CatalogPath); err != nil {
			return nil, fmt.Errorf("catalog path %q: %w", cfg.CatalogPath, err)
		}
		data, err := os.ReadFile(cfg.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("reading catalog file %s: %w", cfg.CatalogPath, err)
		}
		source = data
	}

	cmdCatalog, err := loader.Load(source, cfg.AllowAliasOverride)
	if err != nil {
		return nil, fmt.Errorf("loading command catalog: %w", err)
	}
	return cmdCatalog, nil
}

// runCompile runs the full Lex->Parse->Emit pipeline for projectRoot and
// returns the compiled result, ready for packaging.
func runCompile(ctx context.Context, projectRoot string) (*usecases.CompileResult, entities.CompileErrors, error) {
	cfg := loadCompilerConfig()

	cmdCatalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}

	sprites, err := filesystem.LoadSprites(projectRoot)
	if err != nil {
		return nil, nil, err
	}

	assets := filesystem.NewAssetProbe(projectRoot)
	compiler := usecases.NewCompiler(assets)

	result, compileErrs := compiler.Compile(ctx, sprites, cmdCatalog, cfg)
	if compileErrs.HasErrors() {
		return nil, compileErrs, nil
	}

	if err := checkAcyclic(ctx, result); err != nil {
		return nil, nil, err
	}

	return result, nil, nil
}

// checkAcyclic renders each target's block graph to D2 and runs the graph
// validator over it, catching a next-chain or substack cycle before it
// reaches packaging.
func checkAcyclic(ctx context.Context, result *usecases.CompileResult) error {
	gen := diagram.NewGenerator()
	validator := newGraphValidator()

	for _, target := range result.Project.Targets {
		src, err := gen.GenerateBlockGraph(target)
		if err != nil {
			return fmt.Errorf("rendering block graph for %s: %w", target.Name, err)
		}
		if err := validator.CheckAcyclic(ctx, src); err != nil {
			return fmt.Errorf("sprite %s: %w", target.Name, err)
		}
	}
	return nil
}

// runLexParse runs only the Lex and Parse phases of the pipeline, skipping
// emission and packaging, for the validate command.
func runLexParse(projectRoot string) (entities.CompileErrors, error) {
	cfg := loadCompilerConfig()

	cmdCatalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}

	sprites, err := filesystem.LoadSprites(projectRoot)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(sprites))
	for name := range sprites {
		names = append(names, name)
	}
	sort.Strings(names)

	symbols := entities.NewSymbolTables(cfg.StackSpacing, cfg.CommentOffset)
	var allErrors entities.CompileErrors

	for _, name := range names {
		sprite := sprites[name]

		lexReporter := usecases.NewErrorReporter(sprite.Name)
		lexer := usecases.NewLexer(lexReporter)
		tokens := lexer.Tokenize(sprite.Source)
		if lexReporter.HasErrors() {
			allErrors = append(allErrors, lexReporter.Errors()...)
			continue
		}

		parseReporter := usecases.NewErrorReporter(sprite.Name)
		parser := usecases.NewParser(lexer, parseReporter, cmdCatalog, symbols, sprite.Name)
		parser.Parse(tokens)
		if parseReporter.HasErrors() {
			allErrors = append(allErrors, parseReporter.Errors()...)
		}
	}

	return allErrors, nil
}

// newPackager wires a filesystem.Packager with the encoding and diagram
// adapters, and a logger scoped to this compilation's id.
func newPackager(id string) *filesystem.Packager {
	logger := logging.New(logging.LevelInfo).WithFields("project_id", id)
	return filesystem.NewPackager(encoding.NewEncoder(), diagram.NewGenerator(), logger)
}

// newGraphValidator returns the diagram graph validator used to catch
// structural cycles before packaging.
func newGraphValidator() usecases.GraphValidator {
	return diagram.NewValidator()
}
