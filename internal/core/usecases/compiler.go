package usecases

import (
	"context"
	"fmt"
	"sort"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

// CompileResult is the complete output of a Compiler.Compile call: the
// assembled Project ready for JSON/TOON serialization, plus statistics for
// the CLI's progress summary. The project-wide catalog and symbol tables are
// retained too; the packaging phase's hierarchy/diagram renderers read only
// Project.
type CompileResult struct {
	Project *entities.Project
	Symbols *entities.SymbolTables
	Catalog *entities.CommandCatalog
	Stats   BuildStats
}

// Compiler is the top-level pipeline entry point: Lexer -> Parser -> Emitter
// for every sprite, sharing one SymbolTables (and so one id space) across the
// whole project the way the reference tool's single global namespace does.
type Compiler struct {
	assets AssetProbe
}

// NewCompiler returns a Compiler that resolves costume/sound bytes through assets.
func NewCompiler(assets AssetProbe) *Compiler {
	return &Compiler{assets: assets}
}

// Compile lexes, parses, and emits every sprite in sprites (processed in a
// deterministic, name-sorted order so output is reproducible across runs),
// against catalog, honoring cfg's layout and alias settings. It returns a
// complete CompileResult only if no phase for any sprite accumulated errors;
// otherwise it returns the combined errors from every failing sprite and no
// result.
func (c *Compiler) Compile(ctx context.Context, sprites map[string]entities.SpriteInput, catalog *entities.CommandCatalog, cfg CompilerConfig) (*CompileResult, entities.CompileErrors) {
	names := make([]string, 0, len(sprites))
	for name := range sprites {
		names = append(names, name)
	}
	sort.Strings(names)

	symbols := entities.NewSymbolTables(cfg.StackSpacing, cfg.CommentOffset)
	project := &entities.Project{
		Meta: entities.Meta{Semver: "3.0.0", VM: "0.2.0", Agent: "katnipc"},
	}

	var allErrors entities.CompileErrors
	var pending []entities.PendingProcCall
	stats := BuildStats{}

	for _, name := range names {
		sprite := sprites[name]
		select {
		case <-ctx.Done():
			allErrors.Add(entities.KindSyntaxError, "compilation canceled: "+ctx.Err().Error(), name, 0)
			return nil, allErrors
		default:
		}

		target, spriteErrors, spritePending := c.compileSprite(ctx, sprite, catalog, symbols)
		if spriteErrors.HasErrors() {
			allErrors = append(allErrors, spriteErrors...)
			continue
		}
		pending = append(pending, spritePending...)
		project.Targets = append(project.Targets, target)
		stats.SpritesCompiled++
		stats.BlocksEmitted += len(target.Blocks)
	}

	for _, call := range pending {
		allErrors.AddSprite(call.Sprite, entities.KindUndefinedProcedure,
			fmt.Sprintf("call to undefined procedure %q", call.ProcName), call.ProcName, call.Line)
	}

	for _, m := range symbols.Monitors {
		project.Monitors = append(project.Monitors, &entities.TargetMonitor{
			ID:         m.ID,
			Mode:       m.Mode,
			Opcode:     "data_" + m.Mode + "variable",
			Params:     map[string]string{"VARIABLE": m.SymbolName},
			SpriteName: spriteNamePtr(m.TargetName),
			X:          m.X,
			Y:          m.Y,
			Visible:    m.Visible,
		})
	}

	stats.ErrorCount = len(allErrors)
	if allErrors.HasErrors() {
		return nil, allErrors
	}
	return &CompileResult{Project: project, Symbols: symbols, Catalog: catalog, Stats: stats}, nil
}

func spriteNamePtr(name string) *string {
	if name == "" {
		return nil
	}
	return &name
}

// compileSprite runs one sprite through Lex -> Parse -> Emit. Each phase
// flushes its own ErrorReporter at its boundary: a lexer error aborts before
// parsing starts, and a parser error aborts before emission starts, so a
// malformed sprite never reaches the Emitter with partial data.
func (c *Compiler) compileSprite(ctx context.Context, sprite entities.SpriteInput, catalog *entities.CommandCatalog, symbols *entities.SymbolTables) (*entities.Target, entities.CompileErrors, []entities.PendingProcCall) {
	lexReporter := NewErrorReporter(sprite.Name)
	lexer := NewLexer(lexReporter)
	tokens := lexer.Tokenize(sprite.Source)
	if lexReporter.HasErrors() {
		return nil, lexReporter.Errors(), nil
	}

	parseReporter := NewErrorReporter(sprite.Name)
	parser := NewParser(lexer, parseReporter, catalog, symbols, sprite.Name)
	stmts := parser.Parse(tokens)
	if parseReporter.HasErrors() {
		return nil, parseReporter.Errors(), nil
	}

	target := entities.NewTarget(sprite.Name, sprite.Name == "Stage")
	if err := c.attachAssets(ctx, sprite, target); err != nil {
		var errs entities.CompileErrors
		errs.AddSprite(sprite.Name, entities.KindUnsupportedAsset, err.Error(), sprite.Name, 0)
		return nil, errs, nil
	}

	emitReporter := NewErrorReporter(sprite.Name)
	emitter := NewEmitter(emitReporter, symbols, sprite.Name)
	emitter.Emit(stmts, target)
	if emitReporter.HasErrors() {
		return nil, emitReporter.Errors(), nil
	}

	return target, nil, emitter.PendingCalls()
}

func (c *Compiler) attachAssets(ctx context.Context, sprite entities.SpriteInput, target *entities.Target) error {
	if c.assets == nil {
		return nil
	}
	for _, name := range sprite.Costumes {
		asset, err := c.assets.ResolveCostume(ctx, sprite.Name, name)
		if err != nil {
			return fmt.Errorf("resolving costume %q: %w", name, err)
		}
		target.Costumes = append(target.Costumes, asset)
	}
	for _, name := range sprite.Sounds {
		asset, err := c.assets.ResolveSound(ctx, sprite.Name, name)
		if err != nil {
			return fmt.Errorf("resolving sound %q: %w", name, err)
		}
		target.Sounds = append(target.Sounds, asset)
	}
	return nil
}
