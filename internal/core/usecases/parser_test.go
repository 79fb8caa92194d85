package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madstone-tech/katnipc/internal/adapters/catalog"
	"github.com/madstone-tech/katnipc/internal/core/entities"
)

func testCatalog(t *testing.T) *entities.CommandCatalog {
	t.Helper()
	cat, err := catalog.NewLoader().Load(catalog.DefaultCatalogSource, false)
	require.NoError(t, err)
	return cat
}

func parseSource(t *testing.T, src string) ([]*entities.ASTBlock, *ErrorReporter) {
	t.Helper()
	reporter := NewErrorReporter("test")
	lexer := NewLexer(reporter)
	tokens := lexer.Tokenize(src)
	symbols := entities.NewSymbolTables(600, 25)
	parser := NewParser(lexer, reporter, testCatalog(t), symbols, "Sprite1")
	stmts := parser.Parse(tokens)
	return stmts, reporter
}

func TestParserBindsSimpleCommand(t *testing.T) {
	stmts, reporter := parseSource(t, `motion.move(10)`)
	require.False(t, reporter.HasErrors())
	require.Len(t, stmts, 1)
	assert.Equal(t, "motion.move", stmts[0].Command.FullPath())
	arg := stmts[0].Args["STEPS"]
	assert.Equal(t, entities.ArgValueNumber, arg.Kind)
	assert.Equal(t, float64(10), arg.Num)
}

func TestParserReportsUnknownCommand(t *testing.T) {
	_, reporter := parseSource(t, `nope.notACommand(1)`)
	assert.True(t, reporter.HasErrors())
}

func TestParserParsesCBlockSubstack(t *testing.T) {
	stmts, reporter := parseSource(t, "control.repeat(10) {\nmotion.move(1)\n}")
	require.False(t, reporter.HasErrors())
	require.Len(t, stmts, 1)
	sub := stmts[0].Args["SUBSTACK"]
	require.Equal(t, entities.ArgValueSubstack, sub.Kind)
	require.Len(t, sub.Substack, 1)
	assert.Equal(t, "motion.move", sub.Substack[0].Command.FullPath())
}

func TestParserRequiresBodyForCBlock(t *testing.T) {
	_, reporter := parseSource(t, `control.repeat(10)`)
	assert.True(t, reporter.HasErrors())
}

func TestParserResolvesIfElseToTwoBranchCounterpart(t *testing.T) {
	stmts, reporter := parseSource(t, "control.if(true) {\nmotion.move(1)\n} else {\nmotion.move(2)\n}")
	require.False(t, reporter.HasErrors())
	require.Len(t, stmts, 1)
	assert.Equal(t, "control.ifelse", stmts[0].Command.FullPath())
	assert.Contains(t, stmts[0].Args, "SUBSTACK")
	assert.Contains(t, stmts[0].Args, "SUBSTACK2")
}

func TestParserResolvesOperatorExpressionToNestedReporter(t *testing.T) {
	stmts, reporter := parseSource(t, `motion.move(1+2)`)
	require.False(t, reporter.HasErrors())
	arg := stmts[0].Args["STEPS"]
	require.Equal(t, entities.ArgValueReporter, arg.Kind)
	assert.Equal(t, "operator.add", arg.Reporter.Command.FullPath())
}

func TestParserSynthesizesNotEqualFromOperatorNot(t *testing.T) {
	stmts, reporter := parseSource(t, `control.wait(1!=2)`)
	require.False(t, reporter.HasErrors())
	arg := stmts[0].Args["DURATION"]
	require.Equal(t, entities.ArgValueReporter, arg.Kind)
	assert.Equal(t, "operator.not", arg.Reporter.Command.FullPath())
}

func TestParserProcedureDefinitionAndCall(t *testing.T) {
	stmts, reporter := parseSource(t, "func:jump(height) {\nmotion.move(height)\n}\nfn.jump(height:10)")
	require.False(t, reporter.HasErrors())
	require.Len(t, stmts, 2)
	assert.Equal(t, "jump", stmts[0].ProcName)
	assert.Equal(t, []string{"height"}, stmts[0].ProcArgNames)
	assert.Equal(t, "jump", stmts[1].ProcName)
	arg := stmts[1].Args["height"]
	assert.Equal(t, entities.ArgValueNumber, arg.Kind)
}

func TestParserRejectsProcArgOutsideProcedure(t *testing.T) {
	_, reporter := parseSource(t, `motion.move(a.height)`)
	assert.True(t, reporter.HasErrors())
}

func TestCatalogResolvesTurnAlias(t *testing.T) {
	// "turn" resolves via the catalog alias table to motion.turnRight; this
	// is an alias lookup on the loaded catalog, not a macro expansion.
	cat := testCatalog(t)
	_, ok := cat.Lookup("turn")
	assert.True(t, ok)
}
