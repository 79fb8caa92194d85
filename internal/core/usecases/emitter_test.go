package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

func emitSource(t *testing.T, src string) (*entities.Target, *ErrorReporter) {
	t.Helper()
	reporter := NewErrorReporter("Sprite1")
	lexer := NewLexer(reporter)
	tokens := lexer.Tokenize(src)
	symbols := entities.NewSymbolTables(600, 25)
	parser := NewParser(lexer, reporter, testCatalog(t), symbols, "Sprite1")
	stmts := parser.Parse(tokens)
	require.False(t, reporter.HasErrors())

	target := entities.NewTarget("Sprite1", false)
	emitter := NewEmitter(reporter, symbols, "Sprite1")
	emitter.Emit(stmts, target)
	return target, reporter
}

func TestEmitterProducesOneTopLevelBlockPerStack(t *testing.T) {
	target, _ := emitSource(t, "events.whenFlagClicked()\nmotion.move(10)\nevents.whenFlagClicked()\nmotion.move(20)")
	var topLevel int
	for _, b := range target.Blocks {
		if b.TopLevel {
			topLevel++
		}
	}
	assert.Equal(t, 2, topLevel)
	assert.Len(t, target.Blocks, 4)
}

func TestEmitterChainsNextPointers(t *testing.T) {
	target, _ := emitSource(t, "motion.move(1)\nmotion.move(2)")
	var first *entities.TargetBlock
	for _, b := range target.Blocks {
		if b.TopLevel {
			first = b
		}
	}
	require.NotNil(t, first)
	require.NotNil(t, first.Next)
	second := target.Blocks[*first.Next]
	require.NotNil(t, second)
	assert.Equal(t, "motion_movesteps", second.Opcode)
}

func TestEmitterNestsCBlockSubstackAsChild(t *testing.T) {
	target, _ := emitSource(t, "control.repeat(3) {\nmotion.move(1)\n}")
	var parentID string
	var parent *entities.TargetBlock
	for id, b := range target.Blocks {
		if b.Opcode == "control_repeat" {
			parentID = id
			parent = b
		}
	}
	require.NotNil(t, parent)
	sub, ok := parent.Inputs["SUBSTACK"]
	require.True(t, ok)
	childID := sub[1].(string)
	child := target.Blocks[childID]
	require.NotNil(t, child)
	assert.False(t, child.TopLevel)
	require.NotNil(t, child.Parent)
	assert.Equal(t, parentID, *child.Parent)
}

func TestEmitterRegistersVariableAndMonitor(t *testing.T) {
	target, _ := emitSource(t, `looks.say($score)`)
	require.Len(t, target.Variables, 1)
	for id, nameVal := range target.Variables {
		assert.NotEmpty(t, id)
		assert.Equal(t, "score", nameVal[0])
	}
}

func TestEmitterBuildsMenuShadowForDropdownInput(t *testing.T) {
	target, _ := emitSource(t, `motion.goto("mouse-pointer")`)
	var found bool
	for _, b := range target.Blocks {
		if b.Opcode == "motion_goto" {
			continue
		}
		if b.Shadow {
			found = true
		}
	}
	assert.True(t, found, "expected a generated menu shadow block")
}

func TestEmitterPenMenuFieldNameDoesNotUppercase(t *testing.T) {
	target, _ := emitSource(t, `pen.changeHue(color, 10)`)
	var shadow *entities.TargetBlock
	for _, b := range target.Blocks {
		if b.Shadow {
			shadow = b
		}
	}
	require.NotNil(t, shadow, "expected a generated pen menu shadow block")
	_, hasLower := shadow.Fields["pen"]
	assert.True(t, hasLower, "pen menu field name must not be uppercased")
}

func TestEmitterProcedureDefinitionAndCallShareProccode(t *testing.T) {
	target, _ := emitSource(t, "func:jump(height) {\nmotion.move(height)\n}\nfn.jump(height:10)")

	var protoMutation, callMutation *entities.BlockMutation
	for _, b := range target.Blocks {
		if b.Opcode == "procedures_prototype" {
			protoMutation = b.Mutation
		}
		if b.Opcode == "procedures_call" {
			callMutation = b.Mutation
		}
	}
	require.NotNil(t, protoMutation)
	require.NotNil(t, callMutation)
	assert.Equal(t, protoMutation.Proccode, callMutation.Proccode)
}
