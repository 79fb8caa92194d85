package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

func TestGenerateBlockGraphEmptyTarget(t *testing.T) {
	target := entities.NewTarget("Cat", false)
	gen := NewGenerator()

	src, err := gen.GenerateBlockGraph(target)
	require.NoError(t, err)
	assert.Contains(t, src, "(no blocks)")
}

func TestGenerateBlockGraphEmitsSolidNextEdge(t *testing.T) {
	target := entities.NewTarget("Cat", false)
	next := "b2"
	target.Blocks["b1"] = &entities.TargetBlock{
		Opcode: "motion_movesteps", TopLevel: true, Next: &next,
		Inputs: map[string][]any{}, Fields: map[string][]any{},
	}
	target.Blocks["b2"] = &entities.TargetBlock{
		Opcode: "looks_say",
		Inputs: map[string][]any{}, Fields: map[string][]any{},
	}

	gen := NewGenerator()
	src, err := gen.GenerateBlockGraph(target)
	require.NoError(t, err)
	assert.Contains(t, src, "b1 -> b2")
}

func TestGenerateBlockGraphEmitsSolidSubstackEdge(t *testing.T) {
	target := entities.NewTarget("Cat", false)
	target.Blocks["b1"] = &entities.TargetBlock{
		Opcode: "control_repeat", TopLevel: true,
		Inputs: map[string][]any{"SUBSTACK": {2, "b2"}},
		Fields: map[string][]any{},
	}
	target.Blocks["b2"] = &entities.TargetBlock{
		Opcode: "motion_movesteps",
		Inputs: map[string][]any{}, Fields: map[string][]any{},
	}

	gen := NewGenerator()
	src, err := gen.GenerateBlockGraph(target)
	require.NoError(t, err)
	assert.Contains(t, src, "b1 -> b2: \"SUBSTACK\"")
	assert.Contains(t, src, "style.stroke-dash: 0")
}

func TestSanitizeIDReplacesHyphens(t *testing.T) {
	assert.Equal(t, "block_17", sanitizeID("block-17"))
}
