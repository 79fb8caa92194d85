package filesystem

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madstone-tech/katnipc/internal/core/entities"
)

func twoBlockTarget() *entities.Target {
	target := entities.NewTarget("Sprite1", false)
	nextID := "b2"
	target.Blocks["b1"] = &entities.TargetBlock{
		Opcode:   "motion_movesteps",
		TopLevel: true,
		Next:     &nextID,
		Inputs:   map[string][]any{"STEPS": {1, []any{4, 10.0}}},
		Fields:   map[string][]any{},
	}
	target.Blocks["b2"] = &entities.TargetBlock{
		Opcode: "looks_say",
		Inputs: map[string][]any{"MESSAGE": {1, []any{10, "hi"}}},
		Fields: map[string][]any{},
	}
	return target
}

func TestGenerateASCIIHierarchyRendersChainInOrder(t *testing.T) {
	dump := GenerateASCIIHierarchy(twoBlockTarget())
	require.Contains(t, dump, "Sprite1 >")
	idxB1 := strings.Index(dump, "motion_movesteps")
	idxB2 := strings.Index(dump, "looks_say")
	require.NotEqual(t, -1, idxB1)
	require.NotEqual(t, -1, idxB2)
	assert.Less(t, idxB1, idxB2)
	assert.Contains(t, dump, "[Number]")
	assert.Contains(t, dump, "[String]")
}

func TestGenerateASCIIHierarchyHandlesEmptyTarget(t *testing.T) {
	target := entities.NewTarget("Empty", false)
	dump := GenerateASCIIHierarchy(target)
	assert.Equal(t, "Empty >\n", dump)
}

func TestGenerateASCIIHierarchyIteratesAllTopLevelRootsDeterministically(t *testing.T) {
	target := entities.NewTarget("Sprite1", false)
	target.Blocks["z1"] = &entities.TargetBlock{Opcode: "control_forever", TopLevel: true, Inputs: map[string][]any{}, Fields: map[string][]any{}}
	target.Blocks["a1"] = &entities.TargetBlock{Opcode: "motion_movesteps", TopLevel: true, Inputs: map[string][]any{}, Fields: map[string][]any{}}

	dump1 := GenerateASCIIHierarchy(target)
	dump2 := GenerateASCIIHierarchy(target)
	assert.Equal(t, dump1, dump2, "hierarchy dump must be deterministic across runs")
	// sorted-id order: a1 before z1
	assert.Less(t, strings.Index(dump1, "a1"), strings.Index(dump1, "z1"))
}

func TestBuildHierarchyDumpBuildsScriptForest(t *testing.T) {
	dump := BuildHierarchyDump([]*entities.Target{twoBlockTarget()})
	require.Len(t, dump.Sprites, 1)
	require.Len(t, dump.Sprites[0].Scripts, 1)
	root := dump.Sprites[0].Scripts[0]
	assert.Equal(t, "motion_movesteps", root.Opcode)
	require.Len(t, root.Children, 1)
	assert.Equal(t, "looks_say", root.Children[0].Opcode)
}
