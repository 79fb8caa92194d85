// Package diagram renders a compiled sprite's block graph as D2 diagram
// source, and validates block graphs for structural cycles using the
// official D2 compiler rather than a hand-rolled graph walk.
package diagram

import (
	"fmt"
	"sort"
	"strings"

	"github.com/madstone-tech/katnipc/internal/core/entities"
	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

// Generator renders a target's block graph (parent/next/input edges) as D2
// diagram source, for the bundle's supplemental diagram_<id>.d2 artifact.
type Generator struct{}

// Compile-time interface check.
var _ usecases.DiagramGenerator = (*Generator)(nil)

// NewGenerator returns a ready-to-use Generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateBlockGraph renders one sprite's compiled blocks as D2 source: one
// shape per block, solid edges for next/substack control flow, dashed
// edges for reporter/input wiring.
func (g *Generator) GenerateBlockGraph(target *entities.Target) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Block graph: %s\n", target.Name)
	sb.WriteString("direction: down\n\n")

	if len(target.Blocks) == 0 {
		sb.WriteString("empty: \"(no blocks)\"\n")
		return sb.String(), nil
	}

	ids := make([]string, 0, len(target.Blocks))
	for id := range target.Blocks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	sb.WriteString("# Blocks\n")
	for _, id := range ids {
		block := target.Blocks[id]
		nodeID := sanitizeID(id)
		fmt.Fprintf(&sb, "%s: \"%s\"\n", nodeID, block.Opcode)
		if block.TopLevel {
			fmt.Fprintf(&sb, "%s.style.fill: \"#E1F5FF\"\n", nodeID)
		}
	}
	sb.WriteString("\n")

	sb.WriteString("# Control flow\n")
	for _, id := range ids {
		block := target.Blocks[id]
		if block.Next != nil {
			fmt.Fprintf(&sb, "%s -> %s\n", sanitizeID(id), sanitizeID(*block.Next))
		}
	}
	sb.WriteString("\n")

	sb.WriteString("# Substack and input wiring\n")
	for _, id := range ids {
		block := target.Blocks[id]
		inputNames := make([]string, 0, len(block.Inputs))
		for name := range block.Inputs {
			inputNames = append(inputNames, name)
		}
		sort.Strings(inputNames)
		for _, name := range inputNames {
			value := block.Inputs[name]
			if len(value) < 2 {
				continue
			}
			childID, ok := value[1].(string)
			if !ok {
				continue
			}
			if _, exists := target.Blocks[childID]; !exists {
				continue
			}
			style := ""
			if name == "SUBSTACK" || name == "SUBSTACK2" {
				style = "style.stroke-dash: 0"
			} else {
				style = "style.stroke-dash: 4"
			}
			fmt.Fprintf(&sb, "%s -> %s: \"%s\" { %s }\n", sanitizeID(id), sanitizeID(childID), name, style)
		}
	}

	return sb.String(), nil
}

// sanitizeID rewrites a block id (e.g. "block-17") into a D2-safe
// identifier, since D2 keys containing "-" must be quoted or escaped.
func sanitizeID(id string) string {
	return strings.ReplaceAll(id, "-", "_")
}
