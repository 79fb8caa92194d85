package filesystem

import (
	"fmt"
	"sort"
	"strings"

	"github.com/madstone-tech/katnipc/internal/adapters/encoding"
	"github.com/madstone-tech/katnipc/internal/core/entities"
)

// inputTypeNames maps a literal input's shadow-block opcode constant to the
// label shown in the ASCII hierarchy dump.
var inputTypeNames = map[int]string{
	4: "Number", 5: "Positive Number", 6: "Positive Integer", 7: "Integer",
	8: "Angle", 9: "Color", 10: "String", 11: "Broadcast", 12: "Variable", 13: "List",
}

// GenerateASCIIHierarchy renders one target's block graph as an indented
// ASCII tree, one top-level script per root block, deterministically
// ordered by block id (unlike a plain map iteration, whose order is
// unspecified) so the dump is reproducible across runs.
func GenerateASCIIHierarchy(target *entities.Target) string {
	var sb strings.Builder
	sb.WriteString(target.Name + " >\n")
	if len(target.Blocks) == 0 {
		return sb.String()
	}

	var roots []string
	for id, b := range target.Blocks {
		if b.TopLevel {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)

	for i, root := range roots {
		writeBlockHierarchy(&sb, target.Blocks, root, "", i == len(roots)-1)
	}
	return sb.String()
}

func writeBlockHierarchy(sb *strings.Builder, blocks map[string]*entities.TargetBlock, id, indent string, isLast bool) {
	block, ok := blocks[id]
	if !ok {
		return
	}

	connector := "├─"
	if isLast {
		connector = "└─"
	}
	fmt.Fprintf(sb, "%s%s %s: %s\n", indent, connector, id, block.Opcode)

	childIndent := indent + "│   "
	if isLast {
		childIndent = indent + "    "
	}

	inputNames := make([]string, 0, len(block.Inputs))
	for name := range block.Inputs {
		if name == "SUBSTACK" || name == "SUBSTACK2" {
			continue
		}
		inputNames = append(inputNames, name)
	}
	sort.Strings(inputNames)

	for i, name := range inputNames {
		isLastInput := i == len(inputNames)-1 && len(block.Fields) == 0
		writeInputHierarchy(sb, blocks, block.Inputs[name], name, childIndent, isLastInput)
	}

	fieldNames := make([]string, 0, len(block.Fields))
	for name := range block.Fields {
		fieldNames = append(fieldNames, name)
	}
	sort.Strings(fieldNames)
	for i, name := range fieldNames {
		sub := "├─"
		if i == len(fieldNames)-1 {
			sub = "└─"
		}
		field := block.Fields[name]
		var kind, value any
		if len(field) > 0 {
			value = field[0]
		}
		if len(field) > 1 {
			kind = field[1]
		}
		fmt.Fprintf(sb, "%s%s %s (%v): %v\n", childIndent, sub, name, kind, value)
	}

	if sub, ok := block.Inputs["SUBSTACK"]; ok {
		writeSubstack(sb, blocks, sub, "SUBSTACK", childIndent, block.Next == nil, isLast)
	}
	if sub, ok := block.Inputs["SUBSTACK2"]; ok {
		writeSubstack(sb, blocks, sub, "SUBSTACK2", childIndent, block.Next == nil, isLast)
	}

	if block.Next != nil {
		writeBlockHierarchy(sb, blocks, *block.Next, indent, isLast)
	}
}

func writeSubstack(sb *strings.Builder, blocks map[string]*entities.TargetBlock, value []any, label, indent string, last, isLast bool) {
	connector := "├─"
	if isLast {
		connector = "└─"
	}
	fmt.Fprintf(sb, "%s%s %s:\n", indent, connector, label)
	if len(value) < 2 {
		return
	}
	blockID, ok := value[1].(string)
	if !ok {
		return
	}
	nextIndent := indent + "│   "
	if last {
		nextIndent = indent + "    "
	}
	writeBlockHierarchy(sb, blocks, blockID, nextIndent, last)
}

func writeInputHierarchy(sb *strings.Builder, blocks map[string]*entities.TargetBlock, value []any, name, indent string, isLast bool) {
	connector := "├─"
	if isLast {
		connector = "└─"
	}
	if len(value) < 2 {
		return
	}

	switch ref := value[1].(type) {
	case string:
		// A nested reporter block.
		if _, ok := blocks[ref]; ok {
			fmt.Fprintf(sb, "%s%s %s [Reporter]:\n", indent, connector, name)
			childIndent := indent + "│   "
			if isLast {
				childIndent = indent + "    "
			}
			writeBlockHierarchy(sb, blocks, ref, childIndent, true)
		}
	case []any:
		if len(ref) == 0 {
			return
		}
		code, _ := toInt(ref[0])
		label := inputTypeNames[code]
		if label == "" {
			label = fmt.Sprintf("Kind%d", code)
		}
		if len(ref) > 2 {
			fmt.Fprintf(sb, "%s%s %s [%s] (%v): %v\n", indent, connector, name, label, ref[1], ref[2])
		} else if len(ref) > 1 {
			fmt.Fprintf(sb, "%s%s %s [%s]: %v\n", indent, connector, name, label, ref[1])
		}
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		return int(n), true
	}
	return 0, false
}

// BuildHierarchyDump converts a target into the TOON-renderable
// encoding.HierarchyDump shape, independent of the ASCII tree above: one
// ScriptNode forest per top-level block, following next/SUBSTACK edges but
// omitting reporter/field detail the ASCII dump carries, since the TOON
// artifact is meant to be a much cheaper token footprint.
func BuildHierarchyDump(targets []*entities.Target) encoding.HierarchyDump {
	dump := encoding.HierarchyDump{}
	for _, target := range targets {
		var roots []string
		for id, b := range target.Blocks {
			if b.TopLevel {
				roots = append(roots, id)
			}
		}
		sort.Strings(roots)

		sprite := encoding.SpriteHierarchy{Name: target.Name}
		for _, root := range roots {
			sprite.Scripts = append(sprite.Scripts, buildScriptNode(target.Blocks, root))
		}
		dump.Sprites = append(dump.Sprites, sprite)
	}
	return dump
}

func buildScriptNode(blocks map[string]*entities.TargetBlock, id string) encoding.ScriptNode {
	block := blocks[id]
	node := encoding.ScriptNode{Opcode: block.Opcode}

	for _, label := range []string{"SUBSTACK", "SUBSTACK2"} {
		sub, ok := block.Inputs[label]
		if !ok || len(sub) < 2 {
			continue
		}
		if blockID, ok := sub[1].(string); ok {
			if _, exists := blocks[blockID]; exists {
				node.Children = append(node.Children, buildScriptNode(blocks, blockID))
			}
		}
	}

	if block.Next != nil {
		if _, exists := blocks[*block.Next]; exists {
			node.Children = append(node.Children, buildScriptNode(blocks, *block.Next))
		}
	}
	return node
}
