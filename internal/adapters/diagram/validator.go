package diagram

import (
	"context"
	"fmt"
	"strings"

	"oss.terrastruct.com/d2/d2graph"
	"oss.terrastruct.com/d2/d2layouts/d2dagrelayout"
	"oss.terrastruct.com/d2/d2lib"
	"oss.terrastruct.com/d2/lib/textmeasure"

	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

// Validator compiles D2 source through the official library and checks the
// resulting graph for structural cycles, used before packaging to catch a
// malformed next/substack chain the emitter should never produce.
type Validator struct{}

// Compile-time interface check.
var _ usecases.GraphValidator = (*Validator)(nil)

// NewValidator returns a ready-to-use Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// CheckAcyclic compiles d2Source and returns an error naming the first
// cycle found, or nil if the graph is acyclic (or empty).
func (v *Validator) CheckAcyclic(ctx context.Context, d2Source string) error {
	if strings.TrimSpace(d2Source) == "" {
		return nil
	}

	ruler, _ := textmeasure.NewRuler()
	compileOpts := &d2lib.CompileOptions{
		Ruler: ruler,
		LayoutResolver: func(engine string) (d2graph.LayoutGraph, error) {
			return d2dagrelayout.DefaultLayout, nil
		},
	}

	_, graph, err := d2lib.Compile(ctx, d2Source, compileOpts, nil)
	if err != nil {
		return fmt.Errorf("d2 parse error: %w", err)
	}
	if graph == nil {
		return nil
	}

	adjacency := map[string][]string{}
	for _, edge := range graph.Edges {
		if edge == nil || edge.Src == nil || edge.Dst == nil {
			continue
		}
		src := getNodeID(edge.Src)
		dst := getNodeID(edge.Dst)
		if src == "" || dst == "" {
			continue
		}
		adjacency[src] = append(adjacency[src], dst)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	state := map[string]int{}

	var visit func(node string, path []string) error
	visit = func(node string, path []string) error {
		state[node] = gray
		for _, next := range adjacency[node] {
			switch state[next] {
			case gray:
				return fmt.Errorf("cycle detected: %s -> %s", strings.Join(path, " -> "), next)
			case white:
				if err := visit(next, append(path, next)); err != nil {
					return err
				}
			}
		}
		state[node] = black
		return nil
	}

	for node := range adjacency {
		if state[node] == white {
			if err := visit(node, []string{node}); err != nil {
				return err
			}
		}
	}
	return nil
}

// getNodeID extracts the dotted path identifier from a D2 graph node,
// handling nested shapes.
func getNodeID(node *d2graph.Object) string {
	if node == nil {
		return ""
	}
	var parts []string
	current := node
	for current != nil {
		if current.ID != "" {
			parts = append([]string{current.ID}, parts...)
		}
		current = current.Parent
	}
	return strings.TrimPrefix(strings.Join(parts, "."), ".")
}
