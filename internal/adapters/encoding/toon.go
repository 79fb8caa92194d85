// Package encoding provides serialization adapters for katnipc: JSON for
// project.json, and TOON (Token-Optimized Object Notation) for the bundle's
// token-efficient hierarchy dump.
package encoding

import (
	"encoding/json"

	"github.com/toon-format/toon-go"

	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

// Ensure Encoder implements usecases.OutputEncoder interface.
var _ usecases.OutputEncoder = (*Encoder)(nil)

// Encoder provides JSON and TOON encoding for compiler artifacts.
type Encoder struct{}

// NewEncoder creates a new Encoder instance.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeJSON serializes a value to JSON bytes, used for project.json.
func (e *Encoder) EncodeJSON(value any) ([]byte, error) {
	return json.Marshal(value)
}

// DecodeJSON deserializes JSON bytes to a value.
func (e *Encoder) DecodeJSON(data []byte, value any) error {
	return json.Unmarshal(data, value)
}

// EncodeTOON serializes a value to TOON, used for the bundle's
// hierarchy_<id>.toon debug artifact: a token-efficient alternative to the
// ASCII hierarchy dump, meant for feeding compiled project structure back
// into an LLM context window cheaply.
func (e *Encoder) EncodeTOON(value any) ([]byte, error) {
	return toon.Marshal(value)
}

// HierarchyDump is the TOON/ASCII-renderable shape of a compiled project's
// block structure: one entry per sprite, each holding its top-level scripts
// as a forest of opcode nodes. It is built directly from an
// entities.Target's Blocks map by the filesystem packager, independent of
// the raw project.json block shape.
type HierarchyDump struct {
	Sprites []SpriteHierarchy `json:"sprites"`
}

// SpriteHierarchy is one sprite's compiled script forest.
type SpriteHierarchy struct {
	Name    string       `json:"name"`
	Scripts []ScriptNode `json:"scripts"`
}

// ScriptNode is one block in a compiled script tree: its opcode plus any
// nested substack/input blocks, the reporter/c-block children a human
// reviewing the hierarchy dump cares about.
type ScriptNode struct {
	Opcode   string       `json:"opcode"`
	Children []ScriptNode `json:"children,omitempty"`
}
