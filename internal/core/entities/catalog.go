package entities

import "strings"

// Shape describes the block category a CommandDescriptor produces, matching
// the target format's visual block kinds.
type Shape string

const (
	ShapeHat            Shape = "hat"
	ShapeStack          Shape = "stack"
	ShapeExtensionStack Shape = "extension_stack"
	ShapeC              Shape = "c"
	ShapeCEnd           Shape = "c_end"
	ShapeCap            Shape = "cap"
	ShapeReporter       Shape = "reporter"
	ShapeBoolean        Shape = "boolean"
	ShapeMenu           Shape = "menu"
)

// StackHeight returns the layout height in pixels the reference tool
// assigns to each shape when it lays out consecutive stack blocks. These
// constants drive stack height/width bookkeeping during emission.
func (s Shape) StackHeight() int {
	switch s {
	case ShapeHat, ShapeStack, ShapeCap:
		return 48
	case ShapeC:
		return 48
	case ShapeCEnd:
		return 32
	case ShapeExtensionStack:
		return 56
	default:
		return 0
	}
}

// ArgKind enumerates the kinds of argument slots a command can declare.
type ArgKind string

const (
	ArgInput ArgKind = "input"  // i: prefix: accepts a reporter, literal, variable, list or broadcast
	ArgField ArgKind = "field"  // f: prefix: accepts a fixed dropdown-style value
)

// ArgSpec is one argument slot in a CommandDescriptor's input schema.
type ArgSpec struct {
	Name      string // schema name as it appears after the i:/f: prefix, e.g. "STEPS"
	Kind      ArgKind
	Boolean   bool     // true if this input slot only accepts a boolean-shaped reporter
	Broadcast bool     // true if a literal string given here names a broadcast message, not a string constant
	MenuRef   string   // non-empty if this field has an attached inline menu command, e.g. "goto_menu"
	Choices   []string // non-empty for fields with a fixed dropdown of literal choices
	Section   string   // catalog section this slot's owning command belongs to, for error messages
}

// ReturnType describes what a reporter-shaped command evaluates to.
type ReturnType string

const (
	ReturnNone    ReturnType = ""
	ReturnString  ReturnType = "string"
	ReturnNumber  ReturnType = "number"
	ReturnBoolean ReturnType = "boolean"
)

// Macro holds a textual expansion template for catalog entries that compile
// down to a short sequence of other statements instead of a single block
// (the reference catalog's "interpreted" commands, e.g. myblocks.return).
// {args} in a template line is substituted positionally before re-lexing.
type Macro struct {
	Template []string
}

// CommandDescriptor is one entry in the CommandCatalog: the mapping from a
// dotted catalog path (e.g. "motion.move") to the target opcode and argument
// schema needed to emit a block for it.
type CommandDescriptor struct {
	Section    string // e.g. "motion"
	Name       string // e.g. "move"
	UseName    string // dotted path used in source, e.g. "motion.move"
	Opcode     string // target block opcode, e.g. "motion_movesteps"
	Shape      Shape
	Args       []ArgSpec
	ReturnType ReturnType
	Macro      *Macro // non-nil for interpreted/composed commands
}

// IsMacro reports whether this descriptor expands to other statements
// instead of emitting a single block directly.
func (c *CommandDescriptor) IsMacro() bool { return c.Macro != nil }

// FullPath returns the dotted catalog path for this descriptor.
func (c *CommandDescriptor) FullPath() string {
	if c.Section == "" {
		return c.Name
	}
	return c.Section + "." + c.Name
}

// CommandCatalog is the read-only, immutable-after-construction table of all
// known commands, keyed by dotted path, plus an alias table resolved at
// construction time. It is safe to share across concurrent compilations.
type CommandCatalog struct {
	commands map[string]*CommandDescriptor
	aliases  map[string]string // alias -> canonical dotted path
	order    []string          // insertion order, for deterministic catalog dumps
}

// NewCommandCatalog builds a catalog from parsed descriptors and aliases.
// allowAliasOverride controls whether an alias is permitted to shadow an
// existing canonical command path; by default this is rejected.
func NewCommandCatalog(descriptors []*CommandDescriptor, aliases map[string]string, allowAliasOverride bool) (*CommandCatalog, error) {
	cat := &CommandCatalog{
		commands: make(map[string]*CommandDescriptor, len(descriptors)),
		aliases:  make(map[string]string, len(aliases)),
	}
	for _, d := range descriptors {
		path := d.FullPath()
		if _, exists := cat.commands[path]; exists {
			return nil, &DuplicateError{Entity: "command", ID: path}
		}
		cat.commands[path] = d
		cat.order = append(cat.order, path)
	}
	for alias := range aliases {
		if _, exists := cat.commands[alias]; exists && !allowAliasOverride {
			return nil, ErrAliasCollision
		}
	}
	for alias := range aliases {
		resolved, err := resolveAliasChain(aliases, cat.commands, alias)
		if err != nil {
			return nil, err
		}
		cat.aliases[alias] = resolved
	}
	return cat, nil
}

// resolveAliasChain follows alias-to-alias indirection starting at alias
// until it lands on a canonical command path, rejecting cycles along the
// way. The returned path, if any, always names a real command.
func resolveAliasChain(aliases map[string]string, commands map[string]*CommandDescriptor, alias string) (string, error) {
	current := alias
	visited := map[string]bool{current: true}
	for {
		target, isAlias := aliases[current]
		if !isAlias {
			if _, ok := commands[current]; !ok {
				return "", &NotFoundError{Entity: "command", ID: current, Parent: "alias target for " + alias}
			}
			return current, nil
		}
		if visited[target] {
			return "", ErrAliasCycle
		}
		visited[target] = true
		current = target
	}
}

// Lookup resolves a dotted command path, following fully-resolved alias
// indirection, and returns its descriptor.
func (c *CommandCatalog) Lookup(path string) (*CommandDescriptor, bool) {
	if target, ok := c.aliases[path]; ok {
		path = target
	}
	d, ok := c.commands[path]
	return d, ok
}

// LookupByOpcode performs a linear scan for a descriptor with the given
// target opcode. Used by the debug hierarchy dump and by tests.
func (c *CommandCatalog) LookupByOpcode(opcode string) (*CommandDescriptor, bool) {
	for _, path := range c.order {
		if c.commands[path].Opcode == opcode {
			return c.commands[path], true
		}
	}
	return nil, false
}

// All returns every descriptor in deterministic, insertion order.
func (c *CommandCatalog) All() []*CommandDescriptor {
	out := make([]*CommandDescriptor, 0, len(c.order))
	for _, path := range c.order {
		out = append(out, c.commands[path])
	}
	return out
}

// Aliases returns the alias table as alias -> canonical path.
func (c *CommandCatalog) Aliases() map[string]string {
	out := make(map[string]string, len(c.aliases))
	for k, v := range c.aliases {
		out[k] = v
	}
	return out
}

// SplitSchema splits a comma-separated input schema string, e.g.
// "i.STEPS" or "f.STYLE[all around,left-right,don't rotate]", into its
// individual slot descriptors. This mirrors the reference parser's
// fill_args splitting and field-hint parsing.
func SplitSchema(schema string) []string {
	if strings.TrimSpace(schema) == "" {
		return nil
	}
	return SplitOutsideStrings(schema, ",")
}
