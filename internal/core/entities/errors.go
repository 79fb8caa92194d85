// Package entities contains the domain entities for katnipc: the compiler
// from Katnip source to the block-project bundle format. These are pure Go
// structs with validation logic and zero external dependencies.
package entities

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind enumerates the stable compile-error taxonomy. Kinds are part of
// the command-line and log output contract: scripts grep for them.
type ErrorKind string

const (
	KindSyntaxError             ErrorKind = "syntax_error"
	KindUnknownCommand          ErrorKind = "unknown_command"
	KindArgCountMismatch        ErrorKind = "arg_count_mismatch"
	KindArgKindMismatch         ErrorKind = "arg_kind_mismatch"
	KindInvalidFieldChoice      ErrorKind = "invalid_field_choice"
	KindUndefinedProcedure      ErrorKind = "undefined_procedure"
	KindInvalidProcedureHeader  ErrorKind = "invalid_procedure_header"
	KindUnsupportedAsset        ErrorKind = "unsupported_asset"
	KindMacroExpansionError     ErrorKind = "macro_expansion_error"
	KindAliasCollision          ErrorKind = "alias_collision"
)

// CompileError is a single error raised during one phase of compilation.
// SourceFragment and Line are best-effort: phases that operate on already
// tokenized or already parsed data may not always have precise line info.
type CompileError struct {
	Kind           ErrorKind
	Message        string
	SourceFragment string
	Line           int
	Sprite         string
}

func (e *CompileError) Error() string {
	loc := ""
	if e.Sprite != "" {
		loc = e.Sprite + ":"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s%d: ", loc, e.Line)
	}
	if e.SourceFragment != "" {
		return fmt.Sprintf("%s[%s] %s (in %q)", loc, e.Kind, e.Message, e.SourceFragment)
	}
	return fmt.Sprintf("%s[%s] %s", loc, e.Kind, e.Message)
}

// NewCompileError builds a CompileError.
func NewCompileError(kind ErrorKind, message, fragment string, line int) *CompileError {
	if len(fragment) > 80 {
		fragment = fragment[:77] + "..."
	}
	return &CompileError{Kind: kind, Message: message, SourceFragment: fragment, Line: line}
}

// CompileErrors is an ordered collection of CompileError, accumulated by an
// ErrorReporter over the course of a single phase or a single compilation.
type CompileErrors []*CompileError

func (ce CompileErrors) Error() string {
	if len(ce) == 0 {
		return "no compile errors"
	}
	if len(ce) == 1 {
		return ce[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d compile errors:\n", len(ce))
	for i, err := range ce {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, err.Error())
	}
	return b.String()
}

// HasErrors reports whether any errors were accumulated.
func (ce CompileErrors) HasErrors() bool { return len(ce) > 0 }

// Add appends a new error to the collection.
func (ce *CompileErrors) Add(kind ErrorKind, message, fragment string, line int) {
	*ce = append(*ce, NewCompileError(kind, message, fragment, line))
}

// AddSprite appends a new error tagged with the sprite it occurred in.
func (ce *CompileErrors) AddSprite(sprite string, kind ErrorKind, message, fragment string, line int) {
	err := NewCompileError(kind, message, fragment, line)
	err.Sprite = sprite
	*ce = append(*ce, err)
}

// Common construction-time / lookup errors, analogous in shape to the
// reference implementation's sentinel errors but scoped to catalog and
// symbol-table bookkeeping rather than validation of user-facing entities.
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrInvalidName      = errors.New("name contains invalid characters")
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrCommandNotFound   = errors.New("command not found in catalog")
	ErrAliasCollision    = errors.New("alias collides with an existing catalog entry")
	ErrAliasCycle        = errors.New("alias chain forms a cycle")
	ErrMacroDepthExceeded = errors.New("macro expansion exceeded maximum recursion depth")
)

// NotFoundError represents a lookup failure against a named collection
// (catalog entries, variables, procedures, sprites).
type NotFoundError struct {
	Entity string
	ID     string
	Parent string
}

func (e *NotFoundError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("%s %q not found in %s", e.Entity, e.ID, e.Parent)
	}
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// DuplicateError represents a redeclaration of a named entity where only one
// is permitted (a procedure defined twice, a catalog alias reused).
type DuplicateError struct {
	Entity string
	ID     string
	Parent string
}

func (e *DuplicateError) Error() string {
	if e.Parent != "" {
		return fmt.Sprintf("%s %q already exists in %s", e.Entity, e.ID, e.Parent)
	}
	return fmt.Sprintf("%s %q already exists", e.Entity, e.ID)
}
