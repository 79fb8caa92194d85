package usecases

import "github.com/madstone-tech/katnipc/internal/core/entities"

// ErrorReporter accumulates CompileErrors for a single phase of a single
// compilation. Each phase owns its own reporter instance and flushes it at
// the phase boundary: if any errors were accumulated, the phase aborts and
// returns them instead of handing incomplete data to the next phase. This
// mirrors the reference implementation's module-global error list, scoped
// down to one instance per compilation per the no-shared-mutable-state rule.
type ErrorReporter struct {
	errors entities.CompileErrors
	sprite string
}

// NewErrorReporter returns a reporter scoped to the given sprite name (used
// to tag every error it accumulates); pass "" for sprite-agnostic phases.
func NewErrorReporter(sprite string) *ErrorReporter {
	return &ErrorReporter{sprite: sprite}
}

// Add records a new error.
func (r *ErrorReporter) Add(kind entities.ErrorKind, message, fragment string, line int) {
	r.errors.AddSprite(r.sprite, kind, message, fragment, line)
}

// HasErrors reports whether any errors have been accumulated.
func (r *ErrorReporter) HasErrors() bool { return r.errors.HasErrors() }

// Errors returns the accumulated errors.
func (r *ErrorReporter) Errors() entities.CompileErrors { return r.errors }

// Merge appends another reporter's errors into this one.
func (r *ErrorReporter) Merge(other *ErrorReporter) {
	if other == nil {
		return
	}
	r.errors = append(r.errors, other.errors...)
}
