// Package errors provides centralized error handling with category and
// context metadata for the taxonomy tooling.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"runtime"
	"strings"
	"time"
)

// ErrorCategory groups errors for reporting and for callers that branch on
// failure class rather than concrete error values.
type ErrorCategory string

const (
	CategoryVersionNotFound ErrorCategory = "version-not-found"
	CategoryCorruptArtifact ErrorCategory = "corrupt-artifact"
	CategoryStoreIO         ErrorCategory = "store-io"
	CategoryValidation      ErrorCategory = "validation"
	CategoryConfiguration   ErrorCategory = "configuration"
	CategoryFileParsing     ErrorCategory = "file-parsing"
	CategoryGeneric         ErrorCategory = "generic"
)

// ComponentUnknown is used when the component cannot be determined.
const ComponentUnknown = "unknown"

// EnhancedError wraps an error with category, component and context data.
type EnhancedError struct {
	Err       error
	Category  ErrorCategory
	Context   map[string]any
	Timestamp time.Time
	component string
}

// Error implements the error interface.
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface.
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches another EnhancedError by category, and otherwise defers to the
// wrapped error chain.
func (ee *EnhancedError) Is(target error) bool {
	if other, ok := target.(*EnhancedError); ok {
		return ee.Category == other.Category
	}
	return stderrors.Is(ee.Err, target)
}

// GetComponent returns the component name recorded at build time.
func (ee *EnhancedError) GetComponent() string {
	if ee.component == "" {
		return ComponentUnknown
	}
	return ee.component
}

// GetContext returns a copy of the context data.
func (ee *EnhancedError) GetContext() map[string]any {
	if ee.Context == nil {
		return nil
	}
	out := make(map[string]any, len(ee.Context))
	maps.Copy(out, ee.Context)
	return out
}

// Builder provides a fluent interface for creating enhanced errors.
type Builder struct {
	err       error
	category  ErrorCategory
	component string
	context   map[string]any
}

// New starts a builder around an existing error.
func New(err error) *Builder {
	return &Builder{err: err}
}

// Newf starts a builder around a formatted error.
func Newf(format string, args ...any) *Builder {
	return New(fmt.Errorf(format, args...))
}

// Category sets the error category.
func (b *Builder) Category(category ErrorCategory) *Builder {
	b.category = category
	return b
}

// Component sets the component name; when unset it is detected from the
// caller's package path at Build time.
func (b *Builder) Component(component string) *Builder {
	b.component = component
	return b
}

// Context attaches one key/value pair of context data.
func (b *Builder) Context(key string, value any) *Builder {
	if b.context == nil {
		b.context = make(map[string]any)
	}
	b.context[key] = value
	return b
}

// Build finalizes the enhanced error.
func (b *Builder) Build() error {
	category := b.category
	if category == "" {
		category = CategoryGeneric
	}
	component := b.component
	if component == "" {
		component = detectComponent()
	}
	return &EnhancedError{
		Err:       b.err,
		Category:  category,
		Context:   b.context,
		Timestamp: time.Now(),
		component: component,
	}
}

// detectComponent walks the call stack for the first frame inside this
// module but outside this package, and reports its package name.
func detectComponent() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fn := frame.Function
		if fn != "" && !strings.Contains(fn, "/internal/errors.") {
			if idx := strings.Index(fn, "/internal/"); idx >= 0 {
				rest := fn[idx+len("/internal/"):]
				if dot := strings.IndexByte(rest, '.'); dot >= 0 {
					return rest[:dot]
				}
			}
		}
		if !more {
			return ComponentUnknown
		}
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// HasCategory reports whether err carries the given category anywhere in
// its chain.
func HasCategory(err error, category ErrorCategory) bool {
	var ee *EnhancedError
	if stderrors.As(err, &ee) {
		return ee.Category == category
	}
	return false
}

// IsVersionNotFound reports whether err represents a missing version label.
func IsVersionNotFound(err error) bool {
	return HasCategory(err, CategoryVersionNotFound)
}
