// Package schema implements payload and response validation as values
// rather than control flow: rules accumulate into a FieldErrors map and
// routine invalid input surfaces as a *ValidationError a caller can branch
// on, field by field.
package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FieldErrors maps a field name to its human-readable problem.
type FieldErrors map[string]string

// Err returns a *ValidationError when any rule failed, nil otherwise.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}

// ValidationError is the tagged result of a failed validation, kept
// type-distinguishable from transport errors so stores only need to
// produce a message, never structured recovery.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// First returns one failing field's message, for single-line display.
func (e *ValidationError) First() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) == 0 {
		return "validation failed"
	}
	return e.Fields[names[0]]
}

// Rule helpers. Each records at most one problem per field; the first
// failure wins so later rules do not overwrite a more specific message.

func (f FieldErrors) set(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}

func (f FieldErrors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.set(field, field+" is required")
	}
}

func (f FieldErrors) MinLen(field, value string, n int) {
	if len(value) < n {
		f.set(field, fmt.Sprintf("%s must be at least %d characters", field, n))
	}
}

func (f FieldErrors) Email(field, value string) {
	v := strings.TrimSpace(value)
	if v == "" {
		f.set(field, field+" is required")
		return
	}
	at := strings.Index(v, "@")
	if at <= 0 || at == len(v)-1 || !strings.Contains(v[at:], ".") {
		f.set(field, "invalid email address")
	}
}

func (f FieldErrors) OneOf(field, value string, allowed ...string) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	f.set(field, fmt.Sprintf("%s must be one of %s", field, strings.Join(allowed, ", ")))
}

func (f FieldErrors) UUID(field, value string) {
	if _, err := uuid.Parse(value); err != nil {
		f.set(field, field+" must be a valid UUID")
	}
}

func (f FieldErrors) NotZeroTime(field string, value time.Time) {
	if value.IsZero() {
		f.set(field, field+" is required")
	}
}

func (f FieldErrors) Min(field string, value, min int) {
	if value < min {
		f.set(field, fmt.Sprintf("%s must be at least %d", field, min))
	}
}

func (f FieldErrors) Range(field string, value, min, max int) {
	if value < min || value > max {
		f.set(field, fmt.Sprintf("%s must be between %d and %d", field, min, max))
	}
}

func (f FieldErrors) FloatRange(field string, value, min, max float64) {
	if value < min || value > max {
		f.set(field, fmt.Sprintf("%s must be between %g and %g", field, min, max))
	}
}

// IsValidationError reports whether err (or anything it wraps) is a
// *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
