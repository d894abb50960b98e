package domain

import (
	"errors"  // Sentinel errors
	"fmt"     // Wrapped sentinels
	"sort"    // Stable field ordering in messages
	"strings" // Message joining
)

var (
	// ErrNotFound is returned when a lookup matches no row
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write collides with a unique key or a held resource
	ErrConflict = errors.New("record conflicts with existing data")

	// ErrCopyNotFound is returned when a reservation names a missing book copy
	ErrCopyNotFound = fmt.Errorf("book copy: %w", ErrNotFound)
	// ErrCopyUnavailable is returned when a book copy is already reserved or borrowed
	ErrCopyUnavailable = fmt.Errorf("book copy is not available: %w", ErrConflict)
)

// ValidationError carries field-level messages for malformed or missing input
type ValidationError struct {
	Message string            // Summary shown to the client
	Fields  map[string]string // Field name to message
}

// NewValidationError builds a ValidationError for a single field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Message: message, Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message // No per-field detail
	}
	// Sort field names so the message is deterministic
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

// IsValidation reports whether err wraps a ValidationError
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
