// internal/errors/errors.go
package appErrors

import "fmt"

// ValidationError is reported before any side effect occurs.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Helper constructor
func NewValidation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError is a sentinel error for missing entities
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Entity, e.ID)
}

func NewNotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// CategoryInUseError reports an attempt to delete a category still
// referenced by partners. Reported, never silently cascaded.
type CategoryInUseError struct {
	Kind  string
	ID    int64
	Count int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("%s %d is still assigned to %d partner(s)", e.Kind, e.ID, e.Count)
}

// TransportError wraps a per-recipient send failure. Recorded on the
// send record, never escalated to abort a batch.
type TransportError struct {
	Reason string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.Reason, e.Err)
	}
	return "transport: " + e.Reason
}

func (e *TransportError) Unwrap() error { return e.Err }
