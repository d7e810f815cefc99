package pipeline

import "fmt"

// NotFoundError indicates a candidate, assignment, or job reference did not
// resolve. Fatal to the current operation; surfaced verbatim.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// PreconditionError indicates an operation was invoked against an entity in
// the wrong state, such as evaluating a submission with no submission URL.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed: %s", e.Message)
}

// PersistenceError indicates a store write failed after a score was
// computed. The computed result is lost from the caller's perspective;
// there is no durable queue or retry in this core.
type PersistenceError struct {
	Message string
	Cause   error
}

func (e *PersistenceError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("persistence error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("persistence error: %s", e.Message)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}
