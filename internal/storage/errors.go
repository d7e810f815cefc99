package storage

import "fmt"

// NotFoundError indicates a blob reference does not resolve.
type NotFoundError struct {
	Ref string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("blob not found: %s", e.Ref)
}
