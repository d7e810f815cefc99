package extraction

import "fmt"

// ExtractionError represents a failure to obtain usable text from a
// document. It is fatal to the evaluation that requested it; no candidate
// state is mutated when extraction fails.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction error: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
