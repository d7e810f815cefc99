package llm

import "fmt"

// UnavailableKind classifies why the provider refused a request.
type UnavailableKind int

// Provider failure classes.
const (
	KindTransient UnavailableKind = iota
	KindRateLimit
	KindQuota
)

// UnavailableError represents a retryable provider failure (rate limit,
// quota exhaustion, transient transport errors). Callers surface it
// distinctly from hard failures; nothing in this layer retries.
type UnavailableError struct {
	Kind   UnavailableKind
	Reason string
	Cause  error
}

func (e *UnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("oracle unavailable: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("oracle unavailable: %s", e.Reason)
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}
