package types

// CandidateStatus is the candidate-level lifecycle state.
type CandidateStatus string

// Candidate lifecycle states. NotShortlisted and Ranked are terminal.
const (
	StatusApplied        CandidateStatus = "Applied"
	StatusShortlisted    CandidateStatus = "Shortlisted"
	StatusNotShortlisted CandidateStatus = "Not Shortlisted"
	StatusInterview      CandidateStatus = "Interview"
	StatusRanked         CandidateStatus = "Ranked"
)

// AssignmentStatus is the assignment-scoped sub-state, parallel to the
// candidate lifecycle.
type AssignmentStatus string

// Assignment states.
const (
	AssignmentPending   AssignmentStatus = "pending"
	AssignmentSubmitted AssignmentStatus = "submitted"
	AssignmentEvaluated AssignmentStatus = "evaluated"
	AssignmentPassed    AssignmentStatus = "passed"
	AssignmentFailed    AssignmentStatus = "failed"
)
