// Package lifecycle defines the candidate and assignment state machines and
// guards every status transition the pipeline performs.
package lifecycle

import (
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// candidateGraph enumerates the legal candidate-level transitions.
// Not Shortlisted and Ranked are terminal.
var candidateGraph = map[types.CandidateStatus][]types.CandidateStatus{
	types.StatusApplied: {
		types.StatusShortlisted,
		types.StatusNotShortlisted,
	},
	types.StatusShortlisted: {
		types.StatusInterview,
		types.StatusNotShortlisted,
	},
	types.StatusInterview: {
		types.StatusRanked,
	},
}

// assignmentGraph enumerates the legal assignment sub-state transitions.
var assignmentGraph = map[types.AssignmentStatus][]types.AssignmentStatus{
	types.AssignmentPending:   {types.AssignmentSubmitted},
	types.AssignmentSubmitted: {types.AssignmentEvaluated},
	// Re-evaluation is a deliberate HR action, so an evaluated assignment
	// may be evaluated again (last write wins).
	types.AssignmentEvaluated: {types.AssignmentEvaluated},
}

// CanTransitionCandidate reports whether a candidate may move from one
// status to another.
func CanTransitionCandidate(from, to types.CandidateStatus) bool {
	for _, next := range candidateGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionAssignment reports whether an assignment may move from one
// status to another.
func CanTransitionAssignment(from, to types.AssignmentStatus) bool {
	for _, next := range assignmentGraph[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionCandidate validates and returns the new candidate status.
// It fails with an IllegalTransitionError when the move is not in the graph.
func TransitionCandidate(from, to types.CandidateStatus) (types.CandidateStatus, error) {
	if !CanTransitionCandidate(from, to) {
		return from, &IllegalTransitionError{Entity: "candidate", From: string(from), To: string(to)}
	}
	return to, nil
}

// TransitionAssignment validates and returns the new assignment status.
func TransitionAssignment(from, to types.AssignmentStatus) (types.AssignmentStatus, error) {
	if !CanTransitionAssignment(from, to) {
		return from, &IllegalTransitionError{Entity: "assignment", From: string(from), To: string(to)}
	}
	return to, nil
}

// IsTerminalCandidate reports whether no further transitions exist for the status.
func IsTerminalCandidate(status types.CandidateStatus) bool {
	return len(candidateGraph[status]) == 0
}

// ShortlistOutcome maps a clamped résumé score to the post-evaluation status.
func ShortlistOutcome(score int, threshold int) types.CandidateStatus {
	if score >= threshold {
		return types.StatusShortlisted
	}
	return types.StatusNotShortlisted
}

// SubmissionOutcome maps a clamped submission score to the post-evaluation
// candidate status.
func SubmissionOutcome(score int, threshold int) types.CandidateStatus {
	if score >= threshold {
		return types.StatusInterview
	}
	return types.StatusNotShortlisted
}
