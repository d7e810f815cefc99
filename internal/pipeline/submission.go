package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/lifecycle"
	"github.com/jonathan/hiring-pipeline/internal/llm"
	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/prompts"
	"github.com/jonathan/hiring-pipeline/internal/scoring"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// PageFetcher provides best-effort submission page context for the
// evaluation prompt.
type PageFetcher interface {
	SubmissionContext(ctx context.Context, url string) (string, error)
}

// SubmissionResult is the outcome of a submission evaluation.
type SubmissionResult struct {
	Score           int
	Passed          bool
	Status          types.AssignmentStatus
	CandidateStatus types.CandidateStatus
	Feedback        string
	UsedFallback    bool
}

// SubmissionEvaluator orchestrates rubric scoring of a submitted solution
// and the resulting assignment and candidate status transitions.
type SubmissionEvaluator struct {
	store  Store
	oracle llm.Client
	pages  PageFetcher
	tracer *observability.Tracer
}

// NewSubmissionEvaluator creates a SubmissionEvaluator. pages may be nil to
// skip page-context fetching.
func NewSubmissionEvaluator(store Store, oracle llm.Client, pages PageFetcher, tracer *observability.Tracer) *SubmissionEvaluator {
	return &SubmissionEvaluator{
		store:  store,
		oracle: oracle,
		pages:  pages,
		tracer: tracer,
	}
}

// Evaluate scores a submitted assignment and transitions the candidate to
// Interview or Not Shortlisted. Re-evaluating the same assignment with the
// same oracle response is idempotent; last write wins.
func (e *SubmissionEvaluator) Evaluate(ctx context.Context, assignmentID uuid.UUID) (*SubmissionResult, error) {
	ac, err := e.store.GetAssignmentContext(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if ac == nil {
		return nil, &NotFoundError{Entity: "assignment", ID: assignmentID.String()}
	}
	assignment := ac.Assignment

	if assignment.SubmissionURL == nil || *assignment.SubmissionURL == "" {
		return nil, &PreconditionError{Message: fmt.Sprintf("assignment %s has no submission URL", assignment.ID)}
	}
	if _, err := lifecycle.TransitionAssignment(assignment.Status, types.AssignmentEvaluated); err != nil {
		return nil, &PreconditionError{Message: err.Error()}
	}

	pageContext := e.fetchPageContext(ctx, assignment.ID, *assignment.SubmissionURL)

	prompt := e.buildPrompt(&ac.Assignment, &ac.Candidate, ac.Job, pageContext)
	raw, err := e.oracle.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	parsed, usedFallback := scoring.ParseSubmissionScore(raw)
	if usedFallback {
		e.tracer.Event("submission_score_fallback", assignment.ID.String(), map[string]any{
			"raw_length": len(raw),
		})
	}

	finalScore := scoring.ClampInt(parsed.Total, scoring.SubmissionScoreMax)
	passed := finalScore >= scoring.PassThreshold
	feedback := formatSubmissionFeedback(parsed, finalScore, passed, usedFallback)

	// The three legacy sub-score slots carry the top rubric categories.
	accuracy := scoring.ClampInt(parsed.Correctness, scoring.RubricCorrectnessMax)
	clarity := scoring.ClampInt(parsed.CodeQuality, scoring.RubricCodeQualityMax)
	relevance := scoring.ClampInt(parsed.ProblemSolving, scoring.RubricProblemSolvingMax)

	if err := e.store.UpdateAssignmentEvaluation(ctx, assignment.ID, finalScore, accuracy, clarity, relevance, feedback); err != nil {
		return nil, &PersistenceError{Message: "failed to save submission evaluation", Cause: err}
	}

	candidateStatus, err := e.transitionCandidate(ctx, &ac.Candidate, finalScore)
	if err != nil {
		return nil, err
	}

	e.tracer.Event("submission_evaluated", assignment.ID.String(), map[string]any{
		"candidate_id": ac.Candidate.ID.String(),
		"score":        finalScore,
		"passed":       passed,
		"fallback":     usedFallback,
	})

	return &SubmissionResult{
		Score:           finalScore,
		Passed:          passed,
		Status:          types.AssignmentEvaluated,
		CandidateStatus: candidateStatus,
		Feedback:        feedback,
		UsedFallback:    usedFallback,
	}, nil
}

// transitionCandidate applies the pass/fail outcome to the candidate. On
// re-evaluation the candidate may already carry the outcome status (no-op)
// or sit in a state the outcome cannot legally reach; the latter keeps the
// current status and traces the skip rather than violating the lifecycle.
func (e *SubmissionEvaluator) transitionCandidate(ctx context.Context, candidate *types.Candidate, finalScore int) (types.CandidateStatus, error) {
	outcome := lifecycle.SubmissionOutcome(finalScore, scoring.PassThreshold)
	if outcome == candidate.Status {
		return outcome, nil
	}
	if !lifecycle.CanTransitionCandidate(candidate.Status, outcome) {
		e.tracer.Event("candidate_transition_skipped", candidate.ID.String(), map[string]any{
			"from": candidate.Status,
			"to":   outcome,
		})
		return candidate.Status, nil
	}
	if err := e.store.UpdateCandidateStatus(ctx, candidate.ID, outcome); err != nil {
		return candidate.Status, &PersistenceError{Message: "failed to update candidate status", Cause: err}
	}
	return outcome, nil
}

func (e *SubmissionEvaluator) fetchPageContext(ctx context.Context, assignmentID uuid.UUID, url string) string {
	if e.pages == nil {
		return ""
	}
	snippet, err := e.pages.SubmissionContext(ctx, url)
	if err != nil {
		e.tracer.Event("submission_page_fetch_failed", assignmentID.String(), map[string]any{
			"error": err.Error(),
		})
		return ""
	}
	return snippet
}

func (e *SubmissionEvaluator) buildPrompt(assignment *types.Assignment, candidate *types.Candidate, job *types.Job, pageContext string) string {
	jobTitle := candidate.Role
	skills := "Not specified"
	if job != nil {
		jobTitle = job.Title
		if len(job.SkillsRequired) > 0 {
			skills = strings.Join(job.SkillsRequired, ", ")
		}
	}

	contextBlock := ""
	if pageContext != "" {
		contextBlock = "\nFETCHED PAGE CONTEXT:\n" + pageContext + "\n"
	}

	template := prompts.MustGet("submission.json", "evaluate-submission")
	return prompts.Format(template, map[string]string{
		"AssignmentText": assignment.AssignmentText,
		"SubmissionURL":  *assignment.SubmissionURL,
		"PageContext":    contextBlock,
		"Experience":     fmt.Sprintf("%d", candidate.Experience),
		"Role":           candidate.Role,
		"Difficulty":     string(assignment.Difficulty),
		"JobTitle":       jobTitle,
		"SkillsRequired": skills,
	})
}
