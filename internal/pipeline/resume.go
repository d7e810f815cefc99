package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/extraction"
	"github.com/jonathan/hiring-pipeline/internal/lifecycle"
	"github.com/jonathan/hiring-pipeline/internal/llm"
	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/prompts"
	"github.com/jonathan/hiring-pipeline/internal/scoring"
	"github.com/jonathan/hiring-pipeline/internal/storage"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// noKeywordFeedback is the canned explanation stored when the keyword
// pre-filter short-circuits an evaluation.
const noKeywordFeedback = "The résumé contains none of the technical vocabulary expected for this role family. " +
	"It was not forwarded to detailed scoring. If you believe this is an error, " +
	"please re-apply with a résumé that describes your relevant technical experience."

// ResumeResult is the outcome of a résumé evaluation.
type ResumeResult struct {
	Score    int
	Status   types.CandidateStatus
	Feedback string
	// Assignment is set when the candidate was shortlisted and assignment
	// creation succeeded.
	Assignment *types.Assignment
	// AssignmentErr reports an assignment-creation failure after the résumé
	// decision was already durably persisted. The résumé score is never
	// rolled back; the caller must surface the anomaly.
	AssignmentErr error
	// UsedFallback reports that the oracle response was malformed and the
	// documented fallback score was persisted.
	UsedFallback bool
}

// ResumeEvaluator orchestrates extraction, oracle scoring, and the
// resulting candidate status transition.
type ResumeEvaluator struct {
	store       Store
	blobs       storage.BlobStore
	extractor   *extraction.Extractor
	oracle      llm.Client
	assignments *AssignmentPolicy
	tracer      *observability.Tracer
}

// NewResumeEvaluator creates a ResumeEvaluator.
func NewResumeEvaluator(store Store, blobs storage.BlobStore, extractor *extraction.Extractor, oracle llm.Client, assignments *AssignmentPolicy, tracer *observability.Tracer) *ResumeEvaluator {
	return &ResumeEvaluator{
		store:       store,
		blobs:       blobs,
		extractor:   extractor,
		oracle:      oracle,
		assignments: assignments,
		tracer:      tracer,
	}
}

// Evaluate scores a candidate's résumé against their job posting and
// transitions the candidate to Shortlisted or Not Shortlisted. Extraction
// failure aborts with no status mutation. A shortlisted candidate gets an
// assignment as a continuation; its failure is reported, not rolled back.
func (e *ResumeEvaluator) Evaluate(ctx context.Context, candidateID uuid.UUID) (*ResumeResult, error) {
	cj, err := e.store.GetCandidateWithJob(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if cj == nil {
		return nil, &NotFoundError{Entity: "candidate", ID: candidateID.String()}
	}
	candidate := cj.Candidate

	if candidate.Status != types.StatusApplied {
		return nil, &PreconditionError{
			Message: fmt.Sprintf("candidate %s is %q, résumé evaluation requires %q", candidate.ID, candidate.Status, types.StatusApplied),
		}
	}
	if candidate.ResumePath == "" {
		return nil, &PreconditionError{Message: fmt.Sprintf("candidate %s has no résumé on file", candidate.ID)}
	}

	blob, err := e.blobs.Download(ctx, candidate.ResumePath)
	if err != nil {
		return nil, err
	}

	// Fatal on failure: the candidate stays in the prior state for retry.
	resumeText, err := e.extractor.Extract(ctx, blob.Data, blob.MIMEType)
	if err != nil {
		return nil, err
	}

	// Cheap pre-filter: a résumé with zero role-relevant keywords never
	// reaches the oracle.
	roleFamily := ResolveRoleCategory(candidate.Role, cj.Job)
	if CountRoleKeywords(resumeText, roleFamily) == 0 {
		e.tracer.Event("resume_prefilter_rejected", candidate.ID.String(), map[string]any{
			"role_family": roleFamily,
		})
		return e.persistDecision(ctx, cj, 0, noKeywordFeedback, false)
	}

	prompt := e.buildPrompt(&candidate, cj.Job, resumeText)
	raw, err := e.oracle.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	parsed, usedFallback := scoring.ParseResumeScore(raw)
	if usedFallback {
		e.tracer.Event("resume_score_fallback", candidate.ID.String(), map[string]any{
			"raw_length": len(raw),
		})
	}

	score := scoring.ClampInt(parsed.Total, scoring.ResumeScoreMax)
	feedback := formatResumeFeedback(parsed, usedFallback)
	return e.persistDecision(ctx, cj, score, feedback, usedFallback)
}

// persistDecision writes the score and status, then runs the shortlist
// continuation.
func (e *ResumeEvaluator) persistDecision(ctx context.Context, cj *types.CandidateJob, score int, feedback string, usedFallback bool) (*ResumeResult, error) {
	candidate := cj.Candidate

	status := lifecycle.ShortlistOutcome(score, scoring.ShortlistThreshold)
	newStatus, err := lifecycle.TransitionCandidate(candidate.Status, status)
	if err != nil {
		return nil, err
	}

	if err := e.store.UpdateResumeEvaluation(ctx, candidate.ID, score, feedback, newStatus); err != nil {
		return nil, &PersistenceError{Message: "failed to save résumé evaluation", Cause: err}
	}

	e.tracer.Event("resume_evaluated", candidate.ID.String(), map[string]any{
		"score":    score,
		"status":   newStatus,
		"fallback": usedFallback,
	})

	result := &ResumeResult{
		Score:        score,
		Status:       newStatus,
		Feedback:     feedback,
		UsedFallback: usedFallback,
	}

	if newStatus == types.StatusShortlisted {
		// The shortlist decision above is already durable; a failure here
		// leaves a shortlisted candidate without an assignment, which is a
		// recoverable, reportable state.
		shortlisted := *cj
		shortlisted.Candidate.Status = newStatus
		assignment, aErr := e.assignments.Create(ctx, &shortlisted)
		if aErr != nil {
			e.tracer.Event("assignment_creation_failed", candidate.ID.String(), map[string]any{
				"error": aErr.Error(),
			})
			result.AssignmentErr = aErr
		} else {
			result.Assignment = assignment
		}
	}

	return result, nil
}

func (e *ResumeEvaluator) buildPrompt(candidate *types.Candidate, job *types.Job, resumeText string) string {
	jobTitle := candidate.Role
	jobDescription := "Not specified"
	jobRequirements := "Not specified"
	skills := "Not specified"
	requiredExperience := candidate.Experience
	if job != nil {
		jobTitle = job.Title
		jobDescription = job.Description
		jobRequirements = job.Requirements
		if len(job.SkillsRequired) > 0 {
			skills = strings.Join(job.SkillsRequired, ", ")
		}
		requiredExperience = job.ExperienceRequired
	}

	template := prompts.MustGet("resume.json", "score-resume")
	return prompts.Format(template, map[string]string{
		"JobTitle":            jobTitle,
		"Role":                candidate.Role,
		"JobDescription":      jobDescription,
		"JobRequirements":     jobRequirements,
		"SkillsRequired":      skills,
		"ExperienceRequired":  fmt.Sprintf("%d", requiredExperience),
		"CandidateExperience": fmt.Sprintf("%d", candidate.Experience),
		"ResumeText":          resumeText,
	})
}
