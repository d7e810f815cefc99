package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/hiring-pipeline/internal/llm"
	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/prompts"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// Difficulty tier time limits in hours.
const (
	juniorTimeLimitHours = 48
	midTimeLimitHours    = 72
	seniorTimeLimitHours = 96
)

// minAssignmentChars is the floor below which generated assignment text is
// treated as unusable and the assignment is not created.
const minAssignmentChars = 200

// DifficultyForExperience maps years of experience to a difficulty tier and
// time limit. Boundaries at exactly 2 and exactly 5 are inclusive toward
// the higher tier.
func DifficultyForExperience(years float64) (types.Difficulty, int) {
	switch {
	case years < 2:
		return types.DifficultyJunior, juniorTimeLimitHours
	case years < 5:
		return types.DifficultyMid, midTimeLimitHours
	default:
		return types.DifficultySenior, seniorTimeLimitHours
	}
}

// AssignmentPolicy creates assignments for shortlisted candidates:
// deterministic difficulty and deadline selection locally, assignment text
// from the generation oracle.
type AssignmentPolicy struct {
	store  Store
	oracle llm.Client
	tracer *observability.Tracer
	now    func() time.Time
}

// NewAssignmentPolicy creates an AssignmentPolicy.
func NewAssignmentPolicy(store Store, oracle llm.Client, tracer *observability.Tracer) *AssignmentPolicy {
	return &AssignmentPolicy{
		store:  store,
		oracle: oracle,
		tracer: tracer,
		now:    time.Now,
	}
}

// Create generates and persists an assignment for a shortlisted candidate.
// If the generation oracle fails or returns unusable content, no assignment
// is created and the error is surfaced: a shortlisted candidate with no
// assignment is a reportable anomaly, never a silent success.
func (p *AssignmentPolicy) Create(ctx context.Context, cj *types.CandidateJob) (*types.Assignment, error) {
	candidate := cj.Candidate
	if candidate.Status != types.StatusShortlisted {
		return nil, &PreconditionError{
			Message: fmt.Sprintf("candidate %s is %q, assignment requires %q", candidate.ID, candidate.Status, types.StatusShortlisted),
		}
	}

	difficulty, timeLimit := DifficultyForExperience(float64(candidate.Experience))

	token, err := NewAccessToken()
	if err != nil {
		return nil, err
	}

	createdAt := p.now()
	deadline := createdAt.Add(time.Duration(timeLimit) * time.Hour)

	text, err := p.generateText(ctx, &candidate, cj.Job, difficulty, timeLimit)
	if err != nil {
		return nil, err
	}

	assignment := &types.Assignment{
		CandidateID:    candidate.ID,
		AssignmentText: text,
		Difficulty:     difficulty,
		TimeLimitHours: timeLimit,
		Deadline:       deadline,
		AccessToken:    token,
		Status:         types.AssignmentPending,
		CreatedAt:      createdAt,
	}

	id, err := p.store.CreateAssignment(ctx, assignment)
	if err != nil {
		return nil, &PersistenceError{Message: "failed to save assignment", Cause: err}
	}
	assignment.ID = id

	p.tracer.Event("assignment_created", candidate.ID.String(), map[string]any{
		"assignment_id": id.String(),
		"difficulty":    difficulty,
		"time_limit_h":  timeLimit,
		"deadline":      deadline.UTC().Format(time.RFC3339),
	})
	return assignment, nil
}

func (p *AssignmentPolicy) generateText(ctx context.Context, candidate *types.Candidate, job *types.Job, difficulty types.Difficulty, timeLimit int) (string, error) {
	jobTitle := candidate.Role
	skills := "core technical skills for the role"
	if job != nil {
		jobTitle = job.Title
		if len(job.SkillsRequired) > 0 {
			skills = strings.Join(job.SkillsRequired, ", ")
		}
	}

	template := prompts.MustGet("assignment.json", "generate-assignment")
	prompt := prompts.Format(template, map[string]string{
		"Role":           candidate.Role,
		"JobTitle":       jobTitle,
		"Difficulty":     string(difficulty),
		"TimeLimitHours": fmt.Sprintf("%d", timeLimit),
		"SkillsRequired": skills,
	})

	text, err := p.oracle.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", fmt.Errorf("assignment generation failed: %w", err)
	}

	text = strings.TrimSpace(text)
	if len(text) < minAssignmentChars {
		return "", fmt.Errorf("assignment generation returned unusable content (%d characters)", len(text))
	}
	return text, nil
}
