package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

const assignmentColumns = `id, candidate_id, assignment_text, difficulty_level,
	time_limit_hours, deadline, access_token, submission_url, status,
	final_score, accuracy_score, clarity_score, relevance_score, feedback,
	created_at, updated_at`

func scanAssignment(row pgx.Row) (*types.Assignment, error) {
	var a types.Assignment
	err := row.Scan(&a.ID, &a.CandidateID, &a.AssignmentText, &a.Difficulty,
		&a.TimeLimitHours, &a.Deadline, &a.AccessToken, &a.SubmissionURL, &a.Status,
		&a.FinalScore, &a.AccuracyScore, &a.ClarityScore, &a.RelevanceScore, &a.Feedback,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAssignment inserts a generated assignment in the pending state and
// returns its ID. The deadline is computed by the caller and immutable from
// this point on.
func (db *DB) CreateAssignment(ctx context.Context, a *types.Assignment) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO assignments (candidate_id, assignment_text, difficulty_level,
		                          time_limit_hours, deadline, access_token, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		a.CandidateID, a.AssignmentText, a.Difficulty, a.TimeLimitHours, a.Deadline,
		a.AccessToken, types.AssignmentPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create assignment: %w", err)
	}
	return id, nil
}

// GetAssignment retrieves an assignment by ID. Returns nil when not found.
func (db *DB) GetAssignment(ctx context.Context, id uuid.UUID) (*types.Assignment, error) {
	a, err := scanAssignment(db.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// GetAssignmentByToken retrieves an assignment by its access token.
// The token is the only credential required; possession grants access.
func (db *DB) GetAssignmentByToken(ctx context.Context, token string) (*types.Assignment, error) {
	a, err := scanAssignment(db.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM assignments WHERE access_token = $1`, token))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assignment by token: %w", err)
	}
	return a, nil
}

// GetAssignmentContext retrieves an assignment joined with its candidate and
// that candidate's job posting.
func (db *DB) GetAssignmentContext(ctx context.Context, id uuid.UUID) (*types.AssignmentContext, error) {
	assignment, err := db.GetAssignment(ctx, id)
	if err != nil || assignment == nil {
		return nil, err
	}

	candidateJob, err := db.GetCandidateWithJob(ctx, assignment.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidateJob == nil {
		return nil, fmt.Errorf("assignment %s references missing candidate %s", id, assignment.CandidateID)
	}

	return &types.AssignmentContext{
		Assignment: *assignment,
		Candidate:  candidateJob.Candidate,
		Job:        candidateJob.Job,
	}, nil
}

// ListAssignments retrieves assignments, optionally filtered by status.
func (db *DB) ListAssignments(ctx context.Context, status types.AssignmentStatus) ([]types.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []types.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// SetSubmission records the candidate's solution URL and moves the
// assignment to submitted.
func (db *DB) SetSubmission(ctx context.Context, id uuid.UUID, submissionURL string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE assignments
		 SET submission_url = $1, status = $2, updated_at = NOW()
		 WHERE id = $3`,
		submissionURL, types.AssignmentSubmitted, id,
	)
	if err != nil {
		return fmt.Errorf("failed to set submission: %w", err)
	}
	return nil
}

// UpdateAssignmentEvaluation persists the clamped evaluation result.
// Re-evaluations overwrite; last write wins.
func (db *DB) UpdateAssignmentEvaluation(ctx context.Context, id uuid.UUID, finalScore, accuracy, clarity, relevance int, feedback string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE assignments
		 SET final_score = $1, accuracy_score = $2, clarity_score = $3, relevance_score = $4,
		     feedback = $5, status = $6, updated_at = NOW()
		 WHERE id = $7`,
		finalScore, accuracy, clarity, relevance, feedback, types.AssignmentEvaluated, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment evaluation: %w", err)
	}
	return nil
}
