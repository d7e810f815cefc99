package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

const candidateColumns = `id, name, email, role, experience, resume_path,
	resume_score, resume_feedback, status, job_id, created_at, updated_at`

func scanCandidate(row pgx.Row) (*types.Candidate, error) {
	var c types.Candidate
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Role, &c.Experience, &c.ResumePath,
		&c.ResumeScore, &c.ResumeFeedback, &c.Status, &c.JobID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCandidate inserts a new candidate in the Applied state and returns its ID
func (db *DB) CreateCandidate(ctx context.Context, c *types.Candidate) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (name, email, role, experience, resume_path, status, job_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		c.Name, c.Email, c.Role, c.Experience, c.ResumePath, types.StatusApplied, c.JobID,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return id, nil
}

// GetCandidate retrieves a candidate by ID. Returns nil when not found.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	c, err := scanCandidate(db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// GetCandidateWithJob retrieves a candidate joined with its job posting.
// The job is nil when the candidate applied without a posting reference.
func (db *DB) GetCandidateWithJob(ctx context.Context, id uuid.UUID) (*types.CandidateJob, error) {
	candidate, err := db.GetCandidate(ctx, id)
	if err != nil || candidate == nil {
		return nil, err
	}

	result := &types.CandidateJob{Candidate: *candidate}
	if candidate.JobID != nil {
		job, err := db.GetJob(ctx, *candidate.JobID)
		if err != nil {
			return nil, err
		}
		result.Job = job
	}
	return result, nil
}

// ListCandidates retrieves candidates, optionally filtered by status.
func (db *DB) ListCandidates(ctx context.Context, status types.CandidateStatus) ([]types.Candidate, error) {
	query := `SELECT ` + candidateColumns + ` FROM candidates`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []types.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, *c)
	}
	return candidates, rows.Err()
}

// UpdateResumeEvaluation persists the résumé score, feedback, and resulting
// status in a single write so the shortlist decision is durable before any
// continuation runs.
func (db *DB) UpdateResumeEvaluation(ctx context.Context, id uuid.UUID, score int, feedback string, status types.CandidateStatus) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE candidates
		 SET resume_score = $1, resume_feedback = $2, status = $3, updated_at = NOW()
		 WHERE id = $4`,
		score, feedback, status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume evaluation: %w", err)
	}
	return nil
}

// UpdateCandidateStatus sets the candidate lifecycle status
func (db *DB) UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status types.CandidateStatus) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE candidates SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update candidate status: %w", err)
	}
	return nil
}
