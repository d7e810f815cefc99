package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// CreateJob inserts a new job posting and returns its ID
func (db *DB) CreateJob(ctx context.Context, job *types.Job) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, role, description, requirements, skills_required, experience_required, status)
		 VALUES ($1, $2, $3, $4, $5, $6, 'open')
		 RETURNING id`,
		job.Title, job.Role, job.Description, job.Requirements, job.SkillsRequired, job.ExperienceRequired,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// GetJob retrieves a job posting by ID. Returns nil when not found.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	var j types.Job
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, role, description, requirements, skills_required,
		        experience_required, status, created_at, updated_at
		 FROM jobs WHERE id = $1`,
		id,
	).Scan(&j.ID, &j.Title, &j.Role, &j.Description, &j.Requirements, &j.SkillsRequired,
		&j.ExperienceRequired, &j.Status, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return &j, nil
}

// ListOpenJobs retrieves all job postings accepting applications
func (db *DB) ListOpenJobs(ctx context.Context) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, role, description, requirements, skills_required,
		        experience_required, status, created_at, updated_at
		 FROM jobs WHERE status = 'open' ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []types.Job
	for rows.Next() {
		var j types.Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Role, &j.Description, &j.Requirements, &j.SkillsRequired,
			&j.ExperienceRequired, &j.Status, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// UpdateJobStatus opens or closes a job posting. Status is the only mutable
// field once candidates reference the posting.
func (db *DB) UpdateJobStatus(ctx context.Context, id uuid.UUID, status types.JobStatus) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	return nil
}
