package db

import (
	"context"
	"fmt"

	"github.com/jonathan/hiring-pipeline/internal/scoring"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// GetDashboardStats aggregates pipeline-wide counters for the HR dashboard.
func (db *DB) GetDashboardStats(ctx context.Context) (*types.DashboardStats, error) {
	var stats types.DashboardStats

	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = $1),
		        COALESCE(AVG(resume_score), 0)
		 FROM candidates`,
		types.StatusShortlisted,
	).Scan(&stats.TotalCandidates, &stats.Shortlisted, &stats.AvgResumeScore)
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate stats: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FILTER (WHERE status = $1),
		        COUNT(*) FILTER (WHERE status = $2 AND final_score >= $3)
		 FROM assignments`,
		types.AssignmentPending, types.AssignmentEvaluated, scoring.PassThreshold,
	).Scan(&stats.AssignmentsOut, &stats.PassedCount)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment stats: %w", err)
	}

	err = db.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM jobs WHERE status = 'open'`,
	).Scan(&stats.OpenPositions)
	if err != nil {
		return nil, fmt.Errorf("failed to get job stats: %w", err)
	}

	return &stats, nil
}
