package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// Store is the record-store surface the pipeline mutates through.
// *db.DB satisfies it; tests substitute an in-memory fake.
type Store interface {
	GetCandidateWithJob(ctx context.Context, id uuid.UUID) (*types.CandidateJob, error)
	UpdateResumeEvaluation(ctx context.Context, id uuid.UUID, score int, feedback string, status types.CandidateStatus) error
	UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status types.CandidateStatus) error

	CreateAssignment(ctx context.Context, a *types.Assignment) (uuid.UUID, error)
	GetAssignmentContext(ctx context.Context, id uuid.UUID) (*types.AssignmentContext, error)
	UpdateAssignmentEvaluation(ctx context.Context, id uuid.UUID, finalScore, accuracy, clarity, relevance int, feedback string) error
	ListAssignments(ctx context.Context, status types.AssignmentStatus) ([]types.Assignment, error)
}
