package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// batchConcurrency bounds parallel oracle calls during a batch run.
const batchConcurrency = 4

// BatchResult reports the outcome of one assignment in a batch run.
type BatchResult struct {
	AssignmentID uuid.UUID
	Score        int
	Passed       bool
	Err          error
}

// BatchEvaluator evaluates every submitted assignment. Each assignment is
// an independent unit of work; one failure never aborts the others.
type BatchEvaluator struct {
	store     Store
	evaluator *SubmissionEvaluator
	tracer    *observability.Tracer
}

// NewBatchEvaluator creates a BatchEvaluator.
func NewBatchEvaluator(store Store, evaluator *SubmissionEvaluator, tracer *observability.Tracer) *BatchEvaluator {
	return &BatchEvaluator{
		store:     store,
		evaluator: evaluator,
		tracer:    tracer,
	}
}

// EvaluateSubmitted runs the submission evaluator over every assignment in
// the submitted state, with bounded concurrency.
func (b *BatchEvaluator) EvaluateSubmitted(ctx context.Context) ([]BatchResult, error) {
	assignments, err := b.store.ListAssignments(ctx, types.AssignmentSubmitted)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	results := make([]BatchResult, len(assignments))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i, assignment := range assignments {
		i, id := i, assignment.ID
		g.Go(func() error {
			res, evalErr := b.evaluator.Evaluate(gCtx, id)

			entry := BatchResult{AssignmentID: id, Err: evalErr}
			if evalErr == nil {
				entry.Score = res.Score
				entry.Passed = res.Passed
			}
			mu.Lock()
			results[i] = entry
			mu.Unlock()

			// Per-assignment failures are recorded, not propagated.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	for _, r := range results {
		if r.Err != nil {
			b.tracer.Event("batch_item_failed", r.AssignmentID.String(), map[string]any{
				"error": r.Err.Error(),
			})
		}
	}
	return results, nil
}
