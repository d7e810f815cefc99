package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-pipeline/internal/extraction"
	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

func newResumeEvaluator(store *fakeStore, blobs *fakeBlobs, oracle *fakeOracle) *ResumeEvaluator {
	assignments := NewAssignmentPolicy(store, oracle, observability.Nop())
	extractor := extraction.New(oracle)
	return NewResumeEvaluator(store, blobs, extractor, oracle, assignments, observability.Nop())
}

func seedResume(blobs *fakeBlobs, text string) {
	_ = blobs.Upload(context.Background(), "resume.txt", []byte(text))
}

func TestResumeEvaluator_Shortlists(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	cj := seedCandidate(store, types.StatusApplied, 3)
	seedResume(blobs, backendResume)
	oracle := &fakeOracle{
		jsonResponse:    resumeScoreJSON(8),
		contentResponse: longAssignment(),
	}

	evaluator := newResumeEvaluator(store, blobs, oracle)
	result, err := evaluator.Evaluate(context.Background(), cj.Candidate.ID)
	require.NoError(t, err)

	assert.Equal(t, 8, result.Score)
	assert.Equal(t, types.StatusShortlisted, result.Status)
	assert.False(t, result.UsedFallback)
	require.NotNil(t, result.Assignment)
	assert.NoError(t, result.AssignmentErr)

	// One résumé write carrying score, feedback, and new status together.
	require.Len(t, store.resumeUpdates, 1)
	assert.Equal(t, 8, store.resumeUpdates[0].Score)
	assert.Equal(t, types.StatusShortlisted, store.resumeUpdates[0].Status)

	// Mid-tier assignment for a three-year candidate.
	require.Len(t, store.createdAssigns, 1)
	assert.Equal(t, types.DifficultyMid, store.createdAssigns[0].Difficulty)
	assert.Equal(t, 72, store.createdAssigns[0].TimeLimitHours)
}

func TestResumeEvaluator_ScoreAtThresholdShortlists(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	cj := seedCandidate(store, types.StatusApplied, 1)
	seedResume(blobs, backendResume)
	oracle := &fakeOracle{
		jsonResponse:    resumeScoreJSON(7),
		contentResponse: longAssignment(),
	}

	result, err := newResumeEvaluator(store, blobs, oracle).Evaluate(context.Background(), cj.Candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusShortlisted, result.Status)
}

func TestResumeEvaluator_BelowThresholdRejects(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	cj := seedCandidate(store, types.StatusApplied, 3)
	seedResume(blobs, backendResume)
	oracle := &fakeOracle{jsonResponse: resumeScoreJSON(6)}

	result, err := newResumeEvaluator(store, blobs, oracle).Evaluate(context.Background(), cj.Candidate.ID)
	require.NoError(t, err)

	assert.Equal(t, types.StatusNotShortlisted, result.Status)
	assert.Nil(t, result.Assignment)
	assert.Empty(t, store.createdAssigns)
}

func TestResumeEvaluator_KeywordPrefilterSkipsOracle(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	cj := seedCandidate(store, types.StatusApplied, 3)
	seedResume(blobs, "I am a professional chef with experience in fine dining and pastry.")
	oracle := &fakeOracle{jsonResponse: resumeScoreJSON(9)}

	result, err := newResumeEvaluator(store, blobs, oracle).Evaluate(context.Background(), cj.Candidate.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Score)
	assert.Equal(t, types.StatusNotShortlisted, result.Status)
	assert.Zero(t, oracle.jsonCallCount(), "oracle must not be called when the pre-filter rejects")
	require.Len(t, store.resumeUpdates, 1)
	assert.Equal(t, noKeywordFeedback, store.resumeUpdates[0].Feedback)
}

func TestResumeEvaluator_MalformedOracleFallsBack(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	cj := seedCandidate(store, types.StatusApplied, 3)
	seedResume(blobs, backendResume)
	oracle := &fakeOracle{jsonResponse: "I think this candidate is great, maybe an 8 or so?"}

	result, err := newResumeEvaluator(store, blobs, oracle).Evaluate(context.Background(), cj.Candidate.ID)
	require.NoError(t, err)

	assert.True(t, result.UsedFallback)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, types.StatusNotShortlisted, result.Status)
	require.Len(t, store.resumeUpdates, 1, "fallback decision is persisted, not dropped")
}

func TestResumeEvaluator_ExtractionFailureLeavesCandidateUntouched(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	cj := seedCandidate(store, types.StatusApplied, 3)
	_ = blobs.Upload(context.Background(), "resume.txt", []byte("tiny"))
	oracle := &fakeOracle{jsonResponse: resumeScoreJSON(8)}

	_, err := newResumeEvaluator(store, blobs, oracle).Evaluate(context.Background(), cj.Candidate.ID)

	var extractErr *extraction.ExtractionError
	require.ErrorAs(t, err, &extractErr)
	assert.Empty(t, store.resumeUpdates, "no score written on extraction failure")
	assert.Empty(t, store.statusUpdates, "no status change on extraction failure")
}

func TestResumeEvaluator_AssignmentFailureKeepsResumeDecision(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	cj := seedCandidate(store, types.StatusApplied, 3)
	seedResume(blobs, backendResume)
	oracle := &fakeOracle{
		jsonResponse: resumeScoreJSON(9),
		contentErr:   errors.New("generation backend down"),
	}

	result, err := newResumeEvaluator(store, blobs, oracle).Evaluate(context.Background(), cj.Candidate.ID)
	require.NoError(t, err)

	// The shortlist decision stands even though no assignment exists.
	assert.Equal(t, types.StatusShortlisted, result.Status)
	require.Len(t, store.resumeUpdates, 1)
	assert.Error(t, result.AssignmentErr)
	assert.Nil(t, result.Assignment)
	assert.Empty(t, store.createdAssigns)
}

func TestResumeEvaluator_UnknownCandidate(t *testing.T) {
	store := newFakeStore()
	evaluator := newResumeEvaluator(store, newFakeBlobs(), &fakeOracle{})

	_, err := evaluator.Evaluate(context.Background(), uuid.New())
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestResumeEvaluator_RequiresAppliedStatus(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	cj := seedCandidate(store, types.StatusShortlisted, 3)
	seedResume(blobs, backendResume)

	_, err := newResumeEvaluator(store, blobs, &fakeOracle{}).Evaluate(context.Background(), cj.Candidate.ID)
	var precondition *PreconditionError
	require.ErrorAs(t, err, &precondition)
}

func TestResumeEvaluator_ClampsOutOfRangeScore(t *testing.T) {
	store := newFakeStore()
	blobs := newFakeBlobs()
	cj := seedCandidate(store, types.StatusApplied, 3)
	seedResume(blobs, backendResume)
	oracle := &fakeOracle{
		jsonResponse:    `{"total_score": 95, "feedback": "Impressive."}`,
		contentResponse: longAssignment(),
	}

	result, err := newResumeEvaluator(store, blobs, oracle).Evaluate(context.Background(), cj.Candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, result.Score, "score above the scale clamps to the maximum")
	assert.Equal(t, types.StatusShortlisted, result.Status)
}
