package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

func TestDifficultyForExperience_Tiers(t *testing.T) {
	tests := []struct {
		name      string
		years     float64
		wantTier  types.Difficulty
		wantHours int
	}{
		{"zero experience", 0, types.DifficultyJunior, 48},
		{"just under junior boundary", 1.9, types.DifficultyJunior, 48},
		{"exactly two years", 2, types.DifficultyMid, 72},
		{"mid tier", 3, types.DifficultyMid, 72},
		{"just under senior boundary", 4.9, types.DifficultyMid, 72},
		{"exactly five years", 5, types.DifficultySenior, 96},
		{"veteran", 12, types.DifficultySenior, 96},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, hours := DifficultyForExperience(tt.years)
			assert.Equal(t, tt.wantTier, tier)
			assert.Equal(t, tt.wantHours, hours)
		})
	}
}

func TestNewAccessToken_Properties(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := NewAccessToken()
		require.NoError(t, err)
		// 32 bytes base64url without padding is 43 characters.
		assert.Len(t, token, 43)
		assert.NotContains(t, token, "=")
		assert.NotContains(t, token, "+")
		assert.NotContains(t, token, "/")
		assert.False(t, seen[token], "token collision")
		seen[token] = true
	}
}

func TestAssignmentPolicy_Create(t *testing.T) {
	store := newFakeStore()
	cj := seedCandidate(store, types.StatusShortlisted, 3)
	oracle := &fakeOracle{contentResponse: longAssignment()}

	policy := NewAssignmentPolicy(store, oracle, observability.Nop())
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	policy.now = func() time.Time { return fixed }

	assignment, err := policy.Create(context.Background(), cj)
	require.NoError(t, err)

	assert.Equal(t, types.DifficultyMid, assignment.Difficulty)
	assert.Equal(t, 72, assignment.TimeLimitHours)
	assert.Equal(t, fixed.Add(72*time.Hour), assignment.Deadline)
	assert.Equal(t, types.AssignmentPending, assignment.Status)
	assert.NotEmpty(t, assignment.AccessToken)
	assert.Equal(t, cj.Candidate.ID, assignment.CandidateID)

	require.Len(t, store.createdAssigns, 1)
	assert.Equal(t, assignment.ID, store.createdAssigns[0].ID)
}

func TestAssignmentPolicy_Create_RequiresShortlisted(t *testing.T) {
	store := newFakeStore()
	cj := seedCandidate(store, types.StatusApplied, 3)
	policy := NewAssignmentPolicy(store, &fakeOracle{}, observability.Nop())

	_, err := policy.Create(context.Background(), cj)
	var precondition *PreconditionError
	require.ErrorAs(t, err, &precondition)
	assert.Empty(t, store.createdAssigns)
}

func TestAssignmentPolicy_Create_UnusableGeneration(t *testing.T) {
	store := newFakeStore()
	cj := seedCandidate(store, types.StatusShortlisted, 6)
	oracle := &fakeOracle{contentResponse: "too short"}
	policy := NewAssignmentPolicy(store, oracle, observability.Nop())

	_, err := policy.Create(context.Background(), cj)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unusable")
	assert.Empty(t, store.createdAssigns, "no assignment persisted on unusable generation")
}
