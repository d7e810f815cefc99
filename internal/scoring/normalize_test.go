package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		v        float64
		min, max float64
		want     float64
	}{
		{"within range", 5, 0, 10, 5},
		{"below min", -3, 0, 10, 0},
		{"above max", 150, 0, 100, 100},
		{"at min", 0, 0, 10, 0},
		{"at max", 10, 0, 10, 10},
		{"NaN collapses to min", math.NaN(), 0, 10, 0},
		{"negative infinity", math.Inf(-1), 0, 10, 0},
		{"positive infinity", math.Inf(1), 0, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.v, tt.min, tt.max))
		})
	}
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 7, ClampInt(7.4, 10))
	assert.Equal(t, 8, ClampInt(7.5, 10))
	assert.Equal(t, 10, ClampInt(42, 10))
	assert.Equal(t, 0, ClampInt(-1, 10))
	assert.Equal(t, 0, ClampInt(math.NaN(), 10))
	assert.Equal(t, 100, ClampInt(1e9, 100))
}

func TestRubricCeilingsSumToScale(t *testing.T) {
	sum := RubricCorrectnessMax + RubricCodeQualityMax + RubricProblemSolvingMax +
		RubricTestingMax + RubricDocumentationMax + RubricProfessionalismMax
	assert.Equal(t, SubmissionScoreMax, sum)

	assert.Equal(t, ResumeScoreMax, ResumeSkillsMax+ResumeExperienceMax+ResumeFitMax)
}
