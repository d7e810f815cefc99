// Package scoring normalizes untrusted oracle score output into safe,
// bounded integers and decides pass/fail thresholds.
package scoring

import "math"

// Fixed decision thresholds. These are externally-visible contract values
// and must not drift.
const (
	// ResumeScoreMax bounds the résumé score scale (integers 0..10).
	ResumeScoreMax = 10
	// SubmissionScoreMax bounds the submission score scale (integers 0..100).
	SubmissionScoreMax = 100
	// ShortlistThreshold is the résumé score at or above which a candidate
	// is shortlisted.
	ShortlistThreshold = 7
	// PassThreshold is the submission score at or above which a candidate
	// proceeds to interview.
	PassThreshold = 70
)

// Résumé sub-score ceilings (skills 50% / experience 30% / fit 20% of 10).
const (
	ResumeSkillsMax     = 5
	ResumeExperienceMax = 3
	ResumeFitMax        = 2
)

// Submission rubric ceilings, summing to 100.
const (
	RubricCorrectnessMax     = 40
	RubricCodeQualityMax     = 20
	RubricProblemSolvingMax  = 15
	RubricTestingMax         = 10
	RubricDocumentationMax   = 10
	RubricProfessionalismMax = 5
)

// Clamp constrains v to [min, max]. NaN collapses to min so a malformed
// numeric field can never propagate.
func Clamp(v, min, max float64) float64 {
	if math.IsNaN(v) || v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampInt clamps v to [0, max] and rounds to the nearest integer.
// All persisted scores pass through here.
func ClampInt(v float64, max int) int {
	return int(math.Round(Clamp(v, 0, float64(max))))
}
