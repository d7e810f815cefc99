package scoring

import (
	"encoding/json"

	"github.com/jonathan/hiring-pipeline/internal/schemas"
)

// Oracle responses are semi-structured text with no provider-side schema
// enforcement. Parsing is defensive at every step: strip fences, locate the
// first balanced object, validate against a JSON Schema, then clamp every
// numeric field independently. A response that fails any step resolves to
// the documented fallback (total 0, fail safe) rather than an error; the
// caller is told a fallback happened and must make it observable.

// ResumeScore is the decomposed résumé judgment returned by the scoring
// oracle. Sub-scores follow the fixed 50/30/20 weighting baked into the
// prompt; the local code only clamps, it never re-derives the weighted sum.
type ResumeScore struct {
	Total        float64  `json:"total_score"`
	Skills       float64  `json:"skills_score"`
	Experience   float64  `json:"experience_score"`
	Fit          float64  `json:"fit_score"`
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

// SubmissionScore is the decomposed rubric judgment for a submitted solution.
type SubmissionScore struct {
	Total           float64  `json:"total_score"`
	Correctness     float64  `json:"technical_correctness"`
	CodeQuality     float64  `json:"code_quality"`
	ProblemSolving  float64  `json:"problem_solving"`
	Testing         float64  `json:"testing_reliability"`
	Documentation   float64  `json:"documentation"`
	Professionalism float64  `json:"professionalism"`
	TechnicalNotes  string   `json:"technical_analysis"`
	QualityNotes    string   `json:"quality_analysis"`
	ApproachNotes   string   `json:"problem_solving_analysis"`
	TestingNotes    string   `json:"testing_analysis"`
	DocsNotes       string   `json:"documentation_analysis"`
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	Recommendation  string   `json:"recommendation"`
}

// ParseResumeScore extracts and validates a résumé score from raw oracle
// output. The second return value reports whether the documented fallback
// (total 0, raw text kept as feedback) was used.
func ParseResumeScore(raw string) (*ResumeScore, bool) {
	doc := FirstJSONObject(CleanJSONBlock(raw))
	if doc == "" || !validates(doc, schemas.ResumeScore()) {
		return &ResumeScore{Total: 0, Feedback: raw}, true
	}

	var score ResumeScore
	if err := json.Unmarshal([]byte(doc), &score); err != nil {
		return &ResumeScore{Total: 0, Feedback: raw}, true
	}

	score.Total = Clamp(score.Total, 0, ResumeScoreMax)
	score.Skills = Clamp(score.Skills, 0, ResumeSkillsMax)
	score.Experience = Clamp(score.Experience, 0, ResumeExperienceMax)
	score.Fit = Clamp(score.Fit, 0, ResumeFitMax)
	return &score, false
}

// ParseSubmissionScore extracts and validates a submission score from raw
// oracle output. The second return value reports fallback use.
func ParseSubmissionScore(raw string) (*SubmissionScore, bool) {
	doc := FirstJSONObject(CleanJSONBlock(raw))
	if doc == "" || !validates(doc, schemas.SubmissionScore()) {
		return &SubmissionScore{Total: 0, Recommendation: raw}, true
	}

	var score SubmissionScore
	if err := json.Unmarshal([]byte(doc), &score); err != nil {
		return &SubmissionScore{Total: 0, Recommendation: raw}, true
	}

	score.Total = Clamp(score.Total, 0, SubmissionScoreMax)
	score.Correctness = Clamp(score.Correctness, 0, RubricCorrectnessMax)
	score.CodeQuality = Clamp(score.CodeQuality, 0, RubricCodeQualityMax)
	score.ProblemSolving = Clamp(score.ProblemSolving, 0, RubricProblemSolvingMax)
	score.Testing = Clamp(score.Testing, 0, RubricTestingMax)
	score.Documentation = Clamp(score.Documentation, 0, RubricDocumentationMax)
	score.Professionalism = Clamp(score.Professionalism, 0, RubricProfessionalismMax)
	return &score, false
}

// validates checks a JSON document against a schema, treating any loader
// or validation error as a failed validation.
func validates(doc, schema string) bool {
	return schemas.ValidateString(schema, doc) == nil
}
