package pipeline

import (
	"fmt"
	"strings"

	"github.com/jonathan/hiring-pipeline/internal/scoring"
)

// fallbackNotice is embedded in persisted feedback whenever the documented
// malformed-response fallback was applied, so silent degradation is
// detectable from the record alone.
const fallbackNotice = "NOTE: the automated scorer returned an unreadable response. " +
	"A conservative score of 0 was recorded; this evaluation needs human review."

// formatResumeFeedback renders the persisted composite feedback for a
// résumé evaluation: sub-score breakdown plus the qualitative fields.
func formatResumeFeedback(s *scoring.ResumeScore, usedFallback bool) string {
	var sb strings.Builder

	if usedFallback {
		sb.WriteString(fallbackNotice)
		sb.WriteString("\n\nRaw scorer output:\n")
		sb.WriteString(strings.TrimSpace(s.Feedback))
		return sb.String()
	}

	sb.WriteString("RÉSUMÉ EVALUATION\n\n")
	sb.WriteString(fmt.Sprintf("Skills: %.1f/%d\n", s.Skills, scoring.ResumeSkillsMax))
	sb.WriteString(fmt.Sprintf("Experience: %.1f/%d\n", s.Experience, scoring.ResumeExperienceMax))
	sb.WriteString(fmt.Sprintf("Fit: %.1f/%d\n", s.Fit, scoring.ResumeFitMax))

	if s.Feedback != "" {
		sb.WriteString("\n")
		sb.WriteString(strings.TrimSpace(s.Feedback))
		sb.WriteString("\n")
	}
	writeList(&sb, "Strengths", s.Strengths)
	writeList(&sb, "Areas for improvement", s.Improvements)

	return strings.TrimRight(sb.String(), "\n")
}

// formatSubmissionFeedback renders the persisted composite feedback for a
// submission evaluation with the full rubric breakdown.
func formatSubmissionFeedback(s *scoring.SubmissionScore, finalScore int, passed bool, usedFallback bool) string {
	var sb strings.Builder

	if usedFallback {
		sb.WriteString(fallbackNotice)
		sb.WriteString("\n\nRaw scorer output:\n")
		sb.WriteString(strings.TrimSpace(s.Recommendation))
		return sb.String()
	}

	verdict := "FAILED"
	if passed {
		verdict = "PASSED"
	}
	sb.WriteString("ASSIGNMENT EVALUATION RESULTS\n\n")
	sb.WriteString(fmt.Sprintf("Overall score: %d/%d\n", finalScore, scoring.SubmissionScoreMax))
	sb.WriteString(fmt.Sprintf("Result: %s (pass mark %d)\n\n", verdict, scoring.PassThreshold))

	sb.WriteString("RUBRIC BREAKDOWN\n")
	writeRubricLine(&sb, "Technical correctness", s.Correctness, scoring.RubricCorrectnessMax, s.TechnicalNotes)
	writeRubricLine(&sb, "Code quality", s.CodeQuality, scoring.RubricCodeQualityMax, s.QualityNotes)
	writeRubricLine(&sb, "Problem solving", s.ProblemSolving, scoring.RubricProblemSolvingMax, s.ApproachNotes)
	writeRubricLine(&sb, "Testing & reliability", s.Testing, scoring.RubricTestingMax, s.TestingNotes)
	writeRubricLine(&sb, "Documentation", s.Documentation, scoring.RubricDocumentationMax, s.DocsNotes)
	writeRubricLine(&sb, "Professionalism", s.Professionalism, scoring.RubricProfessionalismMax, "")

	writeList(&sb, "Strengths", s.Strengths)
	writeList(&sb, "Areas for improvement", s.Improvements)

	if s.Recommendation != "" {
		sb.WriteString("\nRECOMMENDATION\n")
		sb.WriteString(strings.TrimSpace(s.Recommendation))
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func writeRubricLine(sb *strings.Builder, label string, score float64, max int, notes string) {
	sb.WriteString(fmt.Sprintf("- %s: %.0f/%d\n", label, score, max))
	if notes != "" {
		sb.WriteString("  ")
		sb.WriteString(strings.TrimSpace(notes))
		sb.WriteString("\n")
	}
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString(":\n")
	for _, item := range items {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
}
