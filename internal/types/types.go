// Package types provides type definitions for structured data used throughout the hiring-pipeline system.
package types

import (
	"time"

	"github.com/google/uuid"
)

// RoleCategory classifies a job posting into one of the supported role families.
type RoleCategory string

// Supported role families.
const (
	RoleBackend     RoleCategory = "Backend"
	RoleFrontend    RoleCategory = "Frontend"
	RoleDataAnalyst RoleCategory = "DataAnalyst"
	RoleML          RoleCategory = "ML"
	RoleDevOps      RoleCategory = "DevOps"
)

// ValidRoleCategories returns all role categories accepted on job creation.
func ValidRoleCategories() []RoleCategory {
	return []RoleCategory{RoleBackend, RoleFrontend, RoleDataAnalyst, RoleML, RoleDevOps}
}

// JobStatus represents whether a job posting accepts applications.
type JobStatus string

// Job posting statuses.
const (
	JobOpen   JobStatus = "open"
	JobClosed JobStatus = "closed"
)

// Job represents a job posting. Everything except Status is immutable once
// a candidate references the posting.
type Job struct {
	ID             uuid.UUID    `json:"id"`
	Title          string       `json:"title"`
	Role           RoleCategory `json:"role"`
	Description    string       `json:"description"`
	Requirements   string       `json:"requirements"`
	SkillsRequired []string     `json:"skills_required"`
	// ExperienceRequired is the minimum years of experience, non-negative.
	ExperienceRequired int       `json:"experience_required"`
	Status             JobStatus `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Candidate represents an applicant moving through the evaluation pipeline.
type Candidate struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Experience int       `json:"experience"`
	// ResumePath is the blob-store reference to the uploaded résumé.
	ResumePath string `json:"resume_path,omitempty"`
	// ResumeScore is nil until the résumé has been evaluated; once set it is
	// always an integer in [0, 10].
	ResumeScore    *int            `json:"resume_score,omitempty"`
	ResumeFeedback string          `json:"resume_feedback,omitempty"`
	Status         CandidateStatus `json:"status"`
	JobID          *uuid.UUID      `json:"job_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// Assignment represents a generated coding challenge bound to one candidate.
type Assignment struct {
	ID             uuid.UUID  `json:"id"`
	CandidateID    uuid.UUID  `json:"candidate_id"`
	AssignmentText string     `json:"assignment_text"`
	Difficulty     Difficulty `json:"difficulty_level"`
	TimeLimitHours int        `json:"time_limit_hours"`
	// Deadline is always CreatedAt + TimeLimitHours; never mutated after creation.
	Deadline time.Time `json:"deadline"`
	// AccessToken is the opaque capability string granting access to this
	// assignment instance and its submission endpoint.
	AccessToken   string           `json:"-"`
	SubmissionURL *string          `json:"submission_url,omitempty"`
	Status        AssignmentStatus `json:"status"`
	// FinalScore is nil until evaluated; once set it is always an integer in [0, 100].
	FinalScore     *int      `json:"final_score,omitempty"`
	AccuracyScore  *int      `json:"accuracy_score,omitempty"`
	ClarityScore   *int      `json:"clarity_score,omitempty"`
	RelevanceScore *int      `json:"relevance_score,omitempty"`
	Feedback       string    `json:"feedback,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Difficulty is the assignment difficulty tier derived from candidate experience.
type Difficulty string

// Difficulty tiers.
const (
	DifficultyJunior Difficulty = "Junior"
	DifficultyMid    Difficulty = "Mid"
	DifficultySenior Difficulty = "Senior"
)

// CandidateJob pairs a candidate with its referenced job posting.
// Job is nil when the candidate applied without a posting.
type CandidateJob struct {
	Candidate Candidate
	Job       *Job
}

// AssignmentContext joins an assignment with its candidate and that
// candidate's job posting for submission evaluation.
type AssignmentContext struct {
	Assignment Assignment
	Candidate  Candidate
	Job        *Job
}

// DashboardStats aggregates pipeline-wide counters for the HR dashboard.
type DashboardStats struct {
	TotalCandidates int     `json:"total"`
	Shortlisted     int     `json:"shortlisted"`
	AvgResumeScore  float64 `json:"avg_score"`
	OpenPositions   int     `json:"open_positions"`
	AssignmentsOut  int     `json:"assignments_out"`
	PassedCount     int     `json:"passed"`
}
