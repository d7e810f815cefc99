package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ApplicationRequest represents the non-file fields of a candidate
// application. The résumé file arrives as a multipart part alongside it.
type ApplicationRequest struct {
	Name       string    `json:"name" validate:"required,min=1"`
	Email      string    `json:"email" validate:"required,email"`
	Role       string    `json:"role" validate:"required"`
	Experience int       `json:"experience" validate:"gte=0,lte=60"`
	JobID      uuid.UUID `json:"job_id" validate:"required"`
}

// CreateJobRequest represents the request to create a job posting.
type CreateJobRequest struct {
	Title              string   `json:"title" validate:"required,min=1"`
	Role               string   `json:"role" validate:"required,oneof=Backend Frontend DataAnalyst ML DevOps"`
	Description        string   `json:"description" validate:"required"`
	Requirements       string   `json:"requirements"`
	SkillsRequired     []string `json:"skills_required" validate:"required,min=1"`
	ExperienceRequired int      `json:"experience_required" validate:"gte=0"`
}

// SubmitAssignmentRequest carries the candidate's solution URL.
type SubmitAssignmentRequest struct {
	SubmissionURL string `json:"submission_url" validate:"required,url"`
}

// LoginRequest represents the HR login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the login response with the bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Validate validates the ApplicationRequest using the validator.
func (r *ApplicationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the SubmitAssignmentRequest using the validator.
func (r *SubmitAssignmentRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the LoginRequest using the validator.
func (r *LoginRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
