package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/extraction"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// evaluateTimeout bounds background résumé evaluation spawned by /apply.
const evaluateTimeout = 5 * time.Minute

// handleListJobs returns all open job postings.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListOpenJobs(r.Context())
	if err != nil {
		log.Printf("Error listing jobs: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list jobs")
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

// handleApply accepts a multipart application: form fields plus a résumé file
// part named "resume". The candidate record is created immediately; résumé
// scoring runs in the background so the applicant is not held on the oracle.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(extraction.MaxDocumentBytes); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	req, err := applicationFromForm(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, err := s.store.GetJob(r.Context(), req.JobID)
	if err != nil {
		log.Printf("Error fetching job %s: %v", req.JobID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to look up job")
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if job.Status != types.JobOpen {
		s.errorResponse(w, http.StatusConflict, "Job is no longer accepting applications")
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Résumé file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, extraction.MaxDocumentBytes+1))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read résumé file")
		return
	}
	if len(data) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Résumé file is empty")
		return
	}
	if len(data) > extraction.MaxDocumentBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "Résumé file exceeds the size limit")
		return
	}

	candidateID := uuid.New()
	ref := resumeRef(candidateID, header.Filename)
	if err := s.blobs.Upload(r.Context(), ref, data); err != nil {
		log.Printf("Error storing résumé for %s: %v", candidateID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store résumé")
		return
	}

	candidate := &types.Candidate{
		ID:         candidateID,
		Name:       req.Name,
		Email:      req.Email,
		Role:       req.Role,
		Experience: req.Experience,
		ResumePath: ref,
		JobID:      &req.JobID,
	}
	id, err := s.store.CreateCandidate(r.Context(), candidate)
	if err != nil {
		log.Printf("Error creating candidate: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), evaluateTimeout)
		defer cancel()
		if _, err := s.resumes.Evaluate(ctx, id); err != nil {
			log.Printf("Background résumé evaluation failed for %s: %v", id, err)
		}
	}()

	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"id":     id,
		"status": types.StatusApplied,
	})
}

// handleGetAssignmentByToken resolves a capability link to its assignment.
// The response omits the token itself and evaluation internals.
func (s *Server) handleGetAssignmentByToken(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	assignment, err := s.store.GetAssignmentByToken(r.Context(), token)
	if err != nil {
		log.Printf("Error fetching assignment by token: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to look up assignment")
		return
	}
	if assignment == nil {
		s.errorResponse(w, http.StatusNotFound, "Assignment not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":               assignment.ID,
		"assignment_text":  assignment.AssignmentText,
		"difficulty_level": assignment.Difficulty,
		"time_limit_hours": assignment.TimeLimitHours,
		"deadline":         assignment.Deadline,
		"status":           assignment.Status,
	})
}

// handleSubmitAssignment records a solution URL against a token-resolved
// assignment. Late submissions are rejected against the stored deadline.
func (s *Server) handleSubmitAssignment(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	assignment, err := s.store.GetAssignmentByToken(r.Context(), token)
	if err != nil {
		log.Printf("Error fetching assignment by token: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to look up assignment")
		return
	}
	if assignment == nil {
		s.errorResponse(w, http.StatusNotFound, "Assignment not found")
		return
	}

	var req types.SubmitAssignmentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if assignment.Status != types.AssignmentPending {
		s.errorResponse(w, http.StatusConflict, fmt.Sprintf("Assignment already %s", assignment.Status))
		return
	}
	if time.Now().After(assignment.Deadline) {
		s.errorResponse(w, http.StatusConflict, "The submission deadline has passed")
		return
	}

	if err := s.store.SetSubmission(r.Context(), assignment.ID, req.SubmissionURL); err != nil {
		log.Printf("Error recording submission for %s: %v", assignment.ID, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to record submission")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"id":     assignment.ID,
		"status": types.AssignmentSubmitted,
	})
}

// applicationFromForm builds an ApplicationRequest from multipart form fields.
func applicationFromForm(r *http.Request) (*types.ApplicationRequest, error) {
	jobID, err := uuid.Parse(r.FormValue("job_id"))
	if err != nil {
		return nil, fmt.Errorf("invalid job_id")
	}
	experience := 0
	if v := strings.TrimSpace(r.FormValue("experience")); v != "" {
		experience, err = strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid experience")
		}
	}
	return &types.ApplicationRequest{
		Name:       strings.TrimSpace(r.FormValue("name")),
		Email:      strings.TrimSpace(r.FormValue("email")),
		Role:       strings.TrimSpace(r.FormValue("role")),
		Experience: experience,
		JobID:      jobID,
	}, nil
}

// resumeRef derives the blob-store reference for an uploaded résumé,
// keeping the original extension so the MIME type survives round trips.
func resumeRef(candidateID uuid.UUID, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".txt"
	}
	return candidateID.String() + ext
}
