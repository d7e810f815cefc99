package server

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/types"
)

// handleCreateJob creates a job posting.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job := &types.Job{
		Title:              req.Title,
		Role:               types.RoleCategory(req.Role),
		Description:        req.Description,
		Requirements:       req.Requirements,
		SkillsRequired:     req.SkillsRequired,
		ExperienceRequired: req.ExperienceRequired,
		Status:             types.JobOpen,
	}
	id, err := s.store.CreateJob(r.Context(), job)
	if err != nil {
		log.Printf("Error creating job: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to create job")
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]any{"id": id, "status": types.JobOpen})
}

// handleCloseJob stops a posting from accepting applications.
// Candidates already in the pipeline are unaffected.
func (s *Server) handleCloseJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching job %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to look up job")
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}

	if err := s.store.UpdateJobStatus(r.Context(), id, types.JobClosed); err != nil {
		log.Printf("Error closing job %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to close job")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id, "status": types.JobClosed})
}

// handleListCandidates returns candidates, optionally filtered by
// ?status=<lifecycle state>.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	status := types.CandidateStatus(r.URL.Query().Get("status"))
	candidates, err := s.store.ListCandidates(r.Context(), status)
	if err != nil {
		log.Printf("Error listing candidates: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list candidates")
		return
	}
	s.jsonResponse(w, http.StatusOK, candidates)
}

// handleGetCandidate returns a single candidate record.
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		log.Printf("Error fetching candidate %s: %v", id, err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to look up candidate")
		return
	}
	if candidate == nil {
		s.errorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, candidate)
}

// handleEvaluateResume runs résumé scoring for a candidate synchronously.
// Used to retry evaluations that failed in the background after /apply.
func (s *Server) handleEvaluateResume(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	result, err := s.resumes.Evaluate(r.Context(), id)
	if err != nil {
		log.Printf("Résumé evaluation failed for %s: %v", id, err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	response := map[string]any{
		"candidate_id":  id,
		"resume_score":  result.Score,
		"status":        result.Status,
		"feedback":      result.Feedback,
		"used_fallback": result.UsedFallback,
	}
	if result.Assignment != nil {
		response["assignment_id"] = result.Assignment.ID
		response["deadline"] = result.Assignment.Deadline
	}
	if result.AssignmentErr != nil {
		response["assignment_error"] = result.AssignmentErr.Error()
	}
	s.jsonResponse(w, http.StatusOK, response)
}

// handleListAssignments returns assignments, optionally filtered by
// ?status=<assignment state>.
func (s *Server) handleListAssignments(w http.ResponseWriter, r *http.Request) {
	status := types.AssignmentStatus(r.URL.Query().Get("status"))
	assignments, err := s.store.ListAssignments(r.Context(), status)
	if err != nil {
		log.Printf("Error listing assignments: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list assignments")
		return
	}
	s.jsonResponse(w, http.StatusOK, assignments)
}

// handleEvaluateSubmission scores a single submitted assignment.
func (s *Server) handleEvaluateSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid assignment ID")
		return
	}

	result, err := s.submissions.Evaluate(r.Context(), id)
	if err != nil {
		log.Printf("Submission evaluation failed for %s: %v", id, err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"assignment_id":    id,
		"final_score":      result.Score,
		"passed":           result.Passed,
		"status":           result.Status,
		"candidate_status": result.CandidateStatus,
		"feedback":         result.Feedback,
		"used_fallback":    result.UsedFallback,
	})
}

// handleEvaluateSubmitted scores every assignment currently in the
// submitted state. Per-item failures are reported, not fatal.
func (s *Server) handleEvaluateSubmitted(w http.ResponseWriter, r *http.Request) {
	results, err := s.batch.EvaluateSubmitted(r.Context())
	if err != nil {
		log.Printf("Batch evaluation failed: %v", err)
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	items := make([]map[string]any, 0, len(results))
	for _, res := range results {
		item := map[string]any{
			"assignment_id": res.AssignmentID,
			"score":         res.Score,
			"passed":        res.Passed,
		}
		if res.Err != nil {
			item["error"] = res.Err.Error()
		}
		items = append(items, item)
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"evaluated": len(results),
		"results":   items,
	})
}

// handleStats returns pipeline-wide dashboard counters.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetDashboardStats(r.Context())
	if err != nil {
		log.Printf("Error computing stats: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"stats":        stats,
		"generated_at": time.Now().UTC(),
	})
}

// decodeJSON decodes a JSON request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
