// Package server provides the HTTP REST API for the hiring pipeline.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/config"
	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/pipeline"
	"github.com/jonathan/hiring-pipeline/internal/server/middleware"
	"github.com/jonathan/hiring-pipeline/internal/server/ratelimit"
	"github.com/jonathan/hiring-pipeline/internal/storage"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// Store is the record-store surface the HTTP layer reads and writes.
// *db.DB satisfies it; tests substitute an in-memory fake.
type Store interface {
	CreateJob(ctx context.Context, job *types.Job) (uuid.UUID, error)
	GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error)
	ListOpenJobs(ctx context.Context) ([]types.Job, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status types.JobStatus) error

	CreateCandidate(ctx context.Context, c *types.Candidate) (uuid.UUID, error)
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error)
	ListCandidates(ctx context.Context, status types.CandidateStatus) ([]types.Candidate, error)

	GetAssignmentByToken(ctx context.Context, token string) (*types.Assignment, error)
	ListAssignments(ctx context.Context, status types.AssignmentStatus) ([]types.Assignment, error)
	SetSubmission(ctx context.Context, id uuid.UUID, submissionURL string) error

	GetDashboardStats(ctx context.Context) (*types.DashboardStats, error)
}

// ResumeEvaluator scores a candidate's résumé.
type ResumeEvaluator interface {
	Evaluate(ctx context.Context, candidateID uuid.UUID) (*pipeline.ResumeResult, error)
}

// SubmissionEvaluator scores a submitted assignment.
type SubmissionEvaluator interface {
	Evaluate(ctx context.Context, assignmentID uuid.UUID) (*pipeline.SubmissionResult, error)
}

// BatchEvaluator scores every assignment awaiting evaluation.
type BatchEvaluator interface {
	EvaluateSubmitted(ctx context.Context) ([]pipeline.BatchResult, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       Store
	blobs       storage.BlobStore
	resumes     ResumeEvaluator
	submissions SubmissionEvaluator
	batch       BatchEvaluator
	jwtService  *JWTService
	authHandler *AuthHandler
	rateLimiter *ratelimit.Limiter
	tracer      *observability.Tracer
	closeFn     func()
}

// Deps bundles the collaborators a Server needs.
type Deps struct {
	Store       Store
	Blobs       storage.BlobStore
	Resumes     ResumeEvaluator
	Submissions SubmissionEvaluator
	Batch       BatchEvaluator
	Tracer      *observability.Tracer
	// CloseFn is invoked after shutdown (e.g. to close the db pool).
	CloseFn func()
}

// New creates a new server instance
func New(cfg *config.Config, deps Deps) (*Server, error) {
	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}

	s := &Server{
		store:       deps.Store,
		blobs:       deps.Blobs,
		resumes:     deps.Resumes,
		submissions: deps.Submissions,
		batch:       deps.Batch,
		tracer:      deps.Tracer,
		closeFn:     deps.CloseFn,
	}
	if s.tracer == nil {
		s.tracer = observability.Nop()
	}

	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(cfg, passwordConfig, s.jwtService)
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for oracle-backed evaluations
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("POST /apply", s.handleApply)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	// Token-authorized assignment access (capability link, no identity)
	mux.HandleFunc("GET /assignments/token/{token}", s.handleGetAssignmentByToken)
	mux.HandleFunc("POST /assignments/token/{token}/submit", s.handleSubmitAssignment)

	// HR endpoints (JWT-protected)
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := http.NewServeMux()
	protected.HandleFunc("POST /jobs", s.handleCreateJob)
	protected.HandleFunc("POST /jobs/{id}/close", s.handleCloseJob)
	protected.HandleFunc("GET /candidates", s.handleListCandidates)
	protected.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	protected.HandleFunc("POST /candidates/{id}/evaluate", s.handleEvaluateResume)
	protected.HandleFunc("GET /assignments", s.handleListAssignments)
	protected.HandleFunc("POST /assignments/{id}/evaluate", s.handleEvaluateSubmission)
	protected.HandleFunc("POST /assignments/evaluate-submitted", s.handleEvaluateSubmitted)
	protected.HandleFunc("GET /stats", s.handleStats)
	mux.Handle("/", auth(protected))

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.closeFn != nil {
		s.closeFn()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, retryAfter := s.rateLimiter.Allow(clientIP(r), r.URL.Path, r.Method)
		if !allowed {
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retryAfter.Seconds())))
			s.errorResponse(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleLogin handles HR login requests.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}
