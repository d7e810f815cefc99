package pipeline

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/hiring-pipeline/internal/llm"
	"github.com/jonathan/hiring-pipeline/internal/storage"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

// fakeStore is an in-memory Store recording every mutation.
type fakeStore struct {
	mu sync.Mutex

	candidates  map[uuid.UUID]*types.CandidateJob
	assignments map[uuid.UUID]*types.AssignmentContext
	submitted   []types.Assignment

	resumeUpdates     []resumeUpdate
	statusUpdates     []statusUpdate
	createdAssigns    []types.Assignment
	evaluationUpdates []evaluationUpdate

	failResumeUpdate     error
	failStatusUpdate     error
	failCreateAssignment error
	failEvaluationUpdate error
}

type resumeUpdate struct {
	ID       uuid.UUID
	Score    int
	Feedback string
	Status   types.CandidateStatus
}

type statusUpdate struct {
	ID     uuid.UUID
	Status types.CandidateStatus
}

type evaluationUpdate struct {
	ID                                       uuid.UUID
	FinalScore, Accuracy, Clarity, Relevance int
	Feedback                                 string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		candidates:  make(map[uuid.UUID]*types.CandidateJob),
		assignments: make(map[uuid.UUID]*types.AssignmentContext),
	}
}

func (s *fakeStore) GetCandidateWithJob(_ context.Context, id uuid.UUID) (*types.CandidateJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cj, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	copied := *cj
	return &copied, nil
}

func (s *fakeStore) UpdateResumeEvaluation(_ context.Context, id uuid.UUID, score int, feedback string, status types.CandidateStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failResumeUpdate != nil {
		return s.failResumeUpdate
	}
	s.resumeUpdates = append(s.resumeUpdates, resumeUpdate{ID: id, Score: score, Feedback: feedback, Status: status})
	if cj, ok := s.candidates[id]; ok {
		cj.Candidate.Status = status
		cj.Candidate.ResumeScore = &score
	}
	return nil
}

func (s *fakeStore) UpdateCandidateStatus(_ context.Context, id uuid.UUID, status types.CandidateStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failStatusUpdate != nil {
		return s.failStatusUpdate
	}
	s.statusUpdates = append(s.statusUpdates, statusUpdate{ID: id, Status: status})
	if cj, ok := s.candidates[id]; ok {
		cj.Candidate.Status = status
	}
	return nil
}

func (s *fakeStore) CreateAssignment(_ context.Context, a *types.Assignment) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreateAssignment != nil {
		return uuid.Nil, s.failCreateAssignment
	}
	id := uuid.New()
	copied := *a
	copied.ID = id
	s.createdAssigns = append(s.createdAssigns, copied)
	return id, nil
}

func (s *fakeStore) GetAssignmentContext(_ context.Context, id uuid.UUID) (*types.AssignmentContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ac, ok := s.assignments[id]
	if !ok {
		return nil, nil
	}
	copied := *ac
	return &copied, nil
}

func (s *fakeStore) UpdateAssignmentEvaluation(_ context.Context, id uuid.UUID, finalScore, accuracy, clarity, relevance int, feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failEvaluationUpdate != nil {
		return s.failEvaluationUpdate
	}
	s.evaluationUpdates = append(s.evaluationUpdates, evaluationUpdate{
		ID: id, FinalScore: finalScore, Accuracy: accuracy, Clarity: clarity, Relevance: relevance, Feedback: feedback,
	})
	return nil
}

func (s *fakeStore) ListAssignments(_ context.Context, status types.AssignmentStatus) ([]types.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == types.AssignmentSubmitted {
		return s.submitted, nil
	}
	return nil, nil
}

// fakeOracle is a scripted llm.Client. Responses are keyed on prompt
// substrings; an empty key matches any prompt.
type fakeOracle struct {
	mu sync.Mutex

	jsonResponse    string
	jsonErr         error
	contentResponse string
	contentErr      error
	visionResponse  string

	jsonCalls    []string
	contentCalls []string
}

func (o *fakeOracle) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.contentCalls = append(o.contentCalls, prompt)
	if o.contentErr != nil {
		return "", o.contentErr
	}
	return o.contentResponse, nil
}

func (o *fakeOracle) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.jsonCalls = append(o.jsonCalls, prompt)
	if o.jsonErr != nil {
		return "", o.jsonErr
	}
	return o.jsonResponse, nil
}

func (o *fakeOracle) ExtractDocumentText(_ context.Context, _ []byte, _ string, _ string) (string, error) {
	return o.visionResponse, nil
}

func (o *fakeOracle) Close() error { return nil }

func (o *fakeOracle) jsonCallCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.jsonCalls)
}

// fakeBlobs is an in-memory storage.BlobStore.
type fakeBlobs struct {
	objects map[string]*storage.Object
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string]*storage.Object)}
}

func (b *fakeBlobs) Upload(_ context.Context, ref string, data []byte) error {
	b.objects[ref] = &storage.Object{Data: data, MIMEType: storage.MIMEForRef(ref), Size: int64(len(data))}
	return nil
}

func (b *fakeBlobs) Download(_ context.Context, ref string) (*storage.Object, error) {
	obj, ok := b.objects[ref]
	if !ok {
		return nil, &storage.NotFoundError{Ref: ref}
	}
	return obj, nil
}

// fakePages is a scripted PageFetcher.
type fakePages struct {
	snippet string
	err     error
	calls   int
}

func (p *fakePages) SubmissionContext(_ context.Context, _ string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.snippet, nil
}

// backendResume is résumé text matching several Backend keywords.
const backendResume = "Built REST APIs in Go with Postgres and Redis, deployed on Kubernetes with Docker."

func seedCandidate(store *fakeStore, status types.CandidateStatus, experience int) *types.CandidateJob {
	jobID := uuid.New()
	cj := &types.CandidateJob{
		Candidate: types.Candidate{
			ID:         uuid.New(),
			Name:       "Dana Smith",
			Email:      "dana@example.com",
			Role:       "Backend Engineer",
			Experience: experience,
			ResumePath: "resume.txt",
			Status:     status,
			JobID:      &jobID,
		},
		Job: &types.Job{
			ID:                 jobID,
			Title:              "Backend Engineer",
			Role:               types.RoleBackend,
			Description:        "Build services",
			Requirements:       "Go, Postgres",
			SkillsRequired:     []string{"Go", "PostgreSQL"},
			ExperienceRequired: 2,
			Status:             types.JobOpen,
		},
	}
	store.candidates[cj.Candidate.ID] = cj
	return cj
}

func seedAssignment(store *fakeStore, status types.AssignmentStatus, candidateStatus types.CandidateStatus, submissionURL string) *types.AssignmentContext {
	cj := seedCandidate(store, candidateStatus, 3)
	ac := &types.AssignmentContext{
		Assignment: types.Assignment{
			ID:             uuid.New(),
			CandidateID:    cj.Candidate.ID,
			AssignmentText: "Build a rate-limited URL shortener service with persistence and tests.",
			Difficulty:     types.DifficultyMid,
			TimeLimitHours: 72,
			Status:         status,
		},
		Candidate: cj.Candidate,
		Job:       cj.Job,
	}
	if submissionURL != "" {
		ac.Assignment.SubmissionURL = &submissionURL
	}
	store.assignments[ac.Assignment.ID] = ac
	return ac
}

func resumeScoreJSON(total int) string {
	return fmt.Sprintf(`{"total_score": %d, "skills_score": 4, "experience_score": 2, "fit_score": 1,
		"feedback": "Solid backend profile.", "strengths": ["APIs"], "improvements": ["Testing depth"]}`, total)
}

func submissionScoreJSON(total int) string {
	return fmt.Sprintf(`{"total_score": %d, "technical_correctness": 35, "code_quality": 15,
		"problem_solving": 12, "testing_reliability": 7, "documentation": 6, "professionalism": 4,
		"recommendation": "Proceed to interview.", "strengths": ["Clean design"], "improvements": ["More tests"]}`, total)
}

// longAssignment produces generated assignment text above the usability floor.
func longAssignment() string {
	return strings.Repeat("Implement the service described below with full test coverage. ", 10)
}
