package server

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/hiring-pipeline/internal/config"
	"github.com/jonathan/hiring-pipeline/internal/pipeline"
	"github.com/jonathan/hiring-pipeline/internal/storage"
	"github.com/jonathan/hiring-pipeline/internal/types"
)

const (
	testHREmail    = "hr@example.com"
	testHRPassword = "correct-horse-battery"
)

// fakeStore is an in-memory server.Store.
type fakeStore struct {
	mu sync.Mutex

	jobs        map[uuid.UUID]*types.Job
	candidates  map[uuid.UUID]*types.Candidate
	assignments map[string]*types.Assignment // keyed by access token
	stats       *types.DashboardStats

	submissions []uuid.UUID
}

func newFakeStoreServer() *fakeStore {
	return &fakeStore{
		jobs:        make(map[uuid.UUID]*types.Job),
		candidates:  make(map[uuid.UUID]*types.Candidate),
		assignments: make(map[string]*types.Assignment),
		stats:       &types.DashboardStats{},
	}
}

func (s *fakeStore) CreateJob(_ context.Context, job *types.Job) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	copied := *job
	copied.ID = id
	s.jobs[id] = &copied
	return id, nil
}

func (s *fakeStore) GetJob(_ context.Context, id uuid.UUID) (*types.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (s *fakeStore) ListOpenJobs(_ context.Context) ([]types.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Job
	for _, job := range s.jobs {
		if job.Status == types.JobOpen {
			out = append(out, *job)
		}
	}
	return out, nil
}

func (s *fakeStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status types.JobStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.Status = status
	}
	return nil
}

func (s *fakeStore) CreateCandidate(_ context.Context, c *types.Candidate) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	copied := *c
	copied.Status = types.StatusApplied
	s.candidates[copied.ID] = &copied
	return copied.ID, nil
}

func (s *fakeStore) GetCandidate(_ context.Context, id uuid.UUID) (*types.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (s *fakeStore) ListCandidates(_ context.Context, status types.CandidateStatus) ([]types.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Candidate
	for _, c := range s.candidates {
		if status == "" || c.Status == status {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeStore) GetAssignmentByToken(_ context.Context, token string) (*types.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[token]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (s *fakeStore) ListAssignments(_ context.Context, status types.AssignmentStatus) ([]types.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Assignment
	for _, a := range s.assignments {
		if status == "" || a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (s *fakeStore) SetSubmission(_ context.Context, id uuid.UUID, submissionURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submissions = append(s.submissions, id)
	for _, a := range s.assignments {
		if a.ID == id {
			url := submissionURL
			a.SubmissionURL = &url
			a.Status = types.AssignmentSubmitted
		}
	}
	return nil
}

func (s *fakeStore) GetDashboardStats(_ context.Context) (*types.DashboardStats, error) {
	return s.stats, nil
}

// fakeResumes is a scripted ResumeEvaluator.
type fakeResumes struct {
	mu     sync.Mutex
	result *pipeline.ResumeResult
	err    error
	calls  []uuid.UUID
}

func (f *fakeResumes) Evaluate(_ context.Context, id uuid.UUID) (*pipeline.ResumeResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	return f.result, f.err
}

func (f *fakeResumes) waitForCall(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		n := len(f.calls)
		f.mu.Unlock()
		if n > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("résumé evaluation was never triggered")
}

// fakeSubmissions is a scripted SubmissionEvaluator.
type fakeSubmissions struct {
	result *pipeline.SubmissionResult
	err    error
}

func (f *fakeSubmissions) Evaluate(_ context.Context, _ uuid.UUID) (*pipeline.SubmissionResult, error) {
	return f.result, f.err
}

// fakeBatch is a scripted BatchEvaluator.
type fakeBatch struct {
	results []pipeline.BatchResult
	err     error
}

func (f *fakeBatch) EvaluateSubmitted(_ context.Context) ([]pipeline.BatchResult, error) {
	return f.results, f.err
}

// fakeBlobStore records uploads in memory.
type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (b *fakeBlobStore) Upload(_ context.Context, ref string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[ref] = data
	return nil
}

func (b *fakeBlobStore) Download(_ context.Context, ref string) (*storage.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[ref]
	if !ok {
		return nil, &storage.NotFoundError{Ref: ref}
	}
	return &storage.Object{Data: data, MIMEType: storage.MIMEForRef(ref), Size: int64(len(data))}, nil
}

type testDeps struct {
	store       *fakeStore
	blobs       *fakeBlobStore
	resumes     *fakeResumes
	submissions *fakeSubmissions
	batch       *fakeBatch
}

// newTestServer wires a Server with fakes and a known HR credential.
func newTestServer(t *testing.T) (*Server, *testDeps) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-for-handlers")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	passwords, err := config.NewPasswordConfig()
	require.NoError(t, err)
	hash, err := passwords.HashPassword(testHRPassword)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:           8080,
		DatabaseURL:    "postgres://unused",
		APIKey:         "unused",
		HREmail:        testHREmail,
		HRPasswordHash: hash,
	}

	deps := &testDeps{
		store:       newFakeStoreServer(),
		blobs:       newFakeBlobStore(),
		resumes:     &fakeResumes{result: &pipeline.ResumeResult{Status: types.StatusShortlisted, Score: 8}},
		submissions: &fakeSubmissions{result: &pipeline.SubmissionResult{Score: 80, Passed: true, Status: types.AssignmentEvaluated, CandidateStatus: types.StatusInterview}},
		batch:       &fakeBatch{},
	}

	srv, err := New(cfg, Deps{
		Store:       deps.store,
		Blobs:       deps.blobs,
		Resumes:     deps.resumes,
		Submissions: deps.submissions,
		Batch:       deps.batch,
	})
	require.NoError(t, err)
	t.Cleanup(srv.rateLimiter.Stop)

	return srv, deps
}

// seedJob inserts an open job and returns it.
func seedJob(store *fakeStore) *types.Job {
	job := &types.Job{
		Title:          "Backend Engineer",
		Role:           types.RoleBackend,
		Description:    "Build services",
		SkillsRequired: []string{"Go"},
		Status:         types.JobOpen,
	}
	id, _ := store.CreateJob(context.Background(), job)
	job.ID = id
	return job
}

// seedTokenAssignment inserts a pending assignment reachable by token.
func seedTokenAssignment(store *fakeStore, token string, deadline time.Time) *types.Assignment {
	a := &types.Assignment{
		ID:             uuid.New(),
		CandidateID:    uuid.New(),
		AssignmentText: "Build a URL shortener",
		Difficulty:     types.DifficultyMid,
		TimeLimitHours: 72,
		Deadline:       deadline,
		AccessToken:    token,
		Status:         types.AssignmentPending,
	}
	store.mu.Lock()
	store.assignments[token] = a
	store.mu.Unlock()
	return a
}
