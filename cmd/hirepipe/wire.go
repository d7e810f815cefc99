package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/hiring-pipeline/internal/config"
	"github.com/jonathan/hiring-pipeline/internal/db"
	"github.com/jonathan/hiring-pipeline/internal/extraction"
	"github.com/jonathan/hiring-pipeline/internal/fetch"
	"github.com/jonathan/hiring-pipeline/internal/llm"
	"github.com/jonathan/hiring-pipeline/internal/observability"
	"github.com/jonathan/hiring-pipeline/internal/pipeline"
	"github.com/jonathan/hiring-pipeline/internal/storage"
)

// app bundles the wired pipeline for the CLI commands.
type app struct {
	cfg         *config.Config
	db          *db.DB
	blobs       *storage.LocalStore
	oracle      llm.Client
	tracer      *observability.Tracer
	resumes     *pipeline.ResumeEvaluator
	submissions *pipeline.SubmissionEvaluator
	batch       *pipeline.BatchEvaluator
}

// buildApp loads configuration and wires every pipeline component.
func buildApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	blobs, err := storage.NewLocalStore(cfg.StorageRoot)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to open blob store: %w", err)
	}

	oracle, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create oracle client: %w", err)
	}

	tracer := observability.NewTracer(os.Stderr, cfg.Debug)

	assignments := pipeline.NewAssignmentPolicy(database, oracle, tracer)
	extractor := extraction.New(oracle)
	resumes := pipeline.NewResumeEvaluator(database, blobs, extractor, oracle, assignments, tracer)
	submissions := pipeline.NewSubmissionEvaluator(database, oracle, fetch.NewClient(), tracer)
	batch := pipeline.NewBatchEvaluator(database, submissions, tracer)

	return &app{
		cfg:         cfg,
		db:          database,
		blobs:       blobs,
		oracle:      oracle,
		tracer:      tracer,
		resumes:     resumes,
		submissions: submissions,
		batch:       batch,
	}, nil
}

// close releases the database pool and oracle client.
func (a *app) close() {
	if a.oracle != nil {
		_ = a.oracle.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
