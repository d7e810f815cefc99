package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hiring-pipeline/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the candidate intake, assignment, and evaluation endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := buildApp(context.Background())
	if err != nil {
		return err
	}
	if servePort != 0 {
		a.cfg.Port = servePort
	}

	srv, err := server.New(a.cfg, server.Deps{
		Store:       a.db,
		Blobs:       a.blobs,
		Resumes:     a.resumes,
		Submissions: a.submissions,
		Batch:       a.batch,
		Tracer:      a.tracer,
		CloseFn:     a.close,
	})
	if err != nil {
		a.close()
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
