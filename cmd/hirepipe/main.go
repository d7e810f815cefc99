// Package main provides the entry point for the hiring pipeline HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hirepipe",
	Short: "Hiring Pipeline HTTP API Server",
	Long:  "Hiring Pipeline coordinates candidate intake, résumé scoring, assignment generation, and submission evaluation via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
