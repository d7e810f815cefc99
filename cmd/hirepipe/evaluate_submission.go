package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var evaluateSubmissionCmd = &cobra.Command{
	Use:   "evaluate-submission <assignment-id>",
	Short: "Score a submitted assignment against the rubric",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluateSubmission,
}

func init() {
	rootCmd.AddCommand(evaluateSubmissionCmd)
}

func runEvaluateSubmission(cmd *cobra.Command, args []string) error {
	assignmentID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid assignment ID: %w", err)
	}

	ctx := context.Background()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.submissions.Evaluate(ctx, assignmentID)
	if err != nil {
		return err
	}

	verdict := "FAILED"
	if result.Passed {
		verdict = "PASSED"
	}
	fmt.Printf("Assignment: %s\n", assignmentID)
	fmt.Printf("Score:      %d (%s)\n", result.Score, verdict)
	fmt.Printf("Candidate:  %s\n", result.CandidateStatus)
	if result.UsedFallback {
		fmt.Println("Note:       oracle response was unusable; conservative fallback applied")
	}
	fmt.Printf("\n%s\n", result.Feedback)
	return nil
}
