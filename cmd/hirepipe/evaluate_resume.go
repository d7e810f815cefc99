package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var evaluateResumeCmd = &cobra.Command{
	Use:   "evaluate-resume <candidate-id>",
	Short: "Score a candidate's résumé and record the shortlist decision",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvaluateResume,
}

func init() {
	rootCmd.AddCommand(evaluateResumeCmd)
}

func runEvaluateResume(cmd *cobra.Command, args []string) error {
	candidateID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid candidate ID: %w", err)
	}

	ctx := context.Background()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	result, err := a.resumes.Evaluate(ctx, candidateID)
	if err != nil {
		return err
	}

	fmt.Printf("Candidate:  %s\n", candidateID)
	fmt.Printf("Score:      %d\n", result.Score)
	fmt.Printf("Status:     %s\n", result.Status)
	if result.UsedFallback {
		fmt.Println("Note:       oracle response was unusable; conservative fallback applied")
	}
	if result.Assignment != nil {
		fmt.Printf("Assignment: %s (due %s)\n", result.Assignment.ID, result.Assignment.Deadline.Format("2006-01-02 15:04 MST"))
	}
	if result.AssignmentErr != nil {
		fmt.Printf("Warning:    assignment generation failed: %v\n", result.AssignmentErr)
	}
	fmt.Printf("\n%s\n", result.Feedback)
	return nil
}
