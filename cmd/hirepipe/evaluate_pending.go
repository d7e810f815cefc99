package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var evaluatePendingCmd = &cobra.Command{
	Use:   "evaluate-pending",
	Short: "Score every assignment awaiting evaluation",
	Long:  `Find all assignments in the submitted state and evaluate them concurrently. Per-assignment failures are reported without stopping the batch.`,
	RunE:  runEvaluatePending,
}

func init() {
	rootCmd.AddCommand(evaluatePendingCmd)
}

func runEvaluatePending(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	results, err := a.batch.EvaluateSubmitted(ctx)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No submitted assignments to evaluate.")
		return nil
	}

	failures := 0
	for _, res := range results {
		if res.Err != nil {
			failures++
			fmt.Printf("%s  ERROR: %v\n", res.AssignmentID, res.Err)
			continue
		}
		verdict := "failed"
		if res.Passed {
			verdict = "passed"
		}
		fmt.Printf("%s  score=%d (%s)\n", res.AssignmentID, res.Score, verdict)
	}
	fmt.Printf("\nEvaluated %d assignment(s), %d failure(s).\n", len(results), failures)
	return nil
}
