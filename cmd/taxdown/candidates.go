package main

import (
	"github.com/spf13/cobra"
)

func newCandidatesCmd() *cobra.Command {
	var minScore int
	var limit int

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List the highest-savings appeal candidates above a fairness score threshold",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.checkReady(ctx); err != nil {
				return err
			}

			results, err := a.orchestrator.FindAppealCandidates(ctx, minScore, limit)
			if err != nil {
				return err
			}
			printSummary(results)
			return nil
		},
	}

	cmd.Flags().IntVar(&minScore, "min-score", 60, "minimum fairness score")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of candidates to return")

	return cmd
}
