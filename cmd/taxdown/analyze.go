package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var failSoft bool

	cmd := &cobra.Command{
		Use:   "analyze <property-id>",
		Short: "Run a fairness and savings analysis for one property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			propertyID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid property id %q: %w", args[0], err)
			}

			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.checkReady(ctx); err != nil {
				return err
			}

			analysis, err := a.orchestrator.Analyze(ctx, propertyID, failSoft)
			if err != nil {
				return err
			}
			if analysis == nil {
				fmt.Println("{}")
				return nil
			}
			printSummary(analysis)
			return nil
		},
	}

	cmd.Flags().BoolVar(&failSoft, "fail-soft", false, "return an empty result instead of an error for an unscorable property")

	return cmd
}
