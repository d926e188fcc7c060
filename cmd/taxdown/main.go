package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mjmurray03/taxdown/internal/errs"
	"github.com/mjmurray03/taxdown/internal/ingest"
	"github.com/spf13/cobra"
)

// Exit codes for the ingest commands (§6, §7): 0 success, 1 schema
// mismatch or other unrecoverable ingest error, 2 error-budget
// exceedance.
const (
	exitOK             = 0
	exitSchemaMismatch = 1
	exitBudgetExceeded = 2
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "taxdown",
		Short:         "Property-tax fairness analysis and appeal-candidate identification",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newLoadPropertiesCmd(),
		newLoadSubdivisionsCmd(),
		newAnalyzeCmd(),
		newAnalyzeBatchCmd(),
		newCandidatesCmd(),
	)
	return cmd
}

// exitCodeFor maps a command error to the process exit code §6/§7
// call for. Errors outside the ingest commands default to 1.
func exitCodeFor(err error) int {
	if errors.Is(err, ingest.ErrBudgetExceeded) {
		return exitBudgetExceeded
	}
	if errs.Is(err, errs.Ingest) {
		return exitSchemaMismatch
	}
	return exitSchemaMismatch
}
