package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mjmurray03/taxdown/internal/batch"
	"github.com/spf13/cobra"
)

func newAnalyzeBatchCmd() *cobra.Command {
	var ids string
	var file string

	cmd := &cobra.Command{
		Use:   "analyze-batch",
		Short: "Run analyses for many properties concurrently",
		RunE: func(cmd *cobra.Command, args []string) error {
			propertyIDs, err := collectPropertyIDs(ids, file)
			if err != nil {
				return err
			}
			if len(propertyIDs) == 0 {
				return fmt.Errorf("no property ids given: pass --ids or --file")
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

			driver := batch.NewDriver(a.orchestrator, a.cfg.Analysis.WorkerCount, a.log)
			results, err := driver.Run(ctx, propertyIDs)
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
				}
			}
			printSummary(map[string]interface{}{
				"total":   len(results),
				"failed":  failed,
				"results": results,
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&ids, "ids", "", "comma-separated property ids")
	cmd.Flags().StringVar(&file, "file", "", "path to a newline-delimited file of property ids")

	return cmd
}

func collectPropertyIDs(ids, file string) ([]int64, error) {
	var out []int64

	if ids != "" {
		for _, part := range strings.Split(ids, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid property id %q: %w", part, err)
			}
			out = append(out, id)
		}
	}

	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", file, err)
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			id, err := strconv.ParseInt(line, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid property id %q in %s: %w", line, file, err)
			}
			out = append(out, id)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
	}

	return out, nil
}
