// Package batch runs an analyzer.Orchestrator over a stream of property
// ids with a bounded worker pool, per-item panic isolation, and
// context-based cancellation (§4.6, §5).
package batch

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"github.com/mjmurray03/taxdown/internal/analyzer"
	"github.com/mjmurray03/taxdown/internal/logger"
	"github.com/mjmurray03/taxdown/internal/models"
)

// Result is one worker's outcome for a single property id.
type Result struct {
	PropertyID int64
	Analysis   *models.Analysis
	Err        error
}

// Driver runs a bounded worker pool over an analyzer.Orchestrator.
type Driver struct {
	orchestrator analyzer.Orchestrator
	workerCount  int
	log          *logger.Logger
}

// NewDriver constructs a Driver with workerCount goroutines. workerCount
// is clamped to at least 1.
func NewDriver(orchestrator analyzer.Orchestrator, workerCount int, log *logger.Logger) *Driver {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Driver{orchestrator: orchestrator, workerCount: workerCount, log: log}
}

// Run analyzes every id in propertyIDs, at most workerCount in flight at
// once, and returns results in input order. A panic analyzing one
// property is recovered and reported as that property's error rather
// than crashing the run. Run returns early with ctx.Err() if ctx is
// canceled, with results populated only up to the point of cancellation.
func (d *Driver) Run(ctx context.Context, propertyIDs []int64) ([]Result, error) {
	runID := uuid.New()
	results := make([]Result, len(propertyIDs))

	jobs := make(chan int, d.workerCount)
	var wg sync.WaitGroup

	wg.Add(d.workerCount)
	for w := 0; w < d.workerCount; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = d.analyzeOne(ctx, runID, propertyIDs[idx])
			}
		}()
	}

	for i := range propertyIDs {
		if err := ctx.Err(); err != nil {
			close(jobs)
			wg.Wait()
			return results, err
		}
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return results, ctx.Err()
		case jobs <- i:
		}

		if (i+1)%1000 == 0 {
			d.log.Info("batch dispatch progress", map[string]interface{}{
				"run_id": runID, "dispatched": i + 1, "total": len(propertyIDs),
			})
		}
	}
	close(jobs)
	wg.Wait()

	return results, nil
}

// analyzeOne runs the orchestrator for a single property, recovering
// from a panic and reporting it as an error for that property only
// (adapted from the teacher's panic-isolating request middleware).
func (d *Driver) analyzeOne(ctx context.Context, runID uuid.UUID, propertyID int64) (result Result) {
	result.PropertyID = propertyID

	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			d.log.Error("panic recovered during batch analysis", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"run_id": runID, "property_id": propertyID, "stack": string(stack),
			})
			result.Err = fmt.Errorf("panic analyzing property %d: %v", propertyID, r)
		}
	}()

	a, err := d.orchestrator.Analyze(ctx, propertyID, false)
	if err != nil {
		result.Err = err
		return result
	}
	result.Analysis = a
	return result
}
