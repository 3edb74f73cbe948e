package trigger

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RunBatch processes independent events concurrently, one pipeline per
// event, and returns the results in input order. The first error cancels
// the remaining events.
func RunBatch(ctx context.Context, config Config, events []EventType, workers int) ([]Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}

	results := make([]Result, len(events))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, event := range events {
		i, event := i, event
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("recovered from panic on event %d: %v", event.EventID, r)
				}
			}()
			if err := ctx.Err(); err != nil {
				return err
			}
			pipeline, err := NewPipeline(config)
			if err != nil {
				return err
			}
			result, err := pipeline.Process(event)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("batch failed: %v", err))
		return nil, err
	}
	return results, nil
}
