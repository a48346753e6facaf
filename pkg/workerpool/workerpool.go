// Package workerpool provides bounded concurrent processing of a fixed
// work list.
package workerpool

import (
	"context"
	"sync"
)

// Process runs fn for every item using at most workerCount goroutines.
// The first error cancels the remaining work and is returned.
func Process[T any](ctx context.Context, workerCount int, items []T, fn func(context.Context, T) error) error {
	if len(items) == 0 {
		return nil
	}
	if workerCount <= 0 {
		workerCount = 1
	}
	if workerCount > len(items) {
		workerCount = len(items)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan T)
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range tasks {
				if ctx.Err() != nil {
					return
				}
				if err := fn(ctx, item); err != nil {
					fail(err)
					return
				}
			}
		}()
	}

	for _, item := range items {
		select {
		case <-ctx.Done():
		case tasks <- item:
			continue
		}
		break
	}
	close(tasks)
	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
