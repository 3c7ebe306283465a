package runner

import (
	"context"
	"sync"

	"github.com/colexec/colexec/pkg/queue"
)

// concatRunner merges multiple input queues into its output queue(s);
// ordering across producers is explicitly undefined (spec.md §4.6), so one
// goroutine per in-queue forwards independently and the runner seals its
// outputs once every in-queue has reached end-of-stream.
type concatRunner struct{ base }

func (r *concatRunner) Initialize(ctx context.Context) error { return nil }

func (r *concatRunner) Process(ctx context.Context) error {
	r.setRunning()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	for _, in := range r.in {
		wg.Add(1)
		go func(in *queue.TypedQueue) {
			defer wg.Done()
			for {
				row, ok := in.Get()
				if !ok {
					return
				}
				if err := r.writeAll(row); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
			}
		}(in)
	}
	wg.Wait()

	if firstErr != nil {
		return r.fail(firstErr)
	}
	r.setFinished()
	return nil
}
