package dynamo

import (
	"context"
	"errors"
	"runtime"
	"sync"
)

// Ensemble runs independent jobs across a bounded number of workers. Each job
// owns its own simulation; nothing is shared between them.
type Ensemble struct {
	workers int
}

func NewEnsemble(workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Ensemble{workers: workers}
}

// Run calls job for every index in [0, n) and joins the errors.
func (e *Ensemble) Run(ctx context.Context, n int, job func(ctx context.Context, i int) error) error {
	idx := make(chan int)
	errs := make([]error, n)

	workers := e.workers
	if n < workers {
		workers = n
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range idx {
				errs[i] = job(ctx, i)
			}
		}()
	}

feed:
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			break feed
		case idx <- i:
		}
	}
	close(idx)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return errors.Join(ErrContextCanceled, err)
	}
	return errors.Join(errs...)
}
