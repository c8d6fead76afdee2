package worker

import (
	"context"
	"sync"

	"github.com/nimasrn/bizledger/pkg/logger"
)

type Handler[T any] func(workerIndex int, job T)

// Pool distributes jobs over a fixed number of goroutines. Jobs are handed
// out in enqueue order; completion order is not guaranteed.
type Pool[T any] struct {
	workers int
	jobs    chan T
	do      Handler[T]
	wg      sync.WaitGroup
	once    sync.Once
}

func NewPool[T any](bufferSize, workers int, do Handler[T]) *Pool[T] {
	if workers < 1 {
		workers = 1
	}
	return &Pool[T]{
		workers: workers,
		jobs:    make(chan T, bufferSize),
		do:      do,
	}
}

// Start launches the workers. They exit when ctx is done or after Close once
// the queue is drained.
func (p *Pool[T]) Start(ctx context.Context) {
	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go func(index int) {
			defer p.wg.Done()
			for {
				select {
				case job, ok := <-p.jobs:
					if !ok {
						return
					}
					p.do(index, job)
				case <-ctx.Done():
					return
				}
			}
		}(i)
	}
}

// Enqueue blocks until the job is buffered or ctx is done.
func (p *Pool[T]) Enqueue(ctx context.Context, job T) error {
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool[T]) Pending() int {
	return len(p.jobs)
}

// Close stops accepting jobs and waits for the workers to finish. Enqueue
// must not be called afterwards.
func (p *Pool[T]) Close() {
	p.once.Do(func() {
		close(p.jobs)
	})
	p.wg.Wait()
	logger.Debug("worker pool drained", "workers", p.workers)
}
