package worker

import (
	"context"
	"fmt"
	"sync"
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a job reports back
type Result interface {
	GetError() error
}

// PanicResult is delivered in place of a result when a job panics
type PanicResult struct {
	Value any
}

// GetError describes the panic as an error
func (r *PanicResult) GetError() error {
	return fmt.Errorf("job panicked: %v", r.Value)
}

// Pool runs jobs on a fixed number of goroutines. Results must be consumed
// with Drain (or Wait) while jobs are still being submitted, otherwise
// Submit blocks once both buffers are full.
type Pool struct {
	workers    int
	jobQueue   chan Job
	results    chan Result
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	startOnce  sync.Once
	closeJobs  sync.Once
	closeOnce  sync.Once
}

// NewPool creates a pool of workers bound to ctx; cancelling ctx stops the
// workers after their current job
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan Job, workers*2),
		results:    make(chan Result, workers*2),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start launches the worker goroutines. Later calls do nothing.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.worker()
		}
	})
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := p.execute(job)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// execute keeps one misbehaving job from taking its worker down
func (p *Pool) execute(job Job) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = &PanicResult{Value: r}
		}
	}()
	return job.Execute(p.ctx)
}

// Submit queues a job. It returns false, dropping the job, when the pool
// has been cancelled.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Close signals that no more jobs will be submitted
func (p *Pool) Close() {
	p.closeJobs.Do(func() {
		close(p.jobQueue)
	})
}

// Drain calls fn for every result on the calling goroutine and returns
// once the workers have exited. It must be paired with Close, called by
// the submitter.
func (p *Pool) Drain(fn func(Result)) {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	for result := range p.results {
		fn(result)
	}
	p.cancelFunc()
}

// Wait closes the job queue and collects every result. Use it only after
// all jobs have been submitted.
func (p *Pool) Wait() []Result {
	p.Close()

	var results []Result
	p.Drain(func(r Result) {
		results = append(results, r)
	})
	return results
}

// Shutdown cancels the pool and waits for the workers to stop
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
