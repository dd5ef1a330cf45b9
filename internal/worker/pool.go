package worker

import (
	"context"
	"sync"
	"sync/atomic"
)

// Job is one unit of work run by a Pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is what a Job produces
type Result interface {
	Err() error
}

type task struct {
	seq int
	job Job
}

type outcome struct {
	seq    int
	result Result
}

// Pool runs jobs on a fixed number of goroutines and hands the results
// back in submission order.
type Pool struct {
	workers int
	tasks   chan task
	done    chan outcome
	next    atomic.Int64

	// collected is owned by the collector goroutine until collectorDone closes
	collected     map[int]Result
	collectorDone chan struct{}

	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	queueOnce sync.Once
	startOnce sync.Once
}

// NewPool creates a pool bound to parent. Cancelling parent stops the workers.
func NewPool(parent context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	return &Pool{
		workers: workers,
		tasks:   make(chan task, workers*2),
		done:    make(chan outcome, workers*2),
		ctx:     ctx,
		cancel:  cancel,

		collected:     make(map[int]Result),
		collectorDone: make(chan struct{}),
	}
}

// Start launches the workers and the result collector. Results are drained
// while jobs are still being submitted, so Submit never waits on Wait.
func (p *Pool) Start() {
	p.startOnce.Do(func() {
		for i := 0; i < p.workers; i++ {
			p.wg.Add(1)
			go p.run()
		}

		go p.collect()
		go func() {
			p.wg.Wait()
			p.closeDone()
		}()
	})
}

func (p *Pool) collect() {
	defer close(p.collectorDone)
	for o := range p.done {
		p.collected[o.seq] = o.result
	}
}

func (p *Pool) run() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case t, ok := <-p.tasks:
			if !ok {
				return
			}
			res := t.job.Execute(p.ctx)
			select {
			case p.done <- outcome{seq: t.seq, result: res}:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false once the pool has been cancelled.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	seq := int(p.next.Add(1)) - 1
	select {
	case <-p.ctx.Done():
		return false
	case p.tasks <- task{seq: seq, job: job}:
		return true
	}
}

// Wait closes the queue, waits for the workers and returns the results in
// submission order. Jobs that never ran are left out.
func (p *Pool) Wait() []Result {
	p.closeQueue()
	p.Start()
	<-p.collectorDone
	p.cancel()

	n := int(p.next.Load())
	results := make([]Result, 0, len(p.collected))
	for seq := 0; seq < n; seq++ {
		if r, ok := p.collected[seq]; ok && r != nil {
			results = append(results, r)
		}
	}
	return results
}

// Shutdown cancels running jobs and stops the workers
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeDone()
}

func (p *Pool) closeQueue() {
	p.queueOnce.Do(func() {
		close(p.tasks)
	})
}

func (p *Pool) closeDone() {
	p.closeOnce.Do(func() {
		close(p.done)
	})
}
