package renderer

import (
	"runtime"
	"sync"
)

// Future is closed once its task has run
type Future <-chan struct{}

// Wait blocks until the task has run
func (f Future) Wait() {
	<-f
}

// WaitAll blocks until every task has run
func WaitAll(futures []Future) {
	for _, f := range futures {
		f.Wait()
	}
}

type task struct {
	fn   func()
	done chan struct{}
}

// WorkerPool runs submitted tasks on a fixed set of goroutines
type WorkerPool struct {
	taskQueue  chan task
	numWorkers int
	wg         sync.WaitGroup

	mu     sync.RWMutex // guards closed against concurrent Submit/Close
	closed bool
}

// NewWorkerPool creates and starts a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:  make(chan task, numWorkers*4),
		numWorkers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
	return wp
}

// Submit queues a task and returns a future closed when it completes. It
// blocks while the queue is full.
func (wp *WorkerPool) Submit(fn func()) (Future, error) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return nil, ErrPoolClosed
	}

	t := task{fn: fn, done: make(chan struct{})}
	wp.taskQueue <- t
	return t.done, nil
}

// Close stops accepting tasks, drains the queue and waits for the workers
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.taskQueue)
	wp.mu.Unlock()

	wp.wg.Wait()
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for t := range wp.taskQueue {
		t.fn()
		close(t.done)
	}
}
