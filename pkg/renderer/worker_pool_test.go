package renderer

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	if pool.NumWorkers() != 3 {
		t.Errorf("Expected 3 workers, got %d", pool.NumWorkers())
	}

	var count atomic.Int64
	futures := make([]Future, 0, 100)
	for i := 0; i < 100; i++ {
		future, err := pool.Submit(func() { count.Add(1) })
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		futures = append(futures, future)
	}
	WaitAll(futures)

	if got := count.Load(); got != 100 {
		t.Errorf("Expected 100 tasks to run, got %d", got)
	}
}

func TestWorkerPool_FutureClosesAfterTask(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	release := make(chan struct{})
	future, err := pool.Submit(func() { <-release })
	if err != nil {
		t.Fatal(err)
	}

	select {
	case <-future:
		t.Fatal("Future closed before its task finished")
	default:
	}

	close(release)
	future.Wait()
}

func TestWorkerPool_Close(t *testing.T) {
	pool := NewWorkerPool(2)

	var count atomic.Int64
	for i := 0; i < 10; i++ {
		if _, err := pool.Submit(func() { count.Add(1) }); err != nil {
			t.Fatal(err)
		}
	}

	// Close drains queued tasks
	pool.Close()
	if got := count.Load(); got != 10 {
		t.Errorf("Expected queued tasks to drain, got %d", got)
	}

	if _, err := pool.Submit(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Expected ErrPoolClosed, got %v", err)
	}

	// Closing twice is safe
	pool.Close()
}

func TestWorkerPool_DefaultWorkers(t *testing.T) {
	pool := NewWorkerPool(0)
	defer pool.Close()
	if pool.NumWorkers() < 1 {
		t.Errorf("Expected at least one worker, got %d", pool.NumWorkers())
	}
}
