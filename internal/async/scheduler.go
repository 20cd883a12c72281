package async

import (
	"time"

	"github.com/forgelang/forge/internal/values"
)

// Scheduler is the shared multi-threaded worker pool that drives
// futures (spec §4.2, §5 "Scheduling model"). It bounds concurrency
// with a buffered semaphore channel rather than a fixed goroutine
// pool, so a burst of spawns queues instead of blocking the caller —
// the same backpressure shape as the teacher's pool-slot accounting
// (evaluator.AcquirePoolSlot/ReleasePoolSlot, referenced from
// internal/vm/vm.go) generalized to a configurable capacity.
type Scheduler struct {
	slots chan struct{}
}

// NewScheduler creates a scheduler with the given worker capacity.
// workers <= 0 means unbounded (each spawn gets its own goroutine
// immediately).
func NewScheduler(workers int) *Scheduler {
	if workers <= 0 {
		return &Scheduler{}
	}
	return &Scheduler{slots: make(chan struct{}, workers)}
}

func (s *Scheduler) spawn(work func()) {
	if s.slots == nil {
		go work()
		return
	}
	go func() {
		s.slots <- struct{}{}
		defer func() { <-s.slots }()
		work()
	}()
}

// Spawn begins executing fn on the scheduler and returns a Future
// that resolves to its outcome (spec §4.2 "Spawn").
func (s *Scheduler) Spawn(fn func() (values.Value, error)) *Future {
	f := NewFuture()
	return f.run(s, fn)
}

// Sleep resolves to Unit after the given duration (spec §4.2
// "Sleep").
func (s *Scheduler) Sleep(d time.Duration) *Future {
	return s.Spawn(func() (values.Value, error) {
		time.Sleep(d)
		return values.NullValue, nil
	})
}

// Timeout sleeps then invokes fn with no arguments (spec §4.2
// "Timeout").
func (s *Scheduler) Timeout(d time.Duration, fn func() (values.Value, error)) *Future {
	return s.Spawn(func() (values.Value, error) {
		time.Sleep(d)
		return fn()
	})
}
