// Package async implements the Async Engine of spec §4.2: lazy,
// shareable task handles composable with then/catch/finally/
// race/all/any/timeout/sleep/spawn, driven by a shared multi-worker
// scheduler. The scheduling shape (isolated goroutine per task,
// completion delivered through a memoized handle) is adapted from the
// teacher's VM async handler (internal/vm/vm.go asyncHandler), which
// is the only concrete async implementation present in the example
// pack; the bytecode VM it lives in is otherwise out of spec's scope.
package async

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/forgelang/forge/internal/types"
	"github.com/forgelang/forge/internal/values"
)

// Future is the engine's task handle. Every Future carries a uuid
// identity used only for diagnostics/log correlation (SPEC_FULL §11);
// scheduling and memoization key off the Go pointer, not the id.
type Future struct {
	id        string
	done      chan struct{}
	once      sync.Once
	value     values.Value
	err       error
	cancelled int32
}

// NewFuture returns an unresolved Future. Call Complete exactly once
// (directly, or implicitly via run) to resolve it.
func NewFuture() *Future {
	return &Future{id: uuid.NewString(), done: make(chan struct{})}
}

func (f *Future) Tag() types.Tag   { return types.Unknown{} }
func (f *Future) Inspect() string  { return "<future " + f.id + ">" }
func (f *Future) ID() string       { return f.id }

// Complete resolves the future exactly once; later calls are no-ops,
// which is what gives two goroutines racing to finish the same
// future a single, memoized outcome (spec §4.2).
func (f *Future) Complete(v values.Value, err error) {
	f.once.Do(func() {
		f.value, f.err = v, err
		close(f.done)
	})
}

// Await blocks until the future resolves and returns its memoized
// result; repeated calls, even concurrent ones, observe the same
// value (spec I8).
func (f *Future) Await() (values.Value, error) {
	<-f.done
	return f.value, f.err
}

func (f *Future) Cancel()          { atomic.StoreInt32(&f.cancelled, 1) }
func (f *Future) IsCancelled() bool { return atomic.LoadInt32(&f.cancelled) == 1 }

// run executes fn on a scheduler worker slot and completes f with its
// result. It is the primitive every combinator below is built from.
func (f *Future) run(pool *Scheduler, fn func() (values.Value, error)) *Future {
	pool.spawn(func() {
		v, err := fn()
		f.Complete(v, err)
	})
	return f
}
