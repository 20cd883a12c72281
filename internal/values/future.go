package values

// Future is the shared, lazy task handle of spec §4.2. It is an
// interface here (implemented by internal/async.Future) so the value
// model does not depend on the scheduler package.
type Future interface {
	Value
	// Await blocks the calling goroutine until the task resolves, then
	// returns its memoized Result value. Calling Await from multiple
	// goroutines on the same Future returns the identical result
	// (spec §4.2 "completion is memoized").
	Await() (Value, error)
	// Cancel sets the advisory cancellation flag (spec §4.2
	// "Cancellation").
	Cancel()
	IsCancelled() bool
	ID() string
}

// IsFuture reports whether v is a Future, for `await`'s pass-through
// rule on non-Future values (spec §4.1 "Await").
func IsFuture(v Value) (Future, bool) {
	f, ok := v.(Future)
	return f, ok
}
