package async

import "github.com/forgelang/forge/internal/values"

// Then awaits base; on success passes the resolved value to onOk; on
// error propagates (spec §4.2 "Then").
func (s *Scheduler) Then(base *Future, onOk func(values.Value) (values.Value, error)) *Future {
	return s.Spawn(func() (values.Value, error) {
		v, err := base.Await()
		if err != nil {
			return nil, err
		}
		return onOk(v)
	})
}

// Catch awaits base; on error invokes onErr with a string rendering
// of the error; on success passes through (spec §4.2 "Catch").
func (s *Scheduler) Catch(base *Future, onErr func(string) (values.Value, error)) *Future {
	return s.Spawn(func() (values.Value, error) {
		v, err := base.Await()
		if err != nil {
			return onErr(err.Error())
		}
		return v, nil
	})
}

// Finally awaits base; always runs onFinal with no arguments; the
// original base result is what is ultimately produced (spec §4.2
// "Finally").
func (s *Scheduler) Finally(base *Future, onFinal func() (values.Value, error)) *Future {
	return s.Spawn(func() (values.Value, error) {
		v, err := base.Await()
		onFinal()
		return v, err
	})
}

// taskResult pairs an index with its Await outcome, so All/Race can
// report the first error or assemble results in task order.
type taskResult struct {
	idx int
	val values.Value
	err error
}

// All awaits every task and resolves to a Vec of results in task
// order; if any fails, resolves with that error (spec §4.2
// "Parallel/All", I8 "async.all resolves iff both resolve").
func (s *Scheduler) All(tasks []*Future) *Future {
	return s.Spawn(func() (values.Value, error) {
		results := make([]values.Value, len(tasks))
		ch := make(chan taskResult, len(tasks))
		for i, t := range tasks {
			i, t := i, t
			go func() {
				v, err := t.Await()
				ch <- taskResult{idx: i, val: v, err: err}
			}()
		}
		var firstErr error
		for range tasks {
			r := <-ch
			if r.err != nil && firstErr == nil {
				firstErr = r.err
				continue
			}
			results[r.idx] = r.val
		}
		if firstErr != nil {
			return nil, firstErr
		}
		return values.NewVec(results, nil), nil
	})
}

// Race resolves to the first completing task's result, success or
// failure (spec §4.2 "Race/Any").
func (s *Scheduler) Race(tasks []*Future) *Future {
	return s.Spawn(func() (values.Value, error) {
		ch := make(chan taskResult, len(tasks))
		for i, t := range tasks {
			i, t := i, t
			go func() {
				v, err := t.Await()
				ch <- taskResult{idx: i, val: v, err: err}
			}()
		}
		r := <-ch
		return r.val, r.err
	})
}

// Any resolves to the first task that succeeds; if every task fails
// it resolves with the last observed error.
func (s *Scheduler) Any(tasks []*Future) *Future {
	return s.Spawn(func() (values.Value, error) {
		ch := make(chan taskResult, len(tasks))
		for i, t := range tasks {
			i, t := i, t
			go func() {
				v, err := t.Await()
				ch <- taskResult{idx: i, val: v, err: err}
			}()
		}
		var lastErr error
		for range tasks {
			r := <-ch
			if r.err == nil {
				return r.val, nil
			}
			lastErr = r.err
		}
		return nil, lastErr
	})
}
