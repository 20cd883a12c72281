package async

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgelang/forge/internal/values"
)

func ok(n int64) (values.Value, error) {
	return values.NewInt(n, "i64"), nil
}

func TestSpawnAndAwait(t *testing.T) {
	s := NewScheduler(2)
	f := s.Spawn(func() (values.Value, error) { return ok(1) })
	v, err := f.Await()
	require.NoError(t, err)
	assert.Equal(t, int64(1), v.(values.Int).Value.Int64())

	// repeated Await observes the same memoized result.
	v2, err2 := f.Await()
	require.NoError(t, err2)
	assert.Equal(t, v.(values.Int).Value.Int64(), v2.(values.Int).Value.Int64())
}

func TestThenChains(t *testing.T) {
	s := NewScheduler(2)
	base := s.Spawn(func() (values.Value, error) { return ok(1) })
	chained := s.Then(base, func(v values.Value) (values.Value, error) {
		n := v.(values.Int)
		return values.NewInt(n.Value.Int64()+1, "i64"), nil
	})
	v, err := chained.Await()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.(values.Int).Value.Int64())
}

func TestCatchRecoversError(t *testing.T) {
	s := NewScheduler(2)
	boom := errors.New("boom")
	base := s.Spawn(func() (values.Value, error) { return nil, boom })
	recovered := s.Catch(base, func(msg string) (values.Value, error) {
		return values.String{Value: "recovered:" + msg}, nil
	})
	v, err := recovered.Await()
	require.NoError(t, err)
	assert.Equal(t, "recovered:boom", v.(values.String).Value)
}

func TestFinallyRunsRegardlessOfOutcome(t *testing.T) {
	s := NewScheduler(2)
	ran := make(chan struct{}, 1)
	base := s.Spawn(func() (values.Value, error) { return ok(5) })
	final := s.Finally(base, func() (values.Value, error) {
		ran <- struct{}{}
		return values.NullValue, nil
	})
	v, err := final.Await()
	require.NoError(t, err)
	assert.Equal(t, int64(5), v.(values.Int).Value.Int64())
	select {
	case <-ran:
	default:
		t.Fatal("finally callback did not run")
	}
}

func TestAllResolvesInOrderOrFirstError(t *testing.T) {
	s := NewScheduler(4)
	tasks := []*Future{
		s.Spawn(func() (values.Value, error) { return ok(1) }),
		s.Spawn(func() (values.Value, error) { return ok(2) }),
		s.Spawn(func() (values.Value, error) { return ok(3) }),
	}
	all := s.All(tasks)
	v, err := all.Await()
	require.NoError(t, err)
	vec := v.(values.Vec)
	require.Equal(t, 3, vec.Cell.Len())
	first, _ := vec.Cell.Get(0)
	assert.Equal(t, int64(1), first.(values.Int).Value.Int64())

	failing := []*Future{
		s.Spawn(func() (values.Value, error) { return ok(1) }),
		s.Spawn(func() (values.Value, error) { return nil, errors.New("bad") }),
	}
	_, err = s.All(failing).Await()
	assert.Error(t, err)
}

func TestRaceResolvesFirstCompletion(t *testing.T) {
	s := NewScheduler(4)
	tasks := []*Future{
		s.Spawn(func() (values.Value, error) {
			time.Sleep(20 * time.Millisecond)
			return ok(1)
		}),
		s.Spawn(func() (values.Value, error) { return ok(2) }),
	}
	v, err := s.Race(tasks).Await()
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.(values.Int).Value.Int64())
}

func TestAnySkipsFailuresUntilASuccess(t *testing.T) {
	s := NewScheduler(4)
	tasks := []*Future{
		s.Spawn(func() (values.Value, error) { return nil, errors.New("first fails") }),
		s.Spawn(func() (values.Value, error) {
			time.Sleep(10 * time.Millisecond)
			return ok(9)
		}),
	}
	v, err := s.Any(tasks).Await()
	require.NoError(t, err)
	assert.Equal(t, int64(9), v.(values.Int).Value.Int64())
}

func TestSleepResolvesAfterDuration(t *testing.T) {
	s := NewScheduler(1)
	start := time.Now()
	_, err := s.Sleep(10 * time.Millisecond).Await()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
}

func TestCancelMarksFutureCancelled(t *testing.T) {
	f := NewFuture()
	assert.False(t, f.IsCancelled())
	f.Cancel()
	assert.True(t, f.IsCancelled())
}
