package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestScheduler(opts ...Option) *Scheduler {
	return New(zap.NewNop(), opts...)
}

func TestScheduler_Register_Validation(t *testing.T) {
	s := newTestScheduler()
	noop := func(context.Context) {}

	assert.Error(t, s.Register("", time.Second, false, noop))
	assert.Error(t, s.Register("j", 0, false, noop))
	assert.Error(t, s.Register("j", -time.Second, false, noop))
	assert.Error(t, s.Register("j", time.Second, false, nil))

	require.NoError(t, s.Register("j", time.Second, false, noop))
	err := s.Register("j", time.Second, false, noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate job id")
}

func TestScheduler_TriggerNow_RunsSynchronously(t *testing.T) {
	s := newTestScheduler()
	var fired atomic.Int32
	require.NoError(t, s.Register("survival", time.Hour, false, func(context.Context) {
		fired.Add(1)
	}))

	require.NoError(t, s.TriggerNow("survival"))
	require.NoError(t, s.TriggerNow("survival"))

	assert.Equal(t, int32(2), fired.Load())

	statuses := s.Status()
	require.Len(t, statuses, 1)
	assert.False(t, statuses[0].LastFired.IsZero())
}

func TestScheduler_TriggerNow_UnknownJob(t *testing.T) {
	s := newTestScheduler()
	err := s.TriggerNow("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown job")
}

func TestScheduler_PanicIsolation(t *testing.T) {
	s := newTestScheduler()
	var other atomic.Int32
	require.NoError(t, s.Register("bad", time.Hour, false, func(context.Context) {
		panic("boom")
	}))
	require.NoError(t, s.Register("good", time.Hour, false, func(context.Context) {
		other.Add(1)
	}))

	// A panicking callback is recovered at the scheduler boundary and
	// does not poison other jobs.
	require.NoError(t, s.TriggerNow("bad"))
	require.NoError(t, s.TriggerNow("good"))
	assert.Equal(t, int32(1), other.Load())

	// The panicking job itself stays registered and runnable.
	require.NoError(t, s.TriggerNow("bad"))
}

func TestScheduler_Start_FiresAtInterval(t *testing.T) {
	s := newTestScheduler()
	fired := make(chan struct{}, 8)
	require.NoError(t, s.Register("fast", 20*time.Millisecond, false, func(context.Context) {
		fired <- struct{}{}
	}))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job never fired")
	}
}

func TestScheduler_Start_Twice(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()
	assert.Error(t, s.Start(context.Background()))
}

func TestScheduler_OverdueJobFiresImmediately(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SetLastFired(context.Background(), "weather", time.Now().Add(-2*time.Hour)))

	s := newTestScheduler(WithStore(store))
	fired := make(chan struct{}, 1)
	require.NoError(t, s.Register("weather", time.Hour, true, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("overdue job should fire once immediately")
	}
}

func TestScheduler_RecentJobWaitsOutItsInterval(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.SetLastFired(context.Background(), "weather", time.Now()))

	s := newTestScheduler(WithStore(store))
	var fired atomic.Int32
	require.NoError(t, s.Register("weather", time.Hour, true, func(context.Context) {
		fired.Add(1)
	}))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load(), "a freshly fired job must not refire on restart")

	statuses := s.Status()
	require.Len(t, statuses, 1)
	assert.Greater(t, time.Until(statuses[0].NextFire), 50*time.Minute)
}

type failingStore struct{}

func (failingStore) LastFired(context.Context, string) (time.Time, bool, error) {
	return time.Time{}, false, errors.New("connection refused")
}

func (failingStore) SetLastFired(context.Context, string, time.Time) error {
	return errors.New("connection refused")
}

func TestScheduler_UnreadableStateFiresImmediately(t *testing.T) {
	s := newTestScheduler(WithStore(failingStore{}))
	fired := make(chan struct{}, 1)
	require.NoError(t, s.Register("seasonal", time.Hour, true, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job with unreadable state should fire once immediately")
	}
}

func TestScheduler_PausePreservesRemaining(t *testing.T) {
	s := newTestScheduler()
	var fired atomic.Int32
	require.NoError(t, s.Register("resource", time.Hour, false, func(context.Context) {
		fired.Add(1)
	}))
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	require.NoError(t, s.Pause("resource"))
	statuses := s.Status()
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Paused)

	require.NoError(t, s.Resume("resource"))

	// Resuming must carry over the accumulated delay, not reset it to
	// fire immediately.
	statuses = s.Status()
	assert.False(t, statuses[0].Paused)
	assert.Greater(t, time.Until(statuses[0].NextFire), 50*time.Minute)
	assert.Equal(t, int32(0), fired.Load())
}

func TestScheduler_PauseResume_UnknownJob(t *testing.T) {
	s := newTestScheduler()
	assert.Error(t, s.Pause("ghost"))
	assert.Error(t, s.Resume("ghost"))
}

func TestScheduler_NoSelfOverlap(t *testing.T) {
	s := newTestScheduler()
	started := make(chan struct{}, 16)
	release := make(chan struct{})
	require.NoError(t, s.Register("slow", 15*time.Millisecond, false, func(context.Context) {
		started <- struct{}{}
		<-release
	}))

	require.NoError(t, s.Start(context.Background()))

	// First firing starts and blocks. Subsequent timer expiries must be
	// skipped while it is in flight.
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job never started")
	}
	time.Sleep(120 * time.Millisecond)
	assert.Empty(t, started, "job must not run concurrently with itself")

	close(release)
	s.Stop()
}

func TestScheduler_Status_SortedByID(t *testing.T) {
	s := newTestScheduler()
	noop := func(context.Context) {}
	require.NoError(t, s.Register("weather", time.Hour, false, noop))
	require.NoError(t, s.Register("fuel", time.Hour, false, noop))
	require.NoError(t, s.Register("survival", time.Hour, false, noop))

	statuses := s.Status()
	require.Len(t, statuses, 3)
	assert.Equal(t, "fuel", statuses[0].ID)
	assert.Equal(t, "survival", statuses[1].ID)
	assert.Equal(t, "weather", statuses[2].ID)
}

func TestScheduler_PersistentJobRecordsFiring(t *testing.T) {
	store := NewMemoryStore()
	s := newTestScheduler(WithStore(store))
	require.NoError(t, s.Register("food", time.Hour, true, func(context.Context) {}))

	require.NoError(t, s.TriggerNow("food"))

	_, ok, err := store.LastFired(context.Background(), "food")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScheduler_RegisterAfterStart(t *testing.T) {
	s := newTestScheduler()
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	fired := make(chan struct{}, 1)
	require.NoError(t, s.Register("late", 20*time.Millisecond, false, func(context.Context) {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("job registered after start never fired")
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.LastFired(ctx, "j")
	require.NoError(t, err)
	assert.False(t, ok)

	now := time.Now()
	require.NoError(t, store.SetLastFired(ctx, "j", now))

	got, ok, err := store.LastFired(ctx, "j")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, now, got)
}
