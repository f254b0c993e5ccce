// Package scheduler runs named periodic jobs on independent timers with
// failure isolation between them.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/polishedworld/simcore/internal/observability"
)

// Callback is the work a job performs on each firing. The context is
// cancelled when the scheduler stops.
type Callback func(ctx context.Context)

// StateStore persists per-job last-fired timestamps so a restarted
// scheduler can reconstruct each job's next-fire time instead of
// restarting every interval from zero.
type StateStore interface {
	// LastFired returns the persisted last-fired time for a job, with
	// ok false when no record exists.
	LastFired(ctx context.Context, jobID string) (t time.Time, ok bool, err error)
	// SetLastFired records the last-fired time for a job.
	SetLastFired(ctx context.Context, jobID string, t time.Time) error
}

// Status describes one registered job.
type Status struct {
	ID        string
	Interval  time.Duration
	LastFired time.Time
	NextFire  time.Time
	Paused    bool
}

type job struct {
	id         string
	interval   time.Duration
	callback   Callback
	persistent bool
	logger     *zap.Logger

	timer     *time.Timer
	lastFired time.Time
	nextFire  time.Time
	paused    bool
	remaining time.Duration
	running   bool
}

// Scheduler fires registered jobs at fixed per-job cadences. Jobs run
// concurrently with each other but never concurrently with themselves;
// a firing that arrives while the previous one is still running is
// skipped. A panic inside a callback is recovered and logged with the
// job id and never affects other jobs.
type Scheduler struct {
	logger *zap.Logger
	store  StateStore
	nowFn  func() time.Time

	mu      sync.Mutex
	jobs    map[string]*job
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped bool

	wg sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithStore sets the state store used for persistent jobs. Defaults to
// an in-memory store.
func WithStore(store StateStore) Option {
	return func(s *Scheduler) { s.store = store }
}

// WithClock overrides the scheduler's time source for tests.
func WithClock(nowFn func() time.Time) Option {
	return func(s *Scheduler) { s.nowFn = nowFn }
}

// New creates a stopped Scheduler. Register jobs, then call Start.
func New(logger *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger: logger,
		store:  NewMemoryStore(),
		nowFn:  time.Now,
		jobs:   make(map[string]*job),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a named job. Persistent jobs record their last-fired
// time in the state store and resume their cadence across restarts.
//
// Precondition: id must be unique and interval positive.
// Postcondition: The job fires every interval once the scheduler starts.
func (s *Scheduler) Register(id string, interval time.Duration, persistent bool, cb Callback) error {
	if id == "" {
		return fmt.Errorf("scheduler: job id must not be empty")
	}
	if interval <= 0 {
		return fmt.Errorf("scheduler: job %q: interval must be positive, got %s", id, interval)
	}
	if cb == nil {
		return fmt.Errorf("scheduler: job %q: callback must not be nil", id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("scheduler: duplicate job id %q", id)
	}

	j := &job{
		id:         id,
		interval:   interval,
		callback:   cb,
		persistent: persistent,
		logger:     observability.JobLogger(s.logger, id),
	}
	s.jobs[id] = j

	if s.started && !s.stopped {
		s.scheduleLocked(j, interval)
	}
	return nil
}

// Start arms every registered job's timer. For persistent jobs the
// first delay is reconstructed from the stored last-fired time plus the
// interval; a job that is overdue, or whose stored state cannot be
// read, fires once immediately and then resumes its normal cadence.
//
// Precondition: Start must be called at most once.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler: already started")
	}
	s.started = true
	s.ctx, s.cancel = context.WithCancel(ctx)

	now := s.nowFn()
	for _, j := range s.jobs {
		delay := j.interval
		if j.persistent {
			last, ok, err := s.store.LastFired(s.ctx, j.id)
			switch {
			case err != nil:
				j.logger.Warn("job state unreadable, firing immediately", zap.Error(err))
				delay = 0
			case ok:
				j.lastFired = last
				delay = last.Add(j.interval).Sub(now)
				if delay < 0 {
					delay = 0
				}
			}
		}
		s.scheduleLocked(j, delay)
	}

	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop cancels the run context, disarms all timers, and waits for any
// in-flight callbacks to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.cancel()
	for _, j := range s.jobs {
		if j.timer != nil {
			j.timer.Stop()
			j.timer = nil
		}
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// TriggerNow runs a job's callback synchronously, outside its regular
// cadence. The scheduled next-fire time is not changed. Returns an
// error if the job does not exist or is already running.
func (s *Scheduler) TriggerNow(id string) error {
	s.mu.Lock()
	j, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("scheduler: unknown job %q", id)
	}
	if j.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler: job %q is already running", id)
	}
	j.running = true
	ctx := s.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Unlock()

	s.runJob(ctx, j)
	return nil
}

// Pause disarms a job's timer, preserving the time remaining until its
// next firing.
//
// Postcondition: The job does not fire until Resume; the remaining
// delay is carried over rather than reset.
func (s *Scheduler) Pause(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("scheduler: unknown job %q", id)
	}
	if j.paused {
		return nil
	}
	j.paused = true
	j.remaining = j.nextFire.Sub(s.nowFn())
	if j.remaining < 0 {
		j.remaining = 0
	}
	if j.timer != nil {
		j.timer.Stop()
		j.timer = nil
	}
	j.logger.Debug("job paused", zap.Duration("remaining", j.remaining))
	return nil
}

// Resume rearms a paused job with the delay that remained when it was
// paused.
func (s *Scheduler) Resume(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("scheduler: unknown job %q", id)
	}
	if !j.paused {
		return nil
	}
	j.paused = false
	if s.started && !s.stopped {
		s.scheduleLocked(j, j.remaining)
	}
	j.logger.Debug("job resumed")
	return nil
}

// Status reports all registered jobs sorted by id.
func (s *Scheduler) Status() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]Status, 0, len(s.jobs))
	for _, j := range s.jobs {
		statuses = append(statuses, Status{
			ID:        j.id,
			Interval:  j.interval,
			LastFired: j.lastFired,
			NextFire:  j.nextFire,
			Paused:    j.paused,
		})
	}
	sort.Slice(statuses, func(i, k int) bool { return statuses[i].ID < statuses[k].ID })
	return statuses
}

// scheduleLocked arms a job's timer to fire after delay.
//
// Precondition: s.mu must be held.
func (s *Scheduler) scheduleLocked(j *job, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	j.nextFire = s.nowFn().Add(delay)
	j.timer = time.AfterFunc(delay, func() { s.fire(j) })
}

// fire handles one timer expiry: it rearms the timer at the fixed
// cadence first, then runs the callback unless the previous invocation
// is still in flight, in which case this firing is skipped.
func (s *Scheduler) fire(j *job) {
	s.mu.Lock()
	if s.stopped || j.paused {
		s.mu.Unlock()
		return
	}
	s.scheduleLocked(j, j.interval)
	if j.running {
		s.mu.Unlock()
		j.logger.Warn("job still running, skipping firing")
		return
	}
	j.running = true
	ctx := s.ctx
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.runJob(ctx, j)
	}()
}

// runJob executes a callback with panic recovery and records the
// firing.
//
// Precondition: j.running must have been set by the caller.
func (s *Scheduler) runJob(ctx context.Context, j *job) {
	fired := s.nowFn()

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("job panicked",
					zap.String("job_id", j.id), zap.Any("panic", r))
			}
		}()
		j.callback(ctx)
	}()

	s.mu.Lock()
	j.lastFired = fired
	j.running = false
	persistent := j.persistent
	s.mu.Unlock()

	if persistent {
		if err := s.store.SetLastFired(ctx, j.id, fired); err != nil {
			j.logger.Warn("persisting job state failed", zap.Error(err))
		}
	}
}
