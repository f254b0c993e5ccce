// Package sim implements the periodic simulation jobs: survival gauge
// decay, weather regeneration, resource regrowth, food spoilage,
// seasonal transitions, and machine fuel consumption. Each job is
// registered with the scheduler under its own cadence.
package sim

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/polishedworld/simcore/internal/config"
	"github.com/polishedworld/simcore/internal/game/calendar"
	"github.com/polishedworld/simcore/internal/game/weather"
	"github.com/polishedworld/simcore/internal/game/world"
	"github.com/polishedworld/simcore/internal/scheduler"
)

// Job identifiers as registered with the scheduler.
const (
	JobSurvival  = "survival"
	JobWeather   = "weather"
	JobResource  = "resource_regen"
	JobFoodDecay = "food_decay"
	JobFoodSweep = "food_sweep"
	JobSeasonal  = "seasonal"
	JobFuel      = "fuel"
)

// sweepInterval is the cadence of the spoiled-food maintenance pass. It
// only needs to run often enough that spoiled items do not long outlive
// their retention window.
const sweepInterval = time.Hour

// EventSink receives world-visible events for the host to deliver.
// Per-character messages go through each character's Notifier instead.
type EventSink interface {
	// RoomEvent reports an event visible in a single room.
	RoomEvent(roomID, text string)
	// WorldEvent reports an event visible everywhere.
	WorldEvent(text string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) RoomEvent(string, string) {}
func (NopSink) WorldEvent(string)        {}

// Sim owns the periodic job callbacks and the per-job state they carry
// between firings.
type Sim struct {
	world     *world.World
	clock     *calendar.Clock
	gen       *weather.Generator
	sink      EventSink
	logger    *zap.Logger
	nowFn     func() time.Time
	retention time.Duration

	mu           sync.Mutex
	lastSurvival time.Time
	lastSeason   calendar.Season
}

// Option configures a Sim.
type Option func(*Sim)

// WithClockFunc overrides the real-time source for tests.
func WithClockFunc(nowFn func() time.Time) Option {
	return func(s *Sim) { s.nowFn = nowFn }
}

// WithSink sets the host's event sink. Defaults to NopSink.
func WithSink(sink EventSink) Option {
	return func(s *Sim) { s.sink = sink }
}

// New creates a Sim over the given world state.
//
// Postcondition: the survival job's elapsed-time baseline and the
// seasonal job's season baseline are initialized to now, so the first
// firing of each applies no retroactive time.
func New(w *world.World, clock *calendar.Clock, gen *weather.Generator, cfg config.SchedulerConfig, logger *zap.Logger, opts ...Option) *Sim {
	s := &Sim{
		world:     w,
		clock:     clock,
		gen:       gen,
		sink:      NopSink{},
		logger:    logger,
		nowFn:     time.Now,
		retention: cfg.FoodRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	now := s.nowFn()
	s.lastSurvival = now
	s.lastSeason = clock.SeasonAt(now)
	return s
}

// RegisterAll registers every simulation job with the scheduler at the
// configured cadences. The survival, weather, and seasonal jobs persist
// their last-fired time so their cadence survives restarts.
func (s *Sim) RegisterAll(sched *scheduler.Scheduler, cfg config.SchedulerConfig) error {
	jobs := []struct {
		id         string
		interval   time.Duration
		persistent bool
		run        func()
	}{
		{JobSurvival, cfg.SurvivalInterval, true, s.runSurvival},
		{JobWeather, cfg.WeatherInterval, true, s.runWeather},
		{JobResource, cfg.ResourceInterval, false, s.runResource},
		{JobFoodDecay, cfg.FoodDecayInterval, false, s.runFoodDecay},
		{JobFoodSweep, sweepInterval, false, s.runFoodSweep},
		{JobSeasonal, cfg.SeasonalInterval, true, s.runSeasonal},
		{JobFuel, cfg.FuelInterval, false, s.runFuel},
	}
	for _, j := range jobs {
		run := j.run
		if err := sched.Register(j.id, j.interval, j.persistent, func(context.Context) { run() }); err != nil {
			return err
		}
	}
	return nil
}
