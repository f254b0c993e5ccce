// Package main provides the simulation server binary that runs the
// periodic world simulation jobs against loaded room content.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/polishedworld/simcore/internal/config"
	"github.com/polishedworld/simcore/internal/game/calendar"
	"github.com/polishedworld/simcore/internal/game/dice"
	"github.com/polishedworld/simcore/internal/game/weather"
	"github.com/polishedworld/simcore/internal/game/world"
	"github.com/polishedworld/simcore/internal/observability"
	"github.com/polishedworld/simcore/internal/scheduler"
	"github.com/polishedworld/simcore/internal/server"
	"github.com/polishedworld/simcore/internal/sim"
	"github.com/polishedworld/simcore/internal/storage/postgres"
)

// logSink logs world and room events. A host game server would deliver
// these to connected players instead.
type logSink struct {
	logger *zap.Logger
}

func (s *logSink) RoomEvent(roomID, text string) {
	s.logger.Info("room event", zap.String("room_id", roomID), zap.String("text", text))
}

func (s *logSink) WorldEvent(text string) {
	s.logger.Info("world event", zap.String("text", text))
}

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	roomsDir := flag.String("rooms", "content", "path to room YAML content directory")
	epochStr := flag.String("epoch", "2024-01-01T00:00:00Z", "real-world instant of game calendar zero (RFC 3339)")
	inMemory := flag.Bool("in-memory", false, "keep job state in memory instead of PostgreSQL")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	epoch, err := time.Parse(time.RFC3339, *epochStr)
	if err != nil {
		logger.Fatal("parsing epoch", zap.Error(err))
	}
	clock := calendar.NewClock(cfg.Calendar, epoch)

	// Load world content
	roomStart := time.Now()
	rooms, err := world.LoadRoomsFromDir(*roomsDir)
	if err != nil {
		logger.Fatal("loading rooms", zap.Error(err))
	}
	w, err := world.NewFromRooms(rooms)
	if err != nil {
		logger.Fatal("building world", zap.Error(err))
	}
	logger.Info("world loaded",
		zap.Int("rooms", w.RoomCount()),
		zap.Duration("elapsed", time.Since(roomStart)),
	)

	gen, err := weather.NewGenerator(cfg.Weather, dice.NewCryptoSource(), logger)
	if err != nil {
		logger.Fatal("building weather generator", zap.Error(err))
	}

	// Connect to PostgreSQL for scheduler job state
	var store scheduler.StateStore = scheduler.NewMemoryStore()
	var db *postgres.DB
	if !*inMemory {
		db, err = postgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		store = postgres.NewJobStateRepository(db.Pool())
	}

	simulation := sim.New(w, clock, gen, cfg.Scheduler, logger,
		sim.WithSink(&logSink{logger: logger}),
	)

	sched := scheduler.New(logger, scheduler.WithStore(store))
	if err := simulation.RegisterAll(sched, cfg.Scheduler); err != nil {
		logger.Fatal("registering simulation jobs", zap.Error(err))
	}

	// Wire the host
	host := server.NewHost(logger)

	host.Add("scheduler", &server.FuncService{
		StartFn: func(runCtx context.Context) error {
			if err := sched.Start(runCtx); err != nil {
				return err
			}
			gameTime := clock.At(time.Now())
			logger.Info("simulation running",
				zap.String("game_time", gameTime.String()),
				zap.String("season", string(clock.SeasonAt(time.Now()))),
			)
			<-runCtx.Done()
			return nil
		},
		StopFn: func(context.Context) error {
			sched.Stop()
			return nil
		},
	})

	if db != nil {
		host.Add("postgres", &server.FuncService{
			StartFn: func(runCtx context.Context) error {
				ticker := time.NewTicker(30 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-runCtx.Done():
						return nil
					case <-ticker.C:
						if err := db.Health(runCtx, 5*time.Second); err != nil {
							logger.Warn("database health check failed", zap.Error(err))
						}
					}
				}
			},
			StopFn: func(context.Context) error {
				db.Close()
				return nil
			},
		})
	}

	logger.Info("simulation server initialized",
		zap.Duration("startup", time.Since(start)),
	)

	if err := host.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
