package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/polishedworld/simcore/internal/game/environment"
	"github.com/polishedworld/simcore/internal/game/food"
	"github.com/polishedworld/simcore/internal/game/resource"
	"github.com/polishedworld/simcore/internal/game/trait"
	"github.com/polishedworld/simcore/internal/game/weather"
)

const collapseMessage = "You collapse from exposure!"

// runSurvival advances every active character's gauges by the game time
// elapsed since the previous firing, under the environmental rate
// modifiers of the character's room.
func (s *Sim) runSurvival() {
	now := s.nowFn()

	s.mu.Lock()
	elapsed := s.clock.ElapsedGameSeconds(s.lastSurvival, now)
	s.lastSurvival = now
	s.mu.Unlock()

	if elapsed <= 0 {
		return
	}

	gameTime := s.clock.At(now)
	season := s.clock.SeasonAt(now)
	updated := 0

	for _, c := range s.world.Characters() {
		cond := environment.Conditions{
			Season:    season,
			TimeOfDay: gameTime.TimeOfDay(),
			Indoor:    true,
		}
		if room, ok := s.world.Room(c.RoomID); ok {
			cond.Indoor = room.Indoor
			cond.WeatherTags = room.WeatherMap()
		}
		prot := environment.Protection{
			TotalWarmth:    c.TotalWarmth(),
			ProtectionTags: c.ProtectionTags(),
		}
		eff := environment.Compute(cond, prot)

		collapsed := false
		c.WithGauges(func(gauges *trait.GaugeSet) {
			if g := gauges.Builtin(trait.Hunger); g != nil {
				g.ApplyRate(elapsed, eff.HungerRateMod)
			}
			if g := gauges.Builtin(trait.Thirst); g != nil {
				g.ApplyRate(elapsed, eff.ThirstRateMod)
			}
			if g := gauges.Builtin(trait.Fatigue); g != nil {
				g.ApplyRate(elapsed, eff.FatigueRateMod)
			}
			if g := gauges.Builtin(trait.Health); g != nil && eff.HealthDrain > 0 {
				wasDown := g.AtFloor()
				g.Modify(-float64(eff.HealthDrain))
				collapsed = !wasDown && g.AtFloor()
			}
		})

		for _, msg := range eff.Messages {
			c.Notify(msg)
		}
		if collapsed {
			c.Notify(collapseMessage)
			s.sink.RoomEvent(c.RoomID, fmt.Sprintf("%s collapses from exposure!", c.Name))
		}
		updated++
	}

	if updated > 0 {
		s.logger.Debug("survival tick applied",
			zap.Int("characters", updated),
			zap.Float64("elapsed_game_seconds", elapsed))
	}
}

// runWeather regenerates the weather tag set of every outdoor room and
// announces notable transitions to the room.
func (s *Sim) runWeather() {
	season := s.clock.SeasonAt(s.nowFn())
	for _, room := range s.world.OutdoorRooms() {
		old := room.WeatherMap()
		next := s.gen.Generate(season)
		room.SetWeather(next)
		if msg := weather.Announce(old, next); msg != "" {
			s.sink.RoomEvent(room.ID, msg)
		}
	}
}

// runResource regenerates every finite resource node toward its
// seasonal maximum.
func (s *Sim) runResource() {
	for _, room := range s.world.Rooms() {
		room.WithNodes(func(nodes map[string]*resource.Node) {
			resource.RegenerateAll(nodes)
		})
	}
}

// runFoodDecay ages every tracked perishable and reports one-shot state
// transitions.
func (s *Sim) runFoodDecay() {
	now := s.nowFn()
	events := food.DecayAll(s.world.Perishables(), now)
	for _, ev := range events {
		switch ev.Event {
		case food.EventSpoiling:
			s.sink.WorldEvent(fmt.Sprintf("%s is beginning to spoil.", ev.Item.Name))
		case food.EventSpoiled:
			s.sink.WorldEvent(fmt.Sprintf("%s has spoiled!", ev.Item.Name))
		}
	}
	if len(events) > 0 {
		s.logger.Debug("food items changed state", zap.Int("count", len(events)))
	}
}

// runFoodSweep removes fully spoiled items whose real-time retention
// window has passed. This is housekeeping, separate from the decay
// cadence.
func (s *Sim) runFoodSweep() {
	now := s.nowFn()
	_, removed := food.SweepSpoiled(s.world.Perishables(), now, s.retention)
	for _, item := range removed {
		s.world.RemovePerishable(item.ID)
	}
	if len(removed) > 0 {
		s.logger.Info("swept spoiled food", zap.Int("removed", len(removed)))
	}
}

// runFuel burns fuel on every running steam engine and reports engines
// that die of exhaustion.
func (s *Sim) runFuel() {
	shutdowns := 0
	for _, e := range s.world.Engines() {
		if msg := e.ConsumeTick(); msg != "" {
			s.sink.WorldEvent(msg)
			shutdowns++
		}
	}
	if shutdowns > 0 {
		s.logger.Info("engines ran out of fuel", zap.Int("count", shutdowns))
	}
}
