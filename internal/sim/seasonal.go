package sim

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/polishedworld/simcore/internal/game/calendar"
	"github.com/polishedworld/simcore/internal/game/resource"
)

// defaultSeasonalModifiers supplies per-resource-type seasonal maxima
// for node types that do not carry their own modifier table.
var defaultSeasonalModifiers = map[string]map[calendar.Season]float64{
	"berries": {
		calendar.Winter: 0.1,
		calendar.Spring: 0.5,
		calendar.Summer: 1.5,
		calendar.Autumn: 0.8,
	},
	"herbs": {
		calendar.Winter: 0.2,
		calendar.Spring: 1.2,
		calendar.Summer: 1.0,
		calendar.Autumn: 0.7,
	},
	"mushrooms": {
		calendar.Winter: 0.5,
		calendar.Spring: 1.0,
		calendar.Summer: 0.7,
		calendar.Autumn: 1.5,
	},
	"roots": {
		calendar.Winter: 0.8,
		calendar.Spring: 1.0,
		calendar.Summer: 0.8,
		calendar.Autumn: 1.2,
	},
	"game": {
		calendar.Winter: 0.7,
		calendar.Spring: 1.2,
		calendar.Summer: 1.0,
		calendar.Autumn: 1.3,
	},
}

// specialEvents maps (month, day) dates to holiday announcements.
var specialEvents = map[[2]int]string{
	{11, 15}: "The Winter Solstice approaches! Prepare for the longest night.",
	{2, 1}:   "The Spring Equinox! Day and night are in balance.",
	{5, 15}:  "Midsummer Festival! The steam engines run at peak efficiency.",
	{8, 1}:   "Harvest Festival begins! Time to preserve food for winter.",
}

// runSeasonal detects season transitions, reweights resource node
// maxima for the new season, and announces date-bound special events.
func (s *Sim) runSeasonal() {
	now := s.nowFn()
	gameTime := s.clock.At(now)
	season := s.clock.SeasonAt(now)

	s.mu.Lock()
	changed := season != s.lastSeason
	s.lastSeason = season
	s.mu.Unlock()

	if changed {
		s.sink.WorldEvent(seasonMessage(season, calendar.MonthName(gameTime.Month)))
		s.applySeason(season)
		s.logger.Info("season changed",
			zap.String("season", string(season)),
			zap.String("month", calendar.MonthName(gameTime.Month)))
	}

	if msg, ok := specialEvents[[2]int{gameTime.Month, gameTime.Day}]; ok {
		s.sink.WorldEvent(msg)
	}
}

// applySeason rescales every node's maximum for the season, filling in
// the default modifier table for node types that lack their own entry.
func (s *Sim) applySeason(season calendar.Season) {
	for _, room := range s.world.Rooms() {
		room.WithNodes(func(nodes map[string]*resource.Node) {
			for _, node := range nodes {
				defaults, ok := defaultSeasonalModifiers[node.Type]
				if !ok {
					continue
				}
				if node.SeasonalModifier == nil {
					node.SeasonalModifier = make(map[calendar.Season]float64, len(defaults))
				}
				if _, has := node.SeasonalModifier[season]; !has {
					node.SeasonalModifier[season] = defaults[season]
				}
			}
			resource.ApplySeasonAll(nodes, season)
		})
	}
}

// seasonMessage returns the world announcement for a season change.
func seasonMessage(season calendar.Season, monthName string) string {
	switch season {
	case calendar.Winter:
		return fmt.Sprintf("The month of %s brings winter's icy grip! The land is covered in frost and snow. Prepare warm clothing and shelter!", monthName)
	case calendar.Spring:
		return fmt.Sprintf("The month of %s heralds spring! The ice melts and new life emerges. Foraging becomes easier.", monthName)
	case calendar.Summer:
		return fmt.Sprintf("The month of %s brings summer heat! The sun blazes overhead. Stay hydrated and seek shade during midday.", monthName)
	case calendar.Autumn:
		return fmt.Sprintf("The month of %s marks autumn's arrival! The leaves turn golden and the harvest season begins.", monthName)
	default:
		return fmt.Sprintf("The month of %s brings the %s season!", monthName, season)
	}
}
