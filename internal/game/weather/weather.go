// Package weather implements the per-room weather state machine. Tag sets
// are regenerated from a season-weighted probability table with an injected
// randomness source, so runs are reproducible under a seeded source.
package weather

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/polishedworld/simcore/internal/config"
	"github.com/polishedworld/simcore/internal/game/calendar"
	"github.com/polishedworld/simcore/internal/game/dice"
)

// Tag identifies a single weather condition. A room's weather is a set of
// tags rather than one state, so rain and wind can hold at once.
type Tag string

// Weather tags.
const (
	TagClear  Tag = "clear"
	TagCloudy Tag = "cloudy"
	TagRain   Tag = "rain"
	TagFog    Tag = "fog"
	TagSnow   Tag = "snow"
	TagStorm  Tag = "storm"
	TagWind   Tag = "wind"
)

// baseCategories fixes the iteration order of the cumulative roll so that a
// given seed always produces the same outcome regardless of map ordering.
var baseCategories = []Tag{TagClear, TagCloudy, TagRain, TagFog, TagSnow, TagStorm}

const (
	rainStormUpgradeChance = 0.30
	snowWindUpgradeChance  = 0.50
)

type weightedCategory struct {
	category   Tag
	cumulative float64
}

// Generator produces weather tag sets for a season.
type Generator struct {
	tables map[calendar.Season][]weightedCategory
	src    dice.Source
	logger *zap.Logger
}

// NewGenerator builds a Generator from the configured seasonal tables.
//
// Precondition: cfg must satisfy config validation; src and logger non-nil.
// Postcondition: Every configured season has a cumulative table in canonical
// category order.
func NewGenerator(cfg config.WeatherConfig, src dice.Source, logger *zap.Logger) (*Generator, error) {
	tables := make(map[calendar.Season][]weightedCategory, len(cfg.Seasonal))
	for season, probs := range cfg.Seasonal {
		var table []weightedCategory
		sum := 0.0
		for _, category := range baseCategories {
			p, ok := probs[string(category)]
			if !ok {
				continue
			}
			sum += p
			table = append(table, weightedCategory{category: category, cumulative: sum})
		}
		if len(table) == 0 {
			return nil, fmt.Errorf("weather: season %q has no known categories", season)
		}
		tables[calendar.Season(season)] = table
	}
	return &Generator{tables: tables, src: src, logger: logger}, nil
}

// Generate rolls a fresh tag set for the given season.
//
// Postcondition: Returns a non-empty tag set. Unknown seasons produce clear
// weather.
func (g *Generator) Generate(season calendar.Season) map[Tag]bool {
	table, ok := g.tables[season]
	if !ok {
		g.logger.Warn("no weather table for season, defaulting to clear",
			zap.String("season", string(season)),
		)
		return map[Tag]bool{TagClear: true}
	}

	roll := g.src.Float64()
	category := TagClear
	for _, wc := range table {
		if roll < wc.cumulative {
			category = wc.category
			break
		}
	}

	tags := g.expand(category)
	g.logger.Debug("weather generated",
		zap.String("season", string(season)),
		zap.Float64("roll", roll),
		zap.String("category", string(category)),
		zap.Strings("tags", sortedTags(tags)),
	)
	return tags
}

// expand maps a base category to its final tag set, applying compound
// upgrades for rain and snow.
func (g *Generator) expand(category Tag) map[Tag]bool {
	switch category {
	case TagRain:
		if g.src.Float64() < rainStormUpgradeChance {
			return map[Tag]bool{TagRain: true, TagStorm: true, TagWind: true}
		}
		return map[Tag]bool{TagRain: true}
	case TagSnow:
		if g.src.Float64() < snowWindUpgradeChance {
			return map[Tag]bool{TagSnow: true, TagWind: true}
		}
		return map[Tag]bool{TagSnow: true}
	case TagStorm:
		return map[Tag]bool{TagRain: true, TagStorm: true, TagWind: true}
	default:
		return map[Tag]bool{category: true}
	}
}

// announcement messages for new weather, in priority order.
var announcements = []struct {
	tag     Tag
	message string
}{
	{TagStorm, "A violent storm rolls in!"},
	{TagRain, "Rain begins to fall."},
	{TagSnow, "Snow begins to fall."},
	{TagFog, "Fog rolls in, obscuring the landscape."},
}

const clearedMessage = "The clouds part, revealing clear skies."

// Announce returns the single announcement for a tag-set change, chosen by
// fixed priority: new storm, new rain, new snow, new fog, then clearing.
// Returns "" when nothing announcement-worthy changed.
//
// Postcondition: At most one message per transition.
func Announce(old, new map[Tag]bool) string {
	for _, a := range announcements {
		if new[a.tag] && !old[a.tag] {
			return a.message
		}
	}
	if new[TagClear] && !old[TagClear] {
		return clearedMessage
	}
	return ""
}

// Equal reports whether two tag sets hold the same tags.
func Equal(a, b map[Tag]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for tag := range a {
		if !b[tag] {
			return false
		}
	}
	return true
}

func sortedTags(tags map[Tag]bool) []string {
	ordered := make([]string, 0, len(tags))
	for _, t := range []Tag{TagClear, TagCloudy, TagRain, TagFog, TagSnow, TagStorm, TagWind} {
		if tags[t] {
			ordered = append(ordered, string(t))
		}
	}
	return ordered
}
