package character

import (
	"errors"

	"github.com/polishedworld/simcore/internal/config"
	"github.com/polishedworld/simcore/internal/game/dice"
	"github.com/polishedworld/simcore/internal/game/equipment"
)

var statRoll = dice.MustParse("3d6")

// Option customizes a character under construction.
type Option func(*Character)

// WithStats replaces the baseline attribute scores.
func WithStats(stats Stats) Option {
	return func(c *Character) {
		c.Stats = stats
	}
}

// WithRolledStats generates every attribute score by rolling 3d6 using
// the given source.
//
// Precondition: src must be non-nil.
func WithRolledStats(src dice.Source) Option {
	return func(c *Character) {
		roll := func() int {
			r, err := dice.Roll(statRoll, src)
			if err != nil {
				return baselineScore
			}
			return r.Total()
		}
		c.Stats = Stats{
			Strength:     roll(),
			Dexterity:    roll(),
			Constitution: roll(),
			Intelligence: roll(),
			Wisdom:       roll(),
			Charisma:     roll(),
		}
	}
}

// WithSkill sets a starting skill level, clamped to [0, 100].
func WithSkill(name string, level int) Option {
	return func(c *Character) {
		c.SetSkill(name, level)
	}
}

// WithEquipment wears the given items during construction.
func WithEquipment(items ...*equipment.Item) Option {
	return func(c *Character) {
		for _, item := range items {
			c.Loadout.Wear(item)
		}
	}
}

// Build constructs a character with full survival gauges and the given
// options applied in order.
//
// Precondition: name must be non-empty.
// Postcondition: Returns a ready Character or a non-nil error.
func Build(name string, survival config.SurvivalConfig, opts ...Option) (*Character, error) {
	if name == "" {
		return nil, errors.New("character name must not be empty")
	}
	c := New(name, survival)
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}
