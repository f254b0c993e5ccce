// Package character defines the character domain model consumed by the
// simulation: survival gauges, skills, worn equipment, and cooldowns.
package character

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/polishedworld/simcore/internal/config"
	"github.com/polishedworld/simcore/internal/game/cooldown"
	"github.com/polishedworld/simcore/internal/game/equipment"
	"github.com/polishedworld/simcore/internal/game/trait"
)

// baselineScore is the attribute value that grants neither bonus nor
// penalty.
const baselineScore = 10

// Stats holds the physical and mental attribute scores for a character.
// The baseline score is 10.
type Stats struct {
	Strength     int
	Dexterity    int
	Constitution int
	Intelligence int
	Wisdom       int
	Charisma     int
}

// BonusRatio returns the cooldown reduction ratio contributed by a score
// above the baseline, at ratePerPoint per point.
//
// Postcondition: Returns 0 for scores at or below baseline.
func BonusRatio(score int, ratePerPoint float64) float64 {
	if score <= baselineScore {
		return 0
	}
	return float64(score-baselineScore) * ratePerPoint
}

// Notifier receives plain semantic messages for a character. The simulation
// never formats rich text.
type Notifier interface {
	Notify(text string)
}

// Character is an active simulated character.
//
// Invariant: safe for concurrent use; all gauge and skill mutation goes
// through the character's lock.
type Character struct {
	ID   uuid.UUID
	Name string

	mu        sync.Mutex
	gauges    *trait.GaugeSet
	skills    map[string]int
	Stats     Stats
	Loadout   *equipment.Loadout
	Cooldowns *cooldown.Set
	RoomID    string
	notifier  Notifier
}

// New creates a character with full survival gauges and no skills.
//
// Postcondition: All four survival gauges exist and start at maximum.
func New(name string, survival config.SurvivalConfig) *Character {
	return &Character{
		ID:        uuid.New(),
		Name:      name,
		gauges:    trait.NewSurvivalGauges(survival),
		skills:    make(map[string]int),
		Stats:     Stats{Strength: 10, Dexterity: 10, Constitution: 10, Intelligence: 10, Wisdom: 10, Charisma: 10},
		Loadout:   equipment.NewLoadout(),
		Cooldowns: cooldown.NewSet(),
	}
}

// SetNotifier attaches the host's message sink for this character.
func (c *Character) SetNotifier(n Notifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifier = n
}

// Notify delivers a plain message to the host sink, if one is attached.
func (c *Character) Notify(text string) {
	c.mu.Lock()
	n := c.notifier
	c.mu.Unlock()
	if n != nil {
		n.Notify(text)
	}
}

// Gauge returns the built-in gauge of the given kind, or nil when the
// character has none.
func (c *Character) Gauge(k trait.Kind) *trait.Gauge {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gauges.Builtin(k)
}

// GaugeByName resolves a gauge through the set's uniform accessor, so
// content-defined extension gauges are reachable as well.
func (c *Character) GaugeByName(name string) *trait.Gauge {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gauges.Gauge(name)
}

// WithGauges runs fn while holding the character lock, giving it exclusive
// access to the gauge set. Used by tick jobs to apply decay atomically.
//
// Precondition: fn must not call back into locking Character methods.
func (c *Character) WithGauges(fn func(gauges *trait.GaugeSet)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.gauges)
}

// Skill returns the character's level in the named skill, zero when unknown.
//
// Postcondition: Returns a value in [0, 100].
func (c *Character) Skill(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skills[name]
}

// GainSkill raises the named skill by amount, capped at 100.
//
// Precondition: amount >= 0.
// Postcondition: Skill(name) <= 100.
func (c *Character) GainSkill(name string, amount int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	level := c.skills[name] + amount
	if level > 100 {
		level = 100
	}
	c.skills[name] = level
	return level
}

// SetSkill assigns the named skill level, clamped to [0, 100].
func (c *Character) SetSkill(name string, level int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if level < 0 {
		level = 0
	}
	if level > 100 {
		level = 100
	}
	c.skills[name] = level
}

// ApplyCooldown starts the named cooldown at base duration, reduced by the
// governing skill and by the constitution bonus at ratePerPoint per point
// above baseline.
//
// Postcondition: Returns the actual duration recorded on the cooldown set.
func (c *Character) ApplyCooldown(name string, base time.Duration, skillName string, ratePerPoint float64) time.Duration {
	c.mu.Lock()
	skill := c.skills[skillName]
	con := c.Stats.Constitution
	c.mu.Unlock()
	return c.Cooldowns.Apply(name, base, skill, BonusRatio(con, ratePerPoint))
}

// TotalWarmth returns the warmth granted by all worn equipment.
func (c *Character) TotalWarmth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Loadout.TotalWarmth()
}

// ProtectionTags returns the union of weather protection tags across worn
// equipment.
func (c *Character) ProtectionTags() map[string]bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Loadout.ProtectionTags()
}
