// Package crafting resolves the quality of crafted items from the
// crafter's skill, tools, and stats.
package crafting

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/polishedworld/simcore/internal/game/dice"
)

// Tier names the quality band of a crafted item.
type Tier string

const (
	TierPoor       Tier = "poor"
	TierAverage    Tier = "average"
	TierGood       Tier = "good"
	TierFine       Tier = "fine"
	TierExcellent  Tier = "excellent"
	TierMasterwork Tier = "masterwork"
)

// tierThresholds maps the minimum skill-minus-difficulty margin to a
// tier, scanned in descending order. Margins below the lowest entry
// resolve to poor.
var tierThresholds = []struct {
	Margin int
	Tier   Tier
}{
	{30, TierMasterwork},
	{20, TierExcellent},
	{10, TierFine},
	{0, TierGood},
	{-10, TierAverage},
	{-20, TierPoor},
}

// Modifier bounds for crafted item attributes.
const (
	MinModifier = 0.5
	MaxModifier = 2.0
)

// baselineStat is the stat score that contributes no bonus.
const baselineStat = 10

// TierFor returns the quality tier for a skill level measured against a
// recipe difficulty.
func TierFor(skill, difficulty int) Tier {
	margin := skill - difficulty
	for _, t := range tierThresholds {
		if margin >= t.Margin {
			return t.Tier
		}
	}
	return TierPoor
}

// Recipe describes a craftable output. Difficulty is measured on the
// same 0-100 scale as skills. StatWeight scales how much StatName
// contributes to the quality modifier; zero disables the stat bonus.
type Recipe struct {
	Name       string
	Skill      string
	Difficulty int
	CraftTime  time.Duration
	Category   string
	StatName   string
	StatWeight float64
}

// Item is a fully formed crafted item descriptor. All quality-dependent
// fields are computed once at creation.
type Item struct {
	ID          uuid.UUID
	Name        string
	DisplayName string
	Tier        Tier
	Modifier    float64
	CraftedBy   string
	CraftedAt   time.Time
}

// Result reports the outcome of a crafting attempt.
type Result struct {
	Success   bool
	Item      *Item
	Tier      Tier
	Modifier  float64
	SkillGain int
}

// SuccessChance returns the probability that a crafting attempt
// succeeds at the given skill level, from 0.5 at skill 0 to 1.0 at
// skill 100.
func SuccessChance(skill int) float64 {
	return 0.5 + float64(skill)/200.0
}

// SkillGain returns the skill points awarded for completing a recipe of
// the given difficulty. Harder recipes teach more.
func SkillGain(difficulty int) int {
	gain := difficulty / 20
	if gain < 1 {
		return 1
	}
	return gain
}

// ResolveQuality computes the quality tier and attribute modifier for a
// crafting attempt.
//
// The modifier starts at 1.0 plus one percent per point of skill margin,
// adjusted by the mean tool bonus ((quality-50)/200 per tool) and a
// ±10% roll from src, then by the stat bonus (0.02 per point above 10,
// scaled by statWeight). The final value is clamped to
// [MinModifier, MaxModifier].
//
// Precondition: src must not be nil.
func ResolveQuality(skill, difficulty int, toolQualities []int, statValue int, statWeight float64, src dice.Source) (Tier, float64) {
	margin := skill - difficulty

	modifier := 1.0 + float64(margin)/100.0

	if len(toolQualities) > 0 {
		var toolBonus float64
		for _, q := range toolQualities {
			toolBonus += float64(q-50) / 200.0
		}
		modifier += toolBonus / float64(len(toolQualities))
	}

	modifier *= 0.9 + src.Float64()*0.2

	if statWeight > 0 {
		modifier += float64(statValue-baselineStat) * 0.02 * statWeight
	}

	modifier = clamp(modifier, MinModifier, MaxModifier)

	return TierFor(skill, difficulty), modifier
}

// ErrSkillTooLow is returned by Craft when the crafter does not meet
// the recipe difficulty.
type ErrSkillTooLow struct {
	Recipe     string
	Skill      string
	Difficulty int
}

func (e *ErrSkillTooLow) Error() string {
	return fmt.Sprintf("crafting %s requires %s skill %d", e.Recipe, e.Skill, e.Difficulty)
}

// Craft performs a full crafting attempt against a recipe. It verifies
// the skill requirement, rolls for success, resolves quality, and on
// success builds the item descriptor.
//
// Postcondition: on success the returned Result carries a non-nil Item
// and the skill gain earned; on a failed roll Success is false and the
// materials are considered lost.
func Craft(r Recipe, crafter string, skill, statValue int, toolQualities []int, now time.Time, src dice.Source) (Result, error) {
	if skill < r.Difficulty {
		return Result{}, &ErrSkillTooLow{Recipe: r.Name, Skill: r.Skill, Difficulty: r.Difficulty}
	}

	if src.Float64() > SuccessChance(skill) {
		return Result{Success: false}, nil
	}

	tier, modifier := ResolveQuality(skill, r.Difficulty, toolQualities, statValue, r.StatWeight, src)

	return Result{
		Success:   true,
		Item:      BuildItem(r.Name, tier, modifier, crafter, now),
		Tier:      tier,
		Modifier:  modifier,
		SkillGain: SkillGain(r.Difficulty),
	}, nil
}

// BuildItem constructs a crafted item descriptor. The display name is
// prefixed with the tier for anything other than average quality.
func BuildItem(name string, tier Tier, modifier float64, crafter string, now time.Time) *Item {
	display := name
	if tier != TierAverage {
		display = string(tier) + " " + name
	}
	return &Item{
		ID:          uuid.New(),
		Name:        name,
		DisplayName: display,
		Tier:        tier,
		Modifier:    modifier,
		CraftedBy:   crafter,
		CraftedAt:   now,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
