// Package resource models harvestable resource nodes: regenerating, finite
// or unlimited quantities of gatherable material, gated by tool and skill
// and scaled by season and weather.
package resource

import (
	"math"

	"github.com/polishedworld/simcore/internal/game/calendar"
	"github.com/polishedworld/simcore/internal/game/weather"
)

// Unlimited marks a node whose quantity never depletes.
const Unlimited = -1

// Resource type that benefits from wet weather instead of being penalized.
const TypeWater = "water"

// Node is a room-bound harvestable resource.
//
// Invariant: finite Current is never negative; Current <= Max after
// regeneration.
type Node struct {
	Type             string
	Current          float64 // Unlimited (-1) means never depleted
	Max              float64
	BaseMax          float64
	RegenRate        float64
	SeasonalModifier map[calendar.Season]float64
	ToolRequired     string
	SkillRequired    string
	MinSkill         int
}

// IsUnlimited reports whether the node never depletes.
func (n *Node) IsUnlimited() bool {
	return n.Current == Unlimited
}

// seasonalMod returns the node's modifier for a season, defaulting to 1.0.
func (n *Node) seasonalMod(season calendar.Season) float64 {
	if mod, ok := n.SeasonalModifier[season]; ok {
		return mod
	}
	return 1.0
}

// Regenerate advances the node by one regeneration tick:
// current = min(current + regenRate, max). Unlimited nodes are untouched.
//
// Postcondition: Current <= Max for finite nodes.
func (n *Node) Regenerate() {
	if n.IsUnlimited() {
		return
	}
	n.Current = math.Min(n.Current+n.RegenRate, n.Max)
}

// ApplySeason recomputes the node's capacity for a new season:
// max = floor(baseMax * seasonalModifier[season]). Called once at each
// season boundary, not every tick.
//
// Postcondition: Current <= Max for finite nodes.
func (n *Node) ApplySeason(season calendar.Season) {
	n.Max = math.Floor(n.BaseMax * n.seasonalMod(season))
	if !n.IsUnlimited() && n.Current > n.Max {
		n.Current = n.Max
	}
}

// Failure reasons for Extract.
const (
	ReasonNeedTool  = "need tool"
	ReasonNeedSkill = "need skill"
	ReasonDepleted  = "depleted"
)

// ExtractResult reports the outcome of a harvest attempt. Failures are
// result values, never errors.
type ExtractResult struct {
	Success bool
	Reason  string
	Amount  int
	ExpGain int
}

// Extract attempts to harvest from the node under the given conditions.
// Availability scales with the season modifier and a weather penalty: 0.5
// under storm or snow, 0.8 under rain, 1.0 otherwise. Water nodes double
// under rain or snow instead. Skill grants up to a 2x bonus at level 100.
//
// Postcondition: On success Amount >= 1 and finite Current never goes
// negative; unlimited nodes are never decremented.
func (n *Node) Extract(requested int, skillLevel int, hasTool bool, season calendar.Season, weatherTags map[weather.Tag]bool) ExtractResult {
	if n.ToolRequired != "" && !hasTool {
		return ExtractResult{Reason: ReasonNeedTool}
	}
	if n.SkillRequired != "" && skillLevel < n.MinSkill {
		return ExtractResult{Reason: ReasonNeedSkill}
	}
	if !n.IsUnlimited() && n.Current == 0 {
		return ExtractResult{Reason: ReasonDepleted}
	}

	availability := n.seasonalMod(season) * n.weatherFactor(weatherTags)
	skillBonus := 1 + float64(skillLevel)/100

	base := float64(requested)
	if !n.IsUnlimited() {
		base = math.Min(base, n.Current)
	}

	amount := int(math.Floor(base * availability * skillBonus))
	if amount < 1 {
		amount = 1
	}

	if !n.IsUnlimited() {
		n.Current -= float64(amount)
		if n.Current < 0 {
			n.Current = 0
		}
	}

	expGain := int(math.Floor(1 + float64(n.MinSkill)/20))
	if expGain < 1 {
		expGain = 1
	}

	return ExtractResult{Success: true, Amount: amount, ExpGain: expGain}
}

// weatherFactor returns the weather multiplier on availability.
func (n *Node) weatherFactor(tags map[weather.Tag]bool) float64 {
	wet := tags[weather.TagRain] || tags[weather.TagSnow]
	if n.Type == TypeWater && wet {
		return 2.0
	}
	switch {
	case tags[weather.TagStorm] || tags[weather.TagSnow]:
		return 0.5
	case tags[weather.TagRain]:
		return 0.8
	default:
		return 1.0
	}
}

// RegenerateAll runs one regeneration tick over every node.
func RegenerateAll(nodes map[string]*Node) {
	for _, n := range nodes {
		n.Regenerate()
	}
}

// ApplySeasonAll recomputes capacity for every node at a season boundary.
func ApplySeasonAll(nodes map[string]*Node, season calendar.Season) {
	for _, n := range nodes {
		n.ApplySeason(season)
	}
}
