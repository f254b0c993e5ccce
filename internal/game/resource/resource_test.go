package resource_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/polishedworld/simcore/internal/game/calendar"
	"github.com/polishedworld/simcore/internal/game/resource"
	"github.com/polishedworld/simcore/internal/game/weather"
)

func woodNode() *resource.Node {
	return &resource.Node{
		Type:      "wood",
		Current:   5,
		Max:       5,
		BaseMax:   5,
		RegenRate: 1,
		SeasonalModifier: map[calendar.Season]float64{
			calendar.Summer: 1.5,
			calendar.Winter: 0.5,
		},
	}
}

func noWeather() map[weather.Tag]bool {
	return map[weather.Tag]bool{weather.TagClear: true}
}

func TestNode_Regenerate_CapsAtMax(t *testing.T) {
	n := woodNode()
	n.Current = 4.5
	n.Regenerate()
	assert.Equal(t, 5.0, n.Current)
	n.Regenerate()
	assert.Equal(t, 5.0, n.Current)
}

func TestNode_Regenerate_UnlimitedUntouched(t *testing.T) {
	n := &resource.Node{Type: "water", Current: resource.Unlimited, Max: 10, RegenRate: 2}
	n.Regenerate()
	assert.Equal(t, float64(resource.Unlimited), n.Current)
}

func TestNode_ApplySeason(t *testing.T) {
	n := woodNode()
	n.ApplySeason(calendar.Summer)
	assert.Equal(t, 7.0, n.Max, "floor(5 * 1.5)")

	n.ApplySeason(calendar.Winter)
	assert.Equal(t, 2.0, n.Max, "floor(5 * 0.5)")
	assert.Equal(t, 2.0, n.Current, "current clamps down to the new max")

	// Seasons without a modifier default to 1.0.
	n.ApplySeason(calendar.Spring)
	assert.Equal(t, 5.0, n.Max)
}

// Storm halves availability while the summer modifier raises it: the net
// harvest from a request of 3 at skill 0 is 2.
func TestNode_Extract_SummerStorm(t *testing.T) {
	n := woodNode()
	res := n.Extract(3, 0, true, calendar.Summer, map[weather.Tag]bool{weather.TagStorm: true})
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Amount)
	assert.Equal(t, 3.0, n.Current)
	assert.Equal(t, 1, res.ExpGain)
}

func TestNode_Extract_NeedTool(t *testing.T) {
	n := woodNode()
	n.ToolRequired = "axe"
	res := n.Extract(3, 0, false, calendar.Spring, noWeather())
	assert.False(t, res.Success)
	assert.Equal(t, resource.ReasonNeedTool, res.Reason)
	assert.Equal(t, 5.0, n.Current, "failed extraction must not mutate the node")
}

func TestNode_Extract_NeedSkill(t *testing.T) {
	n := woodNode()
	n.SkillRequired = "logging"
	n.MinSkill = 25
	res := n.Extract(3, 10, true, calendar.Spring, noWeather())
	assert.False(t, res.Success)
	assert.Equal(t, resource.ReasonNeedSkill, res.Reason)

	res = n.Extract(3, 25, true, calendar.Spring, noWeather())
	assert.True(t, res.Success)
}

func TestNode_Extract_Depleted(t *testing.T) {
	n := woodNode()
	n.Current = 0
	res := n.Extract(3, 0, true, calendar.Spring, noWeather())
	assert.False(t, res.Success)
	assert.Equal(t, resource.ReasonDepleted, res.Reason)
}

func TestNode_Extract_SkillBonus(t *testing.T) {
	n := woodNode()
	n.Current = 10
	n.Max = 10
	// Skill 100 doubles the harvest: floor(3 * 1.0 * 2.0) = 6.
	res := n.Extract(3, 100, true, calendar.Spring, noWeather())
	assert.True(t, res.Success)
	assert.Equal(t, 6, res.Amount)
	assert.Equal(t, 4.0, n.Current)
}

func TestNode_Extract_RainPenalty(t *testing.T) {
	n := woodNode()
	res := n.Extract(5, 0, true, calendar.Spring, map[weather.Tag]bool{weather.TagRain: true})
	assert.True(t, res.Success)
	assert.Equal(t, 4, res.Amount, "floor(5 * 0.8)")
}

func TestNode_Extract_WaterThrivesInRain(t *testing.T) {
	n := &resource.Node{Type: resource.TypeWater, Current: resource.Unlimited, Max: 10, BaseMax: 10}
	res := n.Extract(3, 0, true, calendar.Spring, map[weather.Tag]bool{weather.TagRain: true})
	assert.True(t, res.Success)
	assert.Equal(t, 6, res.Amount, "water doubles under rain")
	assert.Equal(t, float64(resource.Unlimited), n.Current, "unlimited nodes never deplete")
}

func TestNode_Extract_MinimumOne(t *testing.T) {
	n := woodNode()
	n.Current = 1
	res := n.Extract(1, 0, true, calendar.Winter, map[weather.Tag]bool{weather.TagSnow: true})
	assert.True(t, res.Success)
	// floor(1 * 0.5 * 0.5) = 0, raised to the minimum of 1.
	assert.Equal(t, 1, res.Amount)
	assert.Equal(t, 0.0, n.Current)
}

func TestNode_Extract_ExpGainScalesWithMinSkill(t *testing.T) {
	n := woodNode()
	n.SkillRequired = "logging"
	n.MinSkill = 60
	res := n.Extract(1, 60, true, calendar.Spring, noWeather())
	assert.True(t, res.Success)
	assert.Equal(t, 4, res.ExpGain, "floor(1 + 60/20)")
}

func TestRegenerateAll(t *testing.T) {
	nodes := map[string]*resource.Node{
		"wood":  {Type: "wood", Current: 2, Max: 5, RegenRate: 1},
		"water": {Type: "water", Current: resource.Unlimited, Max: 10, RegenRate: 5},
	}
	resource.RegenerateAll(nodes)
	assert.Equal(t, 3.0, nodes["wood"].Current)
	assert.Equal(t, float64(resource.Unlimited), nodes["water"].Current)
}

// Property-based tests

// TestNode_Extract_NeverNegative_Property verifies finite nodes never go
// negative under arbitrary extraction sequences.
func TestNode_Extract_NeverNegative_Property(t *testing.T) {
	seasons := []calendar.Season{calendar.Winter, calendar.Spring, calendar.Summer, calendar.Autumn}
	weathers := []map[weather.Tag]bool{
		{weather.TagClear: true},
		{weather.TagRain: true},
		{weather.TagSnow: true},
		{weather.TagStorm: true},
	}

	rapid.Check(t, func(rt *rapid.T) {
		n := woodNode()
		n.Current = float64(rapid.IntRange(0, 20).Draw(rt, "current"))
		n.Max = 20
		n.BaseMax = 20

		steps := rapid.IntRange(1, 20).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			n.Extract(
				rapid.IntRange(1, 10).Draw(rt, "requested"),
				rapid.IntRange(0, 100).Draw(rt, "skill"),
				true,
				seasons[rapid.IntRange(0, 3).Draw(rt, "season")],
				weathers[rapid.IntRange(0, 3).Draw(rt, "weather")],
			)
			if n.Current < 0 {
				rt.Fatalf("node went negative: %v", n.Current)
			}
		}
	})
}

// TestNode_Regenerate_NeverExceedsMax_Property verifies regeneration ticks
// never push a node past its capacity.
func TestNode_Regenerate_NeverExceedsMax_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := &resource.Node{
			Type:      "wood",
			Current:   float64(rapid.IntRange(0, 10).Draw(rt, "current")),
			Max:       float64(rapid.IntRange(1, 10).Draw(rt, "max")),
			RegenRate: float64(rapid.IntRange(0, 5).Draw(rt, "rate")),
		}
		if n.Current > n.Max {
			n.Current = n.Max
		}
		for i := 0; i < 10; i++ {
			n.Regenerate()
			if n.Current > n.Max {
				rt.Fatalf("current %v exceeded max %v", n.Current, n.Max)
			}
		}
	})
}
