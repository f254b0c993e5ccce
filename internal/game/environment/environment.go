// Package environment computes survival rate modifiers from the interaction
// of season, time of day, room weather, and worn equipment. All penalty
// branches multiply the running modifiers, so effects stack compositionally.
package environment

import (
	"github.com/polishedworld/simcore/internal/game/calendar"
	"github.com/polishedworld/simcore/internal/game/equipment"
	"github.com/polishedworld/simcore/internal/game/weather"
)

// Conditions describes the room-side inputs to the calculator.
type Conditions struct {
	Season      calendar.Season
	TimeOfDay   calendar.TimeOfDay
	WeatherTags map[weather.Tag]bool
	Indoor      bool
}

// Protection describes the character-side inputs: aggregate warmth and the
// union of weather protection tags from worn equipment.
type Protection struct {
	TotalWarmth    int
	ProtectionTags map[string]bool
}

// Effects is the computed outcome applied by the survival tick.
//
// Invariant: rate modifiers are >= 1.0 and HealthDrain >= 0.
type Effects struct {
	HungerRateMod  float64
	ThirstRateMod  float64
	FatigueRateMod float64
	HealthDrain    int
	Messages       []string
}

// Defaults returns the neutral effect set.
func Defaults() Effects {
	return Effects{HungerRateMod: 1.0, ThirstRateMod: 1.0, FatigueRateMod: 1.0}
}

// Cold exposure tiers, expressed as warmth deficits.
const (
	coldSevereDeficit   = 15
	coldModerateDeficit = 5
	winterColdThreshold = 20
	autumnColdThreshold = 10
	nightColdBonus      = 10
)

// Overdress thresholds for summer heat.
const (
	heatSevereWarmth   = 30
	heatModerateWarmth = 20
)

// Compute derives the environmental effects for a character in a room.
// Indoor rooms short-circuit to the all-default output with no messages,
// regardless of season or weather.
//
// Postcondition: All rate modifiers >= 1.0; HealthDrain >= 0.
func Compute(cond Conditions, prot Protection) Effects {
	eff := Defaults()
	if cond.Indoor {
		return eff
	}

	applyCold(&eff, cond, prot)
	applyHeat(&eff, cond, prot)
	applyPrecipitation(&eff, cond, prot)
	applyWind(&eff, cond, prot)

	return eff
}

// applyCold handles winter cold and autumn-evening chill. The threshold is
// the warmth a character needs to be comfortable; the shortfall picks the
// penalty tier.
func applyCold(eff *Effects, cond Conditions, prot Protection) {
	var threshold int
	switch {
	case cond.Season == calendar.Winter:
		threshold = winterColdThreshold
	case cond.Season == calendar.Autumn &&
		(cond.TimeOfDay == calendar.Night || cond.TimeOfDay == calendar.Evening):
		threshold = autumnColdThreshold
	default:
		return
	}
	if cond.TimeOfDay == calendar.Night {
		threshold += nightColdBonus
	}

	deficit := threshold - prot.TotalWarmth
	switch {
	case deficit > coldSevereDeficit:
		eff.FatigueRateMod *= 2.0
		eff.HealthDrain += 2
		eff.Messages = append(eff.Messages, "You are freezing!")
	case deficit > coldModerateDeficit:
		eff.FatigueRateMod *= 1.5
		eff.HealthDrain++
		eff.Messages = append(eff.Messages, "You are very cold.")
	case deficit > 0:
		eff.FatigueRateMod *= 1.2
		eff.Messages = append(eff.Messages, "You feel chilly.")
	}
}

// applyHeat penalizes overdressing during the hot hours of summer.
func applyHeat(eff *Effects, cond Conditions, prot Protection) {
	if cond.Season != calendar.Summer {
		return
	}
	if cond.TimeOfDay != calendar.Noon && cond.TimeOfDay != calendar.Afternoon {
		return
	}
	switch {
	case prot.TotalWarmth > heatSevereWarmth:
		eff.ThirstRateMod *= 2.0
		eff.FatigueRateMod *= 1.5
		eff.Messages = append(eff.Messages, "You are overheating!")
	case prot.TotalWarmth > heatModerateWarmth:
		eff.ThirstRateMod *= 1.5
		eff.FatigueRateMod *= 1.2
		eff.Messages = append(eff.Messages, "The heat is making you sweat.")
	}
}

// applyPrecipitation penalizes rain and snow exposure when the character
// lacks the matching protection tag.
func applyPrecipitation(eff *Effects, cond Conditions, prot Protection) {
	wet := cond.WeatherTags[weather.TagRain] || cond.WeatherTags[weather.TagStorm]
	if wet && !prot.ProtectionTags[equipment.ProtectRain] {
		eff.FatigueRateMod *= 1.3
		if cond.Season == calendar.Winter {
			eff.HealthDrain++
			eff.Messages = append(eff.Messages, "The cold rain chills you to the bone.")
		} else {
			eff.Messages = append(eff.Messages, "You are getting soaked.")
		}
	}

	if cond.WeatherTags[weather.TagSnow] && !prot.ProtectionTags[equipment.ProtectSnow] {
		eff.FatigueRateMod *= 1.4
		eff.Messages = append(eff.Messages, "Snow clings to your clothes.")
	}
}

// applyWind penalizes unprotected wind exposure, winter only.
func applyWind(eff *Effects, cond Conditions, prot Protection) {
	windy := cond.WeatherTags[weather.TagWind] || cond.WeatherTags[weather.TagStorm]
	if windy && !prot.ProtectionTags[equipment.ProtectWind] && cond.Season == calendar.Winter {
		eff.FatigueRateMod *= 1.2
		eff.Messages = append(eff.Messages, "The wind cuts through you.")
	}
}
