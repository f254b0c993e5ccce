// Package calendar implements the accelerated fantasy calendar: 12 months
// of 30 days each, with real time scaled by a configurable time factor.
package calendar

import (
	"fmt"
	"time"

	"github.com/polishedworld/simcore/internal/config"
)

// Season is a named quarter of the game year.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Autumn Season = "autumn"
)

// TimeOfDay is a named phase of the game day.
type TimeOfDay string

const (
	Dawn      TimeOfDay = "dawn"
	Morning   TimeOfDay = "morning"
	Noon      TimeOfDay = "noon"
	Afternoon TimeOfDay = "afternoon"
	Dusk      TimeOfDay = "dusk"
	Evening   TimeOfDay = "evening"
	Night     TimeOfDay = "night"
)

const (
	SecondsPerMinute = 60
	SecondsPerHour   = 60 * SecondsPerMinute
	SecondsPerDay    = 24 * SecondsPerHour
	DaysPerMonth     = 30
	MonthsPerYear    = 12
	SecondsPerMonth  = DaysPerMonth * SecondsPerDay
	SecondsPerYear   = MonthsPerYear * SecondsPerMonth
)

// monthNames are the fantasy month names, indexed 0-11 starting in deep winter.
var monthNames = [MonthsPerYear]string{
	"Frosthold",
	"Icewind",
	"Thawmoon",
	"Seedtime",
	"Bloomheart",
	"Greentide",
	"Sunpeak",
	"Hearthfire",
	"Goldfall",
	"Harvestmoon",
	"Dimming",
	"Darkening",
}

// MonthName returns the fantasy name for the given 0-based month index.
//
// Precondition: month is in [0, 11].
func MonthName(month int) string {
	return monthNames[month]
}

// GameTime is a decomposed instant on the game calendar.
type GameTime struct {
	Year   int
	Month  int // 0-based
	Day    int // 1-based
	Hour   int
	Minute int
	Second int
}

// String renders the game time as "Day 5 of Frosthold, Year 2, 08:30".
func (g GameTime) String() string {
	return fmt.Sprintf("Day %d of %s, Year %d, %02d:%02d",
		g.Day, MonthName(g.Month), g.Year, g.Hour, g.Minute)
}

// TimeOfDay returns the named phase of the day for this instant.
//
// Postcondition: Returns one of the seven TimeOfDay constants.
func (g GameTime) TimeOfDay() TimeOfDay {
	return TimeOfDayForHour(g.Hour)
}

// TimeOfDayForHour maps a game hour in [0, 23] to its named phase.
func TimeOfDayForHour(hour int) TimeOfDay {
	switch {
	case hour >= 5 && hour <= 6:
		return Dawn
	case hour >= 7 && hour <= 11:
		return Morning
	case hour >= 12 && hour <= 13:
		return Noon
	case hour >= 14 && hour <= 16:
		return Afternoon
	case hour >= 17 && hour <= 18:
		return Dusk
	case hour >= 19 && hour <= 21:
		return Evening
	default: // 22-23 and 0-4
		return Night
	}
}

// Clock converts real time to game time. A Clock is anchored at a real-world
// epoch that corresponds to game second zero, and scales elapsed real time
// by the configured time factor.
type Clock struct {
	epoch        time.Time
	factor       float64
	seasonMonths map[Season][]int
}

// NewClock creates a Clock anchored at epoch.
//
// Precondition: cfg must satisfy config validation (TimeFactor > 0,
// SeasonMonths covering valid months).
// Postcondition: Returns a non-nil *Clock; At(epoch) is game second zero.
func NewClock(cfg config.CalendarConfig, epoch time.Time) *Clock {
	seasons := make(map[Season][]int, len(cfg.SeasonMonths))
	for name, months := range cfg.SeasonMonths {
		seasons[Season(name)] = append([]int(nil), months...)
	}
	return &Clock{
		epoch:        epoch,
		factor:       cfg.TimeFactor,
		seasonMonths: seasons,
	}
}

// Factor returns the configured time factor (game seconds per real second).
func (c *Clock) Factor() float64 {
	return c.factor
}

// GameSeconds returns the total game seconds elapsed at the given real instant.
//
// Precondition: now must not be before the clock epoch.
func (c *Clock) GameSeconds(now time.Time) int64 {
	return int64(now.Sub(c.epoch).Seconds() * c.factor)
}

// ElapsedGameSeconds returns the game seconds spanned by a real interval.
//
// Postcondition: Returns 0 for non-positive intervals.
func (c *Clock) ElapsedGameSeconds(from, to time.Time) float64 {
	if !to.After(from) {
		return 0
	}
	return to.Sub(from).Seconds() * c.factor
}

// At decomposes the given real instant into a GameTime.
func (c *Clock) At(now time.Time) GameTime {
	total := c.GameSeconds(now)
	return Decompose(total)
}

// SeasonAt returns the season at the given real instant.
func (c *Clock) SeasonAt(now time.Time) Season {
	return c.SeasonForMonth(c.At(now).Month)
}

// SeasonForMonth returns the season covering the given 0-based month index.
//
// Precondition: month is in [0, 11] and covered by the season table.
// Postcondition: Returns the configured season, or Winter if unassigned.
func (c *Clock) SeasonForMonth(month int) Season {
	for season, months := range c.seasonMonths {
		for _, m := range months {
			if m == month {
				return season
			}
		}
	}
	return Winter
}

// Decompose splits total game seconds into calendar components.
//
// Precondition: total >= 0.
// Postcondition: Month in [0, 11]; Day in [1, 30]; Hour in [0, 23].
func Decompose(total int64) GameTime {
	year := total / SecondsPerYear
	rem := total % SecondsPerYear
	month := rem / SecondsPerMonth
	rem %= SecondsPerMonth
	day := rem / SecondsPerDay
	rem %= SecondsPerDay
	hour := rem / SecondsPerHour
	rem %= SecondsPerHour
	minute := rem / SecondsPerMinute
	second := rem % SecondsPerMinute

	return GameTime{
		Year:   int(year) + 1,
		Month:  int(month),
		Day:    int(day) + 1,
		Hour:   int(hour),
		Minute: int(minute),
		Second: int(second),
	}
}
