// Package trait implements clamped gauge traits: depletable numeric
// attributes such as hunger, thirst, fatigue, and health, with passive
// change rates and descriptive threshold tables.
package trait

import (
	"fmt"
	"sort"
)

// SecondsPerRateUnit is the number of game seconds covered by one unit of a
// gauge's passive rate. Rates are expressed per game hour.
const SecondsPerRateUnit = 3600.0

// Threshold maps an inclusive upper bound to a descriptive label.
type Threshold struct {
	UpperBound float64
	Label      string
}

// Gauge is a single clamped numeric attribute. The effective maximum is
// the base maximum plus a runtime modifier, so equipment and conditions
// can raise or lower a gauge's ceiling without rebuilding it.
//
// Invariant: Min <= current <= Max after every mutation.
type Gauge struct {
	name        string
	current     float64
	min         float64
	baseMax     float64
	maxModifier float64
	rate        float64
	thresholds  []Threshold
}

// NewGauge creates a Gauge starting at max.
//
// Precondition: min < max; thresholds must be non-empty and cover max.
// Postcondition: Current() == max; thresholds are sorted ascending.
func NewGauge(name string, min, max, rate float64, thresholds []Threshold) (*Gauge, error) {
	if min >= max {
		return nil, fmt.Errorf("trait: gauge %q: min %v must be less than max %v", name, min, max)
	}
	if len(thresholds) == 0 {
		return nil, fmt.Errorf("trait: gauge %q: threshold table must not be empty", name)
	}
	sorted := append([]Threshold(nil), thresholds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].UpperBound < sorted[j].UpperBound })
	if sorted[len(sorted)-1].UpperBound < max {
		return nil, fmt.Errorf("trait: gauge %q: threshold table must cover max %v, tops out at %v",
			name, max, sorted[len(sorted)-1].UpperBound)
	}
	return &Gauge{
		name:       name,
		current:    max,
		min:        min,
		baseMax:    max,
		rate:       rate,
		thresholds: sorted,
	}, nil
}

// MustGauge creates a Gauge and panics on error. Useful for the standard tables.
func MustGauge(name string, min, max, rate float64, thresholds []Threshold) *Gauge {
	g, err := NewGauge(name, min, max, rate, thresholds)
	if err != nil {
		panic(err)
	}
	return g
}

// Name returns the gauge's name.
func (g *Gauge) Name() string { return g.name }

// Current returns the current value.
func (g *Gauge) Current() float64 { return g.current }

// Min returns the lower bound.
func (g *Gauge) Min() float64 { return g.min }

// Max returns the effective upper bound: base maximum plus modifier.
func (g *Gauge) Max() float64 { return g.baseMax + g.maxModifier }

// BaseMax returns the base maximum, without the runtime modifier.
func (g *Gauge) BaseMax() float64 { return g.baseMax }

// MaxModifier returns the current modifier on the base maximum.
func (g *Gauge) MaxModifier() float64 { return g.maxModifier }

// SetMaxModifier sets the modifier on the base maximum. The effective
// maximum never drops below the lower bound, and the current value is
// re-clamped against the new maximum.
//
// Postcondition: Min() <= Current() <= Max().
func (g *Gauge) SetMaxModifier(mod float64) {
	g.maxModifier = mod
	if g.baseMax+g.maxModifier < g.min {
		g.maxModifier = g.min - g.baseMax
	}
	g.current = clamp(g.current, g.min, g.Max())
}

// Rate returns the passive change rate in points per game hour.
func (g *Gauge) Rate() float64 { return g.rate }

// Modify adds delta to the current value, clamping to [min, max].
// Out-of-range deltas silently clamp; Modify never fails.
//
// Postcondition: Min() <= Current() <= Max().
func (g *Gauge) Modify(delta float64) {
	g.current = clamp(g.current+delta, g.min, g.Max())
}

// Set assigns the current value directly, clamping to [min, max].
func (g *Gauge) Set(value float64) {
	g.current = clamp(value, g.min, g.Max())
}

// ApplyRate applies the passive rate over elapsed game seconds, scaled by
// rateModifier.
//
// Precondition: elapsedGameSeconds >= 0; rateModifier >= 0.
// Postcondition: elapsedGameSeconds == 0 leaves Current() unchanged.
func (g *Gauge) ApplyRate(elapsedGameSeconds, rateModifier float64) {
	if elapsedGameSeconds == 0 {
		return
	}
	g.Modify(g.rate * rateModifier * elapsedGameSeconds / SecondsPerRateUnit)
}

// Percent returns the current value as a percentage of the gauge's range.
//
// Postcondition: Returns a value in [0, 100].
func (g *Gauge) Percent() float64 {
	return (g.current - g.min) / (g.Max() - g.min) * 100
}

// Describe returns the label of the first threshold whose upper bound is
// at or above the current value.
//
// Postcondition: Returns a non-empty label; pure in (current, thresholds).
func (g *Gauge) Describe() string {
	for _, t := range g.thresholds {
		if t.UpperBound >= g.current {
			return t.Label
		}
	}
	// The constructor guarantees coverage up to max.
	return g.thresholds[len(g.thresholds)-1].Label
}

// Reset restores the gauge to its effective maximum.
func (g *Gauge) Reset() {
	g.current = g.Max()
}

// AtFloor reports whether the gauge sits at its lower bound.
func (g *Gauge) AtFloor() bool {
	return g.current <= g.min
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
