// Package cooldown implements per-entity named action timers. Durations
// shrink with skill level and, for physical actions, with a stat-derived
// bonus ratio.
package cooldown

import (
	"math"
	"sync"
	"time"
)

// MaxStatReduction caps the stat-derived duration reduction ratio.
const MaxStatReduction = 0.20

// Set holds the named cooldowns for a single entity.
//
// Invariant: safe for concurrent use.
type Set struct {
	mu      sync.Mutex
	expires map[string]time.Time
	nowFn   func() time.Time
}

// NewSet creates an empty cooldown set using the wall clock.
func NewSet() *Set {
	return NewSetWithClock(time.Now)
}

// NewSetWithClock creates an empty cooldown set using the given clock.
// Intended for tests and simulated time.
//
// Precondition: nowFn must be non-nil.
func NewSetWithClock(nowFn func() time.Time) *Set {
	return &Set{
		expires: make(map[string]time.Time),
		nowFn:   nowFn,
	}
}

// Ready reports whether the named action may fire: true when the action has
// no entry or its expiry has passed.
func (s *Set) Ready(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expires[name]
	if !ok {
		return true
	}
	return !s.nowFn().Before(exp)
}

// TimeLeft returns the remaining duration on the named action, or zero when
// the action is ready.
//
// Postcondition: Returns a non-negative duration.
func (s *Set) TimeLeft(name string) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.expires[name]
	if !ok {
		return 0
	}
	left := exp.Sub(s.nowFn())
	if left < 0 {
		return 0
	}
	return left
}

// Apply starts a cooldown for the named action and returns the actual
// duration after skill and stat reductions.
//
// The skill modifier scales linearly from 1.0 at skill 0 down to 0.5 at
// skill 100. The stat modifier removes at most MaxStatReduction of the
// remainder. The result is truncated to whole seconds. All numeric inputs
// are clamped rather than rejected.
//
// Postcondition: Ready(name) == false until the returned duration elapses.
func (s *Set) Apply(name string, baseDuration time.Duration, skillLevel int, statBonusRatio float64) time.Duration {
	actual := Duration(baseDuration, skillLevel, statBonusRatio)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[name] = s.nowFn().Add(actual)
	return actual
}

// Clear removes the named cooldown, immediately making it ready.
func (s *Set) Clear(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, name)
}

// ClearAll removes every cooldown in the set.
func (s *Set) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires = make(map[string]time.Time)
}

// Cleanup removes every expired entry and returns the number removed.
// Long-lived entities call this periodically so the set only holds
// cooldowns that are still running.
//
// Postcondition: every remaining entry expires in the future.
func (s *Set) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFn()
	removed := 0
	for name, exp := range s.expires {
		if !now.Before(exp) {
			delete(s.expires, name)
			removed++
		}
	}
	return removed
}

// Active returns the names of all actions currently on cooldown.
func (s *Set) Active() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFn()
	var names []string
	for name, exp := range s.expires {
		if now.Before(exp) {
			names = append(names, name)
		}
	}
	return names
}

// Duration computes the reduced cooldown duration without touching any set.
//
// Postcondition: Returns a duration in [baseDuration * 0.4, baseDuration],
// truncated to whole seconds; never negative.
func Duration(baseDuration time.Duration, skillLevel int, statBonusRatio float64) time.Duration {
	if baseDuration < 0 {
		baseDuration = 0
	}
	skill := clampInt(skillLevel, 0, 100)
	skillModifier := 0.5 + 0.5*float64(100-skill)/100
	statModifier := 1 - clampFloat(statBonusRatio, 0, MaxStatReduction)
	seconds := math.Floor(baseDuration.Seconds() * skillModifier * statModifier)
	return time.Duration(seconds) * time.Second
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clampFloat(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
