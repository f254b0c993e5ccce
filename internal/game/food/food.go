// Package food implements perishable item decay: freshness loss, one-shot
// spoilage transitions, and a real-time retention sweep for fully spoiled
// items.
package food

import (
	"time"

	"github.com/google/uuid"
)

// Decay events, fired exactly once per item.
const (
	EventSpoiling = "beginning to spoil"
	EventSpoiled  = "spoiled"
)

// Spoilage thresholds on the freshness scale.
const (
	spoilingThreshold = 50.0
)

// Item is a perishable food item.
//
// Invariant: Freshness stays in [0, 100]; spoilage transitions fire once.
type Item struct {
	ID        uuid.UUID
	Name      string
	Freshness float64
	DecayRate float64

	// warned guards the one-shot "beginning to spoil" event. A boolean
	// flag, not a re-derivable comparison, so the event cannot refire
	// across ticks sitting in the same freshness band.
	warned  bool
	spoiled bool
	// spoiledAt records real time of terminal spoilage for the retention
	// sweep.
	spoiledAt time.Time
}

// NewItem creates a fully fresh perishable item.
//
// Precondition: decayRate >= 0.
func NewItem(name string, decayRate float64) *Item {
	return &Item{
		ID:        uuid.New(),
		Name:      name,
		Freshness: 100,
		DecayRate: decayRate,
	}
}

// Spoiled reports whether the item has fully spoiled.
func (i *Item) Spoiled() bool {
	return i.spoiled
}

// Decay applies one decay tick at the given real time and returns the
// events fired by this tick, in order.
//
// Postcondition: Freshness >= 0; each spoilage event fires at most once
// over the item's lifetime.
func (i *Item) Decay(now time.Time) []string {
	if i.spoiled {
		return nil
	}

	i.Freshness -= i.DecayRate
	if i.Freshness < 0 {
		i.Freshness = 0
	}

	var events []string
	if !i.warned && i.Freshness <= spoilingThreshold && i.Freshness > 0 {
		i.warned = true
		events = append(events, EventSpoiling)
	}
	if i.Freshness <= 0 {
		// A large decay step can cross both thresholds in one tick; the
		// warning still fires first.
		if !i.warned {
			i.warned = true
			events = append(events, EventSpoiling)
		}
		i.spoiled = true
		i.spoiledAt = now
		events = append(events, EventSpoiled)
	}
	return events
}

// EligibleForRemoval reports whether the item has been fully spoiled for at
// least the retention window of real time.
func (i *Item) EligibleForRemoval(now time.Time, retention time.Duration) bool {
	return i.spoiled && !now.Before(i.spoiledAt.Add(retention))
}

// Event pairs an item with a decay event for host delivery.
type Event struct {
	Item  *Item
	Event string
}

// DecayAll runs one decay tick over every item and collects the fired
// events.
func DecayAll(items []*Item, now time.Time) []Event {
	var fired []Event
	for _, item := range items {
		for _, e := range item.Decay(now) {
			fired = append(fired, Event{Item: item, Event: e})
		}
	}
	return fired
}

// SweepSpoiled partitions items into kept and removed according to the
// retention window. Runs on its own maintenance cadence, not the decay tick.
//
// Postcondition: removed items are all spoiled; kept preserves input order.
func SweepSpoiled(items []*Item, now time.Time, retention time.Duration) (kept, removed []*Item) {
	for _, item := range items {
		if item.EligibleForRemoval(now, retention) {
			removed = append(removed, item)
		} else {
			kept = append(kept, item)
		}
	}
	return kept, removed
}
