package food_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/polishedworld/simcore/internal/game/food"
)

var t0 = time.Unix(1_000_000, 0)

func TestNewItem_StartsFresh(t *testing.T) {
	item := food.NewItem("bread", 10)
	assert.Equal(t, 100.0, item.Freshness)
	assert.False(t, item.Spoiled())
}

func TestItem_Decay_LosesFreshness(t *testing.T) {
	item := food.NewItem("bread", 10)
	events := item.Decay(t0)
	assert.Empty(t, events)
	assert.Equal(t, 90.0, item.Freshness)
}

func TestItem_Decay_SpoilingWarningFiresOnce(t *testing.T) {
	item := food.NewItem("bread", 30)
	// 100 -> 70: no event.
	assert.Empty(t, item.Decay(t0))
	// 70 -> 40: crosses 50, warning fires.
	assert.Equal(t, []string{food.EventSpoiling}, item.Decay(t0))
	// 40 -> 10: still in the same band, no repeat.
	assert.Empty(t, item.Decay(t0))
}

func TestItem_Decay_SpoiledIsTerminal(t *testing.T) {
	item := food.NewItem("bread", 40)
	assert.Empty(t, item.Decay(t0))                              // 60
	assert.Equal(t, []string{food.EventSpoiling}, item.Decay(t0)) // 20
	assert.Equal(t, []string{food.EventSpoiled}, item.Decay(t0)) // 0
	assert.True(t, item.Spoiled())
	assert.Equal(t, 0.0, item.Freshness)
	// Further ticks are inert.
	assert.Empty(t, item.Decay(t0))
	assert.Equal(t, 0.0, item.Freshness)
}

func TestItem_Decay_BigStepFiresBothEventsInOrder(t *testing.T) {
	item := food.NewItem("milk", 150)
	events := item.Decay(t0)
	assert.Equal(t, []string{food.EventSpoiling, food.EventSpoiled}, events)
}

func TestItem_EligibleForRemoval(t *testing.T) {
	item := food.NewItem("bread", 200)
	item.Decay(t0)
	require.True(t, item.Spoiled())

	retention := 24 * time.Hour
	assert.False(t, item.EligibleForRemoval(t0, retention))
	assert.False(t, item.EligibleForRemoval(t0.Add(23*time.Hour), retention))
	assert.True(t, item.EligibleForRemoval(t0.Add(24*time.Hour), retention))
}

func TestDecayAll_CollectsEvents(t *testing.T) {
	fresh := food.NewItem("apple", 5)
	turning := food.NewItem("stew", 60)
	items := []*food.Item{fresh, turning}

	events := food.DecayAll(items, t0)
	require.Len(t, events, 1)
	assert.Equal(t, turning, events[0].Item)
	assert.Equal(t, food.EventSpoiling, events[0].Event)
}

func TestSweepSpoiled(t *testing.T) {
	fresh := food.NewItem("apple", 5)
	rotten := food.NewItem("fish", 200)
	rotten.Decay(t0)
	require.True(t, rotten.Spoiled())

	// Inside the retention window everything is kept.
	kept, removed := food.SweepSpoiled([]*food.Item{fresh, rotten}, t0.Add(time.Hour), 24*time.Hour)
	assert.Len(t, kept, 2)
	assert.Empty(t, removed)

	// After the window, only the spoiled item goes.
	kept, removed = food.SweepSpoiled([]*food.Item{fresh, rotten}, t0.Add(25*time.Hour), 24*time.Hour)
	assert.Equal(t, []*food.Item{fresh}, kept)
	assert.Equal(t, []*food.Item{rotten}, removed)
}

// Property-based tests

// TestItem_Decay_EventsFireExactlyOnce_Property verifies each spoilage
// event fires at most once over any decay schedule.
func TestItem_Decay_EventsFireExactlyOnce_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		rate := rapid.Float64Range(0.5, 80).Draw(rt, "rate")
		item := food.NewItem("p", rate)

		counts := map[string]int{}
		for i := 0; i < 300; i++ {
			for _, e := range item.Decay(t0) {
				counts[e]++
			}
		}
		if counts[food.EventSpoiling] > 1 {
			rt.Fatalf("spoiling warning fired %d times", counts[food.EventSpoiling])
		}
		if counts[food.EventSpoiled] != 1 {
			rt.Fatalf("spoiled event fired %d times", counts[food.EventSpoiled])
		}
		if item.Freshness != 0 {
			rt.Fatalf("freshness %v after full decay", item.Freshness)
		}
	})
}
