// Package equipment models worn items and the aggregate protection they
// grant: warmth, weather protection tags, and stat modifiers.
package equipment

import "github.com/google/uuid"

// Weather protection tags an item may carry.
const (
	ProtectRain = "rain"
	ProtectSnow = "snow"
	ProtectWind = "wind"
)

// Item is a wearable piece of equipment.
type Item struct {
	ID             uuid.UUID
	Name           string
	Slot           string
	Warmth         int
	ProtectionTags []string
	StatModifiers  map[string]int
	ToolQuality    int // 0 when the item is not a tool
	IsTool         bool
}

// NewItem creates an equipment item with a fresh identity.
func NewItem(name, slot string, warmth int) *Item {
	return &Item{
		ID:            uuid.New(),
		Name:          name,
		Slot:          slot,
		Warmth:        warmth,
		StatModifiers: make(map[string]int),
	}
}

// Loadout is the set of items an entity currently wears, keyed by slot.
// Wearing into an occupied slot replaces the previous item.
type Loadout struct {
	worn map[string]*Item
}

// NewLoadout creates an empty loadout.
func NewLoadout() *Loadout {
	return &Loadout{worn: make(map[string]*Item)}
}

// Wear places item into its slot, returning the displaced item if any.
//
// Precondition: item must be non-nil and have a non-empty Slot.
func (l *Loadout) Wear(item *Item) *Item {
	prev := l.worn[item.Slot]
	l.worn[item.Slot] = item
	return prev
}

// Remove takes off the item in the given slot, returning it, or nil when
// the slot is empty.
func (l *Loadout) Remove(slot string) *Item {
	item := l.worn[slot]
	delete(l.worn, slot)
	return item
}

// Worn returns the item in the given slot, or nil.
func (l *Loadout) Worn(slot string) *Item {
	return l.worn[slot]
}

// TotalWarmth sums the warmth of every worn item.
//
// Postcondition: Returns 0 for an empty loadout.
func (l *Loadout) TotalWarmth() int {
	total := 0
	for _, item := range l.worn {
		total += item.Warmth
	}
	return total
}

// ProtectionTags returns the union of protection tags across worn items.
func (l *Loadout) ProtectionTags() map[string]bool {
	tags := make(map[string]bool)
	for _, item := range l.worn {
		for _, tag := range item.ProtectionTags {
			tags[tag] = true
		}
	}
	return tags
}

// StatModifier sums the named stat modifier across worn items.
func (l *Loadout) StatModifier(stat string) int {
	total := 0
	for _, item := range l.worn {
		total += item.StatModifiers[stat]
	}
	return total
}

// Count returns the number of worn items.
func (l *Loadout) Count() int {
	return len(l.worn)
}
