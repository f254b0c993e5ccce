// Package world provides the simulated world model: rooms with weather
// exposure and resource nodes, plus the registries the periodic jobs
// iterate over.
package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/polishedworld/simcore/internal/game/resource"
	"github.com/polishedworld/simcore/internal/game/weather"
)

// Room represents a location in the game world. The weather job writes
// weather tags while the survival job reads them, and the regeneration
// and seasonal jobs mutate resource nodes, so both are guarded by the
// room's lock.
type Room struct {
	// ID uniquely identifies this room.
	ID string
	// Title is the short display name of the room.
	Title string
	// Description is the multi-line room description shown to players.
	Description string
	// Indoor rooms are sheltered from weather and environmental effects.
	Indoor bool
	// Weather holds the active weather tags for outdoor rooms.
	Weather map[weather.Tag]bool
	// Nodes contains the harvestable resource nodes in this room, keyed
	// by resource type.
	Nodes map[string]*resource.Node

	mu sync.RWMutex
}

// HasWeather reports whether the given weather tag is currently active.
func (r *Room) HasWeather(tag weather.Tag) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.Weather[tag]
}

// WeatherTags returns the active weather tags in sorted order.
//
// Postcondition: Returns a non-nil slice; may be empty.
func (r *Room) WeatherTags() []weather.Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]weather.Tag, 0, len(r.Weather))
	for tag, active := range r.Weather {
		if active {
			tags = append(tags, tag)
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// WeatherMap returns a copy of the active weather tag set.
func (r *Room) WeatherMap() map[weather.Tag]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make(map[weather.Tag]bool, len(r.Weather))
	for tag, active := range r.Weather {
		if active {
			tags[tag] = true
		}
	}
	return tags
}

// SetWeather replaces the room's active weather tags.
func (r *Room) SetWeather(tags map[weather.Tag]bool) {
	active := make(map[weather.Tag]bool, len(tags))
	for tag, on := range tags {
		if on {
			active[tag] = true
		}
	}
	r.mu.Lock()
	r.Weather = active
	r.mu.Unlock()
}

// WithNodes runs fn with exclusive access to the room's resource nodes.
// All node mutation from tick jobs and action-handlers goes through
// here.
func (r *Room) WithNodes(fn func(nodes map[string]*resource.Node)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.Nodes)
}

// Node returns the resource node of the given type, if present.
//
// Postcondition: Returns (node, true) if found, or (nil, false) otherwise.
func (r *Room) Node(resourceType string) (*resource.Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.Nodes[resourceType]
	return n, ok
}

// Validate checks room invariants.
//
// Postcondition: Returns nil if valid, or an error describing the first violation.
func (r *Room) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("room ID must not be empty")
	}
	if r.Title == "" {
		return fmt.Errorf("room %q: title must not be empty", r.ID)
	}
	for resourceType, node := range r.Nodes {
		if node == nil {
			return fmt.Errorf("room %q: node %q is nil", r.ID, resourceType)
		}
		if node.Type != resourceType {
			return fmt.Errorf("room %q: node key %q does not match node type %q", r.ID, resourceType, node.Type)
		}
		if !node.IsUnlimited() && node.Max <= 0 {
			return fmt.Errorf("room %q: node %q: max must be positive", r.ID, resourceType)
		}
		if node.RegenRate < 0 {
			return fmt.Errorf("room %q: node %q: regen_rate must not be negative", r.ID, resourceType)
		}
		for season, mod := range node.SeasonalModifier {
			if mod < 0 {
				return fmt.Errorf("room %q: node %q: seasonal modifier for %s must not be negative", r.ID, resourceType, season)
			}
		}
	}
	return nil
}
