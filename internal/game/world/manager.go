package world

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/polishedworld/simcore/internal/game/character"
	"github.com/polishedworld/simcore/internal/game/food"
	"github.com/polishedworld/simcore/internal/game/machine"
)

// World provides thread-safe access to the simulated world state: the
// loaded rooms and the live registries of characters, perishable items,
// and machines that the periodic jobs operate on.
//
// Invariant: every iteration method returns entries in a deterministic
// order so scheduled jobs behave identically across runs.
type World struct {
	mu          sync.RWMutex
	rooms       map[string]*Room
	characters  map[uuid.UUID]*character.Character
	perishables map[uuid.UUID]*food.Item
	engines     map[uuid.UUID]*machine.SteamEngine
}

// New creates an empty World.
func New() *World {
	return &World{
		rooms:       make(map[string]*Room),
		characters:  make(map[uuid.UUID]*character.Character),
		perishables: make(map[uuid.UUID]*food.Item),
		engines:     make(map[uuid.UUID]*machine.SteamEngine),
	}
}

// NewFromRooms creates a World populated with the given rooms.
//
// Postcondition: Returns a World with all rooms indexed by ID, or an
// error on a duplicate or invalid room.
func NewFromRooms(rooms []*Room) (*World, error) {
	w := New()
	for _, r := range rooms {
		if err := w.AddRoom(r); err != nil {
			return nil, err
		}
	}
	return w, nil
}

// AddRoom registers a room.
//
// Postcondition: Returns an error if the room is invalid or its ID is
// already registered.
func (w *World) AddRoom(r *Room) error {
	if err := r.Validate(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.rooms[r.ID]; exists {
		return fmt.Errorf("duplicate room ID: %q", r.ID)
	}
	w.rooms[r.ID] = r
	return nil
}

// Room returns the room with the given ID.
//
// Postcondition: Returns (room, true) if found, or (nil, false) otherwise.
func (w *World) Room(id string) (*Room, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.rooms[id]
	return r, ok
}

// Rooms returns all rooms sorted by ID.
func (w *World) Rooms() []*Room {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rooms := make([]*Room, 0, len(w.rooms))
	for _, r := range w.rooms {
		rooms = append(rooms, r)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

// OutdoorRooms returns all rooms exposed to weather, sorted by ID.
func (w *World) OutdoorRooms() []*Room {
	var outdoor []*Room
	for _, r := range w.Rooms() {
		if !r.Indoor {
			outdoor = append(outdoor, r)
		}
	}
	return outdoor
}

// RoomCount returns the number of registered rooms.
func (w *World) RoomCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.rooms)
}

// AddCharacter registers an active character with the simulation.
func (w *World) AddCharacter(c *character.Character) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.characters[c.ID] = c
}

// RemoveCharacter withdraws a character from the simulation.
func (w *World) RemoveCharacter(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.characters, id)
}

// Characters returns all active characters sorted by ID.
func (w *World) Characters() []*character.Character {
	w.mu.RLock()
	defer w.mu.RUnlock()
	chars := make([]*character.Character, 0, len(w.characters))
	for _, c := range w.characters {
		chars = append(chars, c)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].ID.String() < chars[j].ID.String() })
	return chars
}

// AddPerishable registers a food item for decay tracking.
func (w *World) AddPerishable(item *food.Item) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.perishables[item.ID] = item
}

// RemovePerishable withdraws a food item from decay tracking.
func (w *World) RemovePerishable(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.perishables, id)
}

// Perishables returns all tracked food items sorted by ID.
func (w *World) Perishables() []*food.Item {
	w.mu.RLock()
	defer w.mu.RUnlock()
	items := make([]*food.Item, 0, len(w.perishables))
	for _, item := range w.perishables {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID.String() < items[j].ID.String() })
	return items
}

// AddEngine registers a steam engine for fuel tracking.
func (w *World) AddEngine(e *machine.SteamEngine) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.engines[e.ID] = e
}

// RemoveEngine withdraws a steam engine from fuel tracking.
func (w *World) RemoveEngine(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.engines, id)
}

// Engines returns all tracked engines sorted by ID.
func (w *World) Engines() []*machine.SteamEngine {
	w.mu.RLock()
	defer w.mu.RUnlock()
	engines := make([]*machine.SteamEngine, 0, len(w.engines))
	for _, e := range w.engines {
		engines = append(engines, e)
	}
	sort.Slice(engines, func(i, j int) bool { return engines[i].ID.String() < engines[j].ID.String() })
	return engines
}

// CharactersIn returns the active characters located in the given room,
// sorted by ID.
func (w *World) CharactersIn(roomID string) []*character.Character {
	var in []*character.Character
	for _, c := range w.Characters() {
		if c.RoomID == roomID {
			in = append(in, c)
		}
	}
	return in
}
