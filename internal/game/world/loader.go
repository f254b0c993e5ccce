package world

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/polishedworld/simcore/internal/game/calendar"
	"github.com/polishedworld/simcore/internal/game/resource"
	"github.com/polishedworld/simcore/internal/game/weather"
)

// yamlWorldFile is the top-level YAML structure for room content files.
type yamlWorldFile struct {
	Rooms []yamlRoom `yaml:"rooms"`
}

// yamlRoom is the YAML representation of a room.
type yamlRoom struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Indoor      bool       `yaml:"indoor"`
	Nodes       []yamlNode `yaml:"resource_nodes"`
}

// yamlNode is the YAML representation of a resource node.
type yamlNode struct {
	Type              string             `yaml:"type"`
	Max               float64            `yaml:"max"`
	RegenRate         float64            `yaml:"regen_rate"`
	SeasonalModifiers map[string]float64 `yaml:"seasonal_modifiers"`
	ToolRequired      string             `yaml:"tool_required"`
	SkillRequired     string             `yaml:"skill_required"`
	MinSkill          int                `yaml:"min_skill"`
}

var knownSeasons = map[string]calendar.Season{
	"winter": calendar.Winter,
	"spring": calendar.Spring,
	"summer": calendar.Summer,
	"autumn": calendar.Autumn,
}

// LoadRoomsFromFile reads and validates a single room content file.
//
// Precondition: path must point to a valid YAML room file.
// Postcondition: Returns validated rooms or a non-nil error.
func LoadRoomsFromFile(path string) ([]*Room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading room file %s: %w", path, err)
	}
	return LoadRoomsFromBytes(data)
}

// LoadRoomsFromBytes parses and validates rooms from YAML bytes.
//
// Precondition: data must be valid YAML conforming to the room schema.
// Postcondition: Returns validated rooms or a non-nil error. Every node
// starts at full capacity.
func LoadRoomsFromBytes(data []byte) ([]*Room, error) {
	var file yamlWorldFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing room YAML: %w", err)
	}

	if len(file.Rooms) == 0 {
		return nil, fmt.Errorf("room file contains no rooms")
	}

	rooms := make([]*Room, 0, len(file.Rooms))
	for _, yr := range file.Rooms {
		room, err := convertYAMLRoom(yr)
		if err != nil {
			return nil, err
		}
		if err := room.Validate(); err != nil {
			return nil, fmt.Errorf("validating room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, nil
}

// LoadRoomsFromDir loads all YAML files in a directory as room content.
//
// Precondition: dir must be a valid directory path.
// Postcondition: Returns all validated rooms or the first error encountered.
func LoadRoomsFromDir(dir string) ([]*Room, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading room directory %s: %w", dir, err)
	}

	var rooms []*Room
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		loaded, err := LoadRoomsFromFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("loading rooms from %s: %w", name, err)
		}
		rooms = append(rooms, loaded...)
	}

	if len(rooms) == 0 {
		return nil, fmt.Errorf("no room files found in %s", dir)
	}

	return rooms, nil
}

// convertYAMLRoom converts the parsed YAML structures into domain types.
func convertYAMLRoom(yr yamlRoom) (*Room, error) {
	room := &Room{
		ID:          yr.ID,
		Title:       yr.Title,
		Description: strings.TrimSpace(yr.Description),
		Indoor:      yr.Indoor,
		Weather:     make(map[weather.Tag]bool),
		Nodes:       make(map[string]*resource.Node, len(yr.Nodes)),
	}

	for _, yn := range yr.Nodes {
		if yn.Type == "" {
			return nil, fmt.Errorf("room %q: resource node type must not be empty", yr.ID)
		}
		if _, exists := room.Nodes[yn.Type]; exists {
			return nil, fmt.Errorf("room %q: duplicate resource node %q", yr.ID, yn.Type)
		}

		seasonal := make(map[calendar.Season]float64, len(yn.SeasonalModifiers))
		for name, mod := range yn.SeasonalModifiers {
			season, ok := knownSeasons[name]
			if !ok {
				return nil, fmt.Errorf("room %q: node %q: unknown season %q", yr.ID, yn.Type, name)
			}
			seasonal[season] = mod
		}

		room.Nodes[yn.Type] = &resource.Node{
			Type:             yn.Type,
			Current:          yn.Max,
			Max:              yn.Max,
			BaseMax:          yn.Max,
			RegenRate:        yn.RegenRate,
			SeasonalModifier: seasonal,
			ToolRequired:     yn.ToolRequired,
			SkillRequired:    yn.SkillRequired,
			MinSkill:         yn.MinSkill,
		}
	}

	return room, nil
}
