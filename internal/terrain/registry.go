package terrain

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Category names a terrain kind. The string value is the registry key.
type Category string

const (
	Ocean     Category = "ocean"
	Lake      Category = "lake"
	Pond      Category = "pond"
	River     Category = "river"
	Grassland Category = "grassland"
	Forest    Category = "forest"
	Mountain  Category = "mountain"
	IceCap    Category = "ice_cap"
)

// Categories lists every built-in category in a stable order.
var Categories = []Category{Ocean, Lake, Pond, River, Grassland, Forest, Mountain, IceCap}

// IsWater reports whether c is one of the water categories.
func (c Category) IsWater() bool {
	switch c {
	case Ocean, Lake, Pond, River:
		return true
	default:
		return false
	}
}

// Tile is one world-resolution cell.
type Tile struct {
	Terrain Category `json:"terrain"`
	IsWater bool     `json:"is_water"`
}

// Visual holds presentation hints consumed by renderers.
type Visual struct {
	BaseColor string `json:"color"`
	Texture   string `json:"texture,omitempty"`
}

// Properties holds gameplay properties of a terrain.
type Properties struct {
	MovementSpeedMultiplier float64 `json:"movement_speed_multiplier"`
	IsWater                 bool    `json:"is_water"`
	IsPassable              bool    `json:"is_passable"`
}

// Descriptor is the registry record for one terrain.
type Descriptor struct {
	Name        Category   `json:"name"`
	Description string     `json:"description,omitempty"`
	Visual      Visual     `json:"visual"`
	Properties  Properties `json:"properties"`
	Resources   []string   `json:"resources,omitempty"`
	Vegetation  []string   `json:"vegetation,omitempty"`
}

// Registry resolves terrain descriptors by name. Implementations are read-only.
type Registry interface {
	Lookup(name Category) (Descriptor, bool)
	All() []Descriptor
}

// MapRegistry is a Registry backed by a map.
type MapRegistry struct {
	entries map[Category]Descriptor
}

// NewMapRegistry builds a registry from descriptors. Later duplicates win.
func NewMapRegistry(descriptors ...Descriptor) *MapRegistry {
	entries := make(map[Category]Descriptor, len(descriptors))
	for _, d := range descriptors {
		entries[d.Name] = d
	}
	return &MapRegistry{entries: entries}
}

func (r *MapRegistry) Lookup(name Category) (Descriptor, bool) {
	d, ok := r.entries[name]
	return d, ok
}

// All returns descriptors sorted by name.
func (r *MapRegistry) All() []Descriptor {
	out := make([]Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultRegistry returns the built-in terrain table.
func DefaultRegistry() *MapRegistry {
	return NewMapRegistry(
		Descriptor{
			Name:        Ocean,
			Description: "Open water connected to the edge of the world",
			Visual:      Visual{BaseColor: "#1E4D8C", Texture: "ocean_texture"},
			Properties:  Properties{MovementSpeedMultiplier: 0.2, IsWater: true, IsPassable: false},
			Resources:   []string{"fish", "salt"},
		},
		Descriptor{
			Name:        Lake,
			Description: "Large enclosed body of fresh water",
			Visual:      Visual{BaseColor: "#2E6FBF", Texture: "lake_texture"},
			Properties:  Properties{MovementSpeedMultiplier: 0.3, IsWater: true, IsPassable: false},
			Resources:   []string{"fish", "fresh_water"},
		},
		Descriptor{
			Name:        Pond,
			Description: "Small enclosed pool of water",
			Visual:      Visual{BaseColor: "#4A90D9", Texture: "pond_texture"},
			Properties:  Properties{MovementSpeedMultiplier: 0.4, IsWater: true, IsPassable: true},
			Resources:   []string{"fresh_water", "reeds"},
		},
		Descriptor{
			Name:        River,
			Description: "Flowing water carved from the highlands",
			Visual:      Visual{BaseColor: "#1E90FF", Texture: "river_texture"},
			Properties:  Properties{MovementSpeedMultiplier: 0.5, IsWater: true, IsPassable: true},
			Resources:   []string{"fish", "fresh_water", "clay"},
		},
		Descriptor{
			Name:        Grassland,
			Description: "Grassy plains with lush vegetation",
			Visual:      Visual{BaseColor: "#7CFC00", Texture: "grass_texture"},
			Properties:  Properties{MovementSpeedMultiplier: 1.0, IsPassable: true},
			Resources:   []string{"fiber", "berries"},
			Vegetation:  []string{"oak", "birch"},
		},
		Descriptor{
			Name:        Forest,
			Description: "Dense woodland",
			Visual:      Visual{BaseColor: "#228B22", Texture: "forest_texture"},
			Properties:  Properties{MovementSpeedMultiplier: 0.7, IsPassable: true},
			Resources:   []string{"wood", "mushrooms"},
			Vegetation:  []string{"oak", "birch", "pine", "spruce"},
		},
		Descriptor{
			Name:        Mountain,
			Description: "Rocky high ground",
			Visual:      Visual{BaseColor: "#708090", Texture: "stone_texture"},
			Properties:  Properties{MovementSpeedMultiplier: 0.4, IsPassable: false},
			Resources:   []string{"stone", "iron_ore"},
		},
		Descriptor{
			Name:        IceCap,
			Description: "Permanent snow and ice on the highest peaks",
			Visual:      Visual{BaseColor: "#F0F8FF", Texture: "ice_texture"},
			Properties:  Properties{MovementSpeedMultiplier: 0.3, IsPassable: false},
			Resources:   []string{"ice"},
		},
	)
}

// LoadRegistry decodes a JSON array of descriptors. Every built-in category
// must be present so generation can always resolve its output.
func LoadRegistry(r io.Reader) (*MapRegistry, error) {
	var descriptors []Descriptor
	if err := json.NewDecoder(r).Decode(&descriptors); err != nil {
		return nil, fmt.Errorf("failed to decode terrain registry: %w", err)
	}

	for i, d := range descriptors {
		if d.Name == "" {
			return nil, fmt.Errorf("terrain registry entry %d has no name", i)
		}
		if d.Properties.MovementSpeedMultiplier < 0 {
			return nil, fmt.Errorf("terrain %q has negative movement speed multiplier", d.Name)
		}
	}

	reg := NewMapRegistry(descriptors...)
	for _, c := range Categories {
		if _, ok := reg.Lookup(c); !ok {
			return nil, fmt.Errorf("terrain registry is missing %q", c)
		}
	}
	return reg, nil
}
