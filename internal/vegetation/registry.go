// Package vegetation grows forest patches over grassland and places trees on
// the sub-tile grid.
package vegetation

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// WoodType classifies harvested timber.
type WoodType string

const (
	Hardwood WoodType = "hardwood"
	Softwood WoodType = "softwood"
)

// Species is the registry record for one tree kind.
type Species struct {
	Name             string   `json:"name"`
	Description      string   `json:"description,omitempty"`
	GrowthRate       int      `json:"growth_rate"` // years to harvest
	WaterConsumption float64  `json:"water_consumption"`
	TemperatureRange [2]int   `json:"temp_range"`
	LogYield         int      `json:"log_yield"`
	SeedYield        int      `json:"seed_yield"` // per year
	WoodType         WoodType `json:"wood_type"`
	Texture          string   `json:"texture,omitempty"`
	Unlocked         bool     `json:"unlocked"`
}

// HitPoints is the effort needed to fell a mature tree of this species.
// Hardwood takes half again as long.
func (s Species) HitPoints() float64 {
	hp := float64(s.GrowthRate)
	if s.WoodType == Hardwood {
		hp *= 1.5
	}
	return hp
}

// Registry resolves tree species by name.
type Registry interface {
	Lookup(name string) (Species, bool)
	All() []Species
}

// MapRegistry is a Registry backed by a map.
type MapRegistry struct {
	species map[string]Species
}

// NewMapRegistry builds a registry; later duplicates win.
func NewMapRegistry(species ...Species) *MapRegistry {
	m := make(map[string]Species, len(species))
	for _, s := range species {
		m[s.Name] = s
	}
	return &MapRegistry{species: m}
}

func (r *MapRegistry) Lookup(name string) (Species, bool) {
	s, ok := r.species[name]
	return s, ok
}

func (r *MapRegistry) All() []Species {
	out := make([]Species, 0, len(r.species))
	for _, s := range r.species {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// DefaultRegistry returns the built-in species referenced by the default
// terrain table.
func DefaultRegistry() *MapRegistry {
	return NewMapRegistry(
		Species{
			Name:             "oak",
			Description:      "Slow growing broadleaf with dense timber",
			GrowthRate:       10,
			WaterConsumption: 5.0,
			TemperatureRange: [2]int{0, 30},
			LogYield:         20,
			SeedYield:        5,
			WoodType:         Hardwood,
			Texture:          "oak_tree",
			Unlocked:         true,
		},
		Species{
			Name:             "birch",
			Description:      "Pale bark pioneer tree",
			GrowthRate:       6,
			WaterConsumption: 4.0,
			TemperatureRange: [2]int{-10, 25},
			LogYield:         10,
			SeedYield:        8,
			WoodType:         Hardwood,
			Texture:          "birch_tree",
			Unlocked:         true,
		},
		Species{
			Name:             "pine",
			Description:      "Fast growing tree",
			GrowthRate:       8,
			WaterConsumption: 3.0,
			TemperatureRange: [2]int{-5, 25},
			LogYield:         15,
			SeedYield:        4,
			WoodType:         Softwood,
			Texture:          "pine_tree",
			Unlocked:         true,
		},
		Species{
			Name:             "spruce",
			Description:      "Cold tolerant conifer",
			GrowthRate:       9,
			WaterConsumption: 2.5,
			TemperatureRange: [2]int{-20, 20},
			LogYield:         14,
			SeedYield:        3,
			WoodType:         Softwood,
			Texture:          "spruce_tree",
			Unlocked:         true,
		},
	)
}

// LoadRegistry decodes a JSON object keyed by species name. A legacy "yield"
// key is accepted in place of "log_yield".
func LoadRegistry(r io.Reader) (*MapRegistry, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode tree registry: %w", err)
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	species := make([]Species, 0, len(raw))
	for _, name := range names {
		s := Species{Unlocked: true}
		if err := json.Unmarshal(raw[name], &s); err != nil {
			return nil, fmt.Errorf("failed to decode tree %q: %w", name, err)
		}

		var legacy struct {
			Yield *int `json:"yield"`
		}
		if err := json.Unmarshal(raw[name], &legacy); err == nil && legacy.Yield != nil && s.LogYield == 0 {
			s.LogYield = *legacy.Yield
		}

		s.Name = name
		if s.GrowthRate < 0 || s.LogYield < 0 || s.SeedYield < 0 {
			return nil, fmt.Errorf("tree %q has negative growth or yield", name)
		}
		if s.TemperatureRange[0] > s.TemperatureRange[1] {
			return nil, fmt.Errorf("tree %q has inverted temperature range", name)
		}
		species = append(species, s)
	}
	return NewMapRegistry(species...), nil
}
