package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Generation holds every knob of a world generation pass. Two passes with
// equal Generation values produce identical worlds.
type Generation struct {
	SizeX        int     `json:"size_x"`
	SizeY        int     `json:"size_y"`
	Subdivisions int     `json:"subdivisions"`
	Scale        float64 `json:"scale"` // meters per tile

	WaterRatio    float64 `json:"water_ratio"`
	MountainRatio float64 `json:"mountain_ratio"`
	IceCapRatio   float64 `json:"ice_cap_ratio"`

	PeaksMin    int     `json:"peaks_min"`
	PeaksMax    int     `json:"peaks_max"`
	NoiseDetail float64 `json:"noise_detail"`
	NoiseScale  float64 `json:"noise_scale"`

	RiverMaxSlope      float64 `json:"river_max_slope"`
	RiverLateralChance float64 `json:"river_lateral_chance"`
	RiverRetries       int     `json:"river_retries"`
	PondFraction       float64 `json:"pond_fraction"`

	ForestPatchCount    int     `json:"forest_patch_count"`
	ForestPatchFraction float64 `json:"forest_patch_fraction"`
	ForestSpreadChance  float64 `json:"forest_spread_chance"`
	ForestTreeDensity   float64 `json:"forest_tree_density"`
	GrassTreeDensity    float64 `json:"grass_tree_density"`

	Seed int64 `json:"seed"`
}

// DefaultGeneration returns the stock 50x50 world settings.
func DefaultGeneration() Generation {
	return Generation{
		SizeX:               50,
		SizeY:               50,
		Subdivisions:        10,
		Scale:               10,
		WaterRatio:          0.1,
		MountainRatio:       0.15,
		IceCapRatio:         0.01,
		PeaksMin:            5,
		PeaksMax:            10,
		NoiseDetail:         0,
		NoiseScale:          8,
		RiverMaxSlope:       0.05,
		RiverLateralChance:  0.5,
		RiverRetries:        10,
		PondFraction:        0.005,
		ForestPatchCount:    5,
		ForestPatchFraction: 0.05,
		ForestSpreadChance:  0.6,
		ForestTreeDensity:   0.99,
		GrassTreeDensity:    0.0,
		Seed:                1,
	}
}

// ConfigurationError reports an invalid generation setting.
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

func unitRange(field string, v float64) error {
	if v < 0 || v > 1 {
		return &ConfigurationError{Field: field, Value: v, Reason: "must be within [0,1]"}
	}
	return nil
}

// Validate returns the first invalid field as a *ConfigurationError.
func (g Generation) Validate() error {
	if g.SizeX <= 0 {
		return &ConfigurationError{Field: "size_x", Value: g.SizeX, Reason: "must be positive"}
	}
	if g.SizeY <= 0 {
		return &ConfigurationError{Field: "size_y", Value: g.SizeY, Reason: "must be positive"}
	}
	if g.Subdivisions <= 0 {
		return &ConfigurationError{Field: "subdivisions", Value: g.Subdivisions, Reason: "must be positive"}
	}
	if g.Scale <= 0 {
		return &ConfigurationError{Field: "scale", Value: g.Scale, Reason: "must be positive"}
	}

	ratios := []struct {
		field string
		value float64
	}{
		{"water_ratio", g.WaterRatio},
		{"mountain_ratio", g.MountainRatio},
		{"ice_cap_ratio", g.IceCapRatio},
		{"river_lateral_chance", g.RiverLateralChance},
		{"pond_fraction", g.PondFraction},
		{"forest_patch_fraction", g.ForestPatchFraction},
		{"forest_spread_chance", g.ForestSpreadChance},
		{"forest_tree_density", g.ForestTreeDensity},
		{"grass_tree_density", g.GrassTreeDensity},
	}
	for _, r := range ratios {
		if err := unitRange(r.field, r.value); err != nil {
			return err
		}
	}
	if sum := g.WaterRatio + g.MountainRatio + g.IceCapRatio; sum > 1 {
		return &ConfigurationError{
			Field:  "water_ratio+mountain_ratio+ice_cap_ratio",
			Value:  sum,
			Reason: "must not exceed 1",
		}
	}
	if g.IceCapRatio > g.MountainRatio {
		return &ConfigurationError{Field: "ice_cap_ratio", Value: g.IceCapRatio, Reason: "must not exceed mountain_ratio"}
	}

	if g.PeaksMin < 1 {
		return &ConfigurationError{Field: "peaks_min", Value: g.PeaksMin, Reason: "must be at least 1"}
	}
	if g.PeaksMax < g.PeaksMin {
		return &ConfigurationError{Field: "peaks_max", Value: g.PeaksMax, Reason: "must not be below peaks_min"}
	}
	if g.NoiseDetail < 0 {
		return &ConfigurationError{Field: "noise_detail", Value: g.NoiseDetail, Reason: "must not be negative"}
	}
	if g.NoiseDetail > 0 && g.NoiseScale <= 0 {
		return &ConfigurationError{Field: "noise_scale", Value: g.NoiseScale, Reason: "must be positive when noise_detail is set"}
	}
	if g.RiverMaxSlope < 0 {
		return &ConfigurationError{Field: "river_max_slope", Value: g.RiverMaxSlope, Reason: "must not be negative"}
	}
	if g.RiverRetries < 0 {
		return &ConfigurationError{Field: "river_retries", Value: g.RiverRetries, Reason: "must not be negative"}
	}
	if g.ForestPatchCount < 0 {
		return &ConfigurationError{Field: "forest_patch_count", Value: g.ForestPatchCount, Reason: "must not be negative"}
	}
	return nil
}

// LoadGenerationFile reads a JSON generation config. Fields missing from the
// file keep their DefaultGeneration values. The result is validated.
func LoadGenerationFile(path string) (Generation, error) {
	gen := DefaultGeneration()

	data, err := os.ReadFile(path)
	if err != nil {
		return gen, fmt.Errorf("failed to read generation config: %w", err)
	}
	if err := json.Unmarshal(data, &gen); err != nil {
		return gen, fmt.Errorf("failed to parse generation config: %w", err)
	}
	if err := gen.Validate(); err != nil {
		return gen, err
	}
	return gen, nil
}
