package main

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/pathfind"
)

// bindGeneration registers one flag per generation knob on fs, writing into
// cfg. Flag defaults are cfg's current values.
func bindGeneration(fs *flag.FlagSet, cfg *config.Generation) {
	fs.IntVar(&cfg.SizeX, "size-x", cfg.SizeX, "World width in tiles")
	fs.IntVar(&cfg.SizeY, "size-y", cfg.SizeY, "World height in tiles")
	fs.IntVar(&cfg.Subdivisions, "subdivisions", cfg.Subdivisions, "Height-field cells per tile edge")
	fs.Float64Var(&cfg.Scale, "scale", cfg.Scale, "Meters per tile")

	fs.Float64Var(&cfg.WaterRatio, "water", cfg.WaterRatio, "Fraction of tiles below water level")
	fs.Float64Var(&cfg.MountainRatio, "mountain", cfg.MountainRatio, "Fraction of tiles at or above mountain level")
	fs.Float64Var(&cfg.IceCapRatio, "ice", cfg.IceCapRatio, "Fraction of tiles at or above ice level")

	fs.IntVar(&cfg.PeaksMin, "peaks-min", cfg.PeaksMin, "Minimum number of Gaussian peaks")
	fs.IntVar(&cfg.PeaksMax, "peaks-max", cfg.PeaksMax, "Maximum number of Gaussian peaks")
	fs.Float64Var(&cfg.NoiseDetail, "noise-detail", cfg.NoiseDetail, "Perlin detail amplitude (0 disables)")
	fs.Float64Var(&cfg.NoiseScale, "noise-scale", cfg.NoiseScale, "Perlin detail frequency")

	fs.Float64Var(&cfg.RiverMaxSlope, "river-slope", cfg.RiverMaxSlope, "Largest height drop a river may take")
	fs.Float64Var(&cfg.RiverLateralChance, "river-lateral", cfg.RiverLateralChance, "Chance a river step prefers a gentle slope")
	fs.IntVar(&cfg.RiverRetries, "river-retries", cfg.RiverRetries, "River carving attempts")
	fs.Float64Var(&cfg.PondFraction, "pond-fraction", cfg.PondFraction, "Enclosed water bodies smaller than this share of the map are ponds")

	fs.IntVar(&cfg.ForestPatchCount, "forest-patches", cfg.ForestPatchCount, "Number of forest patches")
	fs.Float64Var(&cfg.ForestPatchFraction, "forest-fraction", cfg.ForestPatchFraction, "Patch size cap as a share of remaining grassland")
	fs.Float64Var(&cfg.ForestSpreadChance, "forest-spread", cfg.ForestSpreadChance, "Chance forest spreads to a neighbor")
	fs.Float64Var(&cfg.ForestTreeDensity, "forest-density", cfg.ForestTreeDensity, "Tree chance per forest cell")
	fs.Float64Var(&cfg.GrassTreeDensity, "grass-density", cfg.GrassTreeDensity, "Tree chance per grassland cell")

	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
}

// overlayFlags copies every flag explicitly set on src onto the same-named
// flag of dst.
func overlayFlags(src, dst *flag.FlagSet) error {
	var err error
	src.Visit(func(f *flag.Flag) {
		if err != nil || dst.Lookup(f.Name) == nil {
			return
		}
		err = dst.Set(f.Name, f.Value.String())
	})
	return err
}

// parseRoute parses "x0,y0,x1,y1" into a start and goal point.
func parseRoute(s string) (pathfind.Point, pathfind.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return pathfind.Point{}, pathfind.Point{}, fmt.Errorf("route %q: want x0,y0,x1,y1", s)
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return pathfind.Point{}, pathfind.Point{}, fmt.Errorf("route %q: %w", s, err)
		}
		v[i] = f
	}
	return pathfind.Point{X: v[0], Y: v[1]}, pathfind.Point{X: v[2], Y: v[3]}, nil
}
