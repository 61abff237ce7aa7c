// Package world runs the generation pipeline and owns the published snapshot
// that pathfinding and rendering read from.
package world

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/heightfield"
	"github.com/VoidMesh/worldgen/internal/hydrology"
	"github.com/VoidMesh/worldgen/internal/logging"
	"github.com/VoidMesh/worldgen/internal/rng"
	"github.com/VoidMesh/worldgen/internal/terrain"
	"github.com/VoidMesh/worldgen/internal/vegetation"
)

// Option customizes a Generator or World.
type Option func(*deps)

type deps struct {
	terrains terrain.Registry
	species  vegetation.Registry
	logger   logging.LoggerInterface
	now      func() time.Time
}

func defaultDeps() deps {
	return deps{
		terrains: terrain.DefaultRegistry(),
		species:  vegetation.DefaultRegistry(),
		logger:   logging.NewDefaultLoggerWrapper(),
		now:      time.Now,
	}
}

// WithTerrainRegistry replaces the built-in terrain table.
func WithTerrainRegistry(reg terrain.Registry) Option {
	return func(d *deps) { d.terrains = reg }
}

// WithSpeciesRegistry replaces the built-in tree species.
func WithSpeciesRegistry(reg vegetation.Registry) Option {
	return func(d *deps) { d.species = reg }
}

// WithLogger sets the logger.
func WithLogger(logger logging.LoggerInterface) Option {
	return func(d *deps) { d.logger = logger }
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

// Generator runs one validated configuration through the pipeline.
type Generator struct {
	cfg config.Generation
	deps
}

// NewGenerator validates cfg and returns a generator for it.
func NewGenerator(cfg config.Generation, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	d := defaultDeps()
	for _, opt := range opts {
		opt(&d)
	}
	d.logger = d.logger.With("component", "world-generator")
	return &Generator{cfg: cfg, deps: d}, nil
}

// Config returns the generation settings.
func (g *Generator) Config() config.Generation { return g.cfg }

// Generate builds a complete snapshot. All randomness comes from one RNG
// seeded with cfg.Seed, so equal configs produce equal worlds. ctx is checked
// between stages.
func (g *Generator) Generate(ctx context.Context) (*Snapshot, error) {
	cfg := g.cfg
	logger := g.logger.With("seed", cfg.Seed, "size_x", cfg.SizeX, "size_y", cfg.SizeY)
	logger.Info("Generating world")
	start := time.Now()

	r := rng.New(cfg.Seed)
	snap := &Snapshot{
		ID:        uuid.New(),
		CreatedAt: g.now().UTC(),
		Config:    cfg,
	}

	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("generation cancelled before %s: %w", name, err)
		}
		t := time.Now()
		if err := fn(); err != nil {
			logger.Error("Generation stage failed", "stage", name, "error", err)
			return fmt.Errorf("%s: %w", name, err)
		}
		logger.Debug("Generation stage complete", "stage", name, "duration", time.Since(t))
		return nil
	}

	err := stage("heightfield", func() error {
		hf := heightfield.NewGenerator(heightfield.Options{
			SpreadMin:    heightfield.DefaultSpreadMin,
			SpreadMax:    heightfield.DefaultSpreadMax,
			AmplitudeMin: heightfield.DefaultAmplitudeMin,
			AmplitudeMax: heightfield.DefaultAmplitudeMax,
			Detail:       cfg.NoiseDetail,
			DetailScale:  cfg.NoiseScale,
		})
		n := r.IntRange(cfg.PeaksMin, cfg.PeaksMax)
		snap.Peaks = hf.RandomPeaks(r, n)

		var detail heightfield.NoiseSource
		if cfg.NoiseDetail > 0 {
			detail = heightfield.NewPerlinNoise(r.Int64())
		}
		snap.HeightField = hf.Render(cfg.SizeX*cfg.Subdivisions, cfg.SizeY*cfg.Subdivisions, snap.Peaks, detail)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage("classify", func() error {
		pooled, err := terrain.PoolHeights(snap.HeightField, cfg.Subdivisions)
		if err != nil {
			return err
		}
		snap.TileHeights = pooled
		snap.Levels = terrain.ComputeLevels(pooled, terrain.Ratios{
			Water:    cfg.WaterRatio,
			Mountain: cfg.MountainRatio,
			IceCap:   cfg.IceCapRatio,
		})
		snap.Tiles, snap.Water = terrain.Classify(pooled, snap.Levels)
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage("hydrology", func() error {
		snap.WaterBodies = hydrology.ClassifyWaterBodies(snap.Tiles, snap.Water, cfg.PondFraction)

		params := hydrology.RiverParams{MaxSlope: cfg.RiverMaxSlope, LateralChance: cfg.RiverLateralChance}
		for attempt := 1; attempt <= cfg.RiverRetries; attempt++ {
			river := hydrology.CarveRiver(r, snap.Tiles, snap.Water, snap.TileHeights, params)
			if river.Len() > 0 {
				logger.Debug("River carved", "attempt", attempt, "length", river.Len(),
					"carved", river.Carved, "stop", river.Stop)
				snap.Rivers = append(snap.Rivers, river)
				return nil
			}
		}
		if cfg.RiverRetries > 0 {
			logger.Warn("No river could be carved", "attempts", cfg.RiverRetries)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage("vegetation", func() error {
		snap.Patches = vegetation.GrowForestPatches(r, snap.Tiles, vegetation.ForestParams{
			PatchCount:    cfg.ForestPatchCount,
			PatchFraction: cfg.ForestPatchFraction,
			SpreadChance:  cfg.ForestSpreadChance,
		})

		densities := vegetation.Densities{
			terrain.Forest:    cfg.ForestTreeDensity,
			terrain.Grassland: cfg.GrassTreeDensity,
		}
		trees, err := vegetation.PopulateTrees(r, snap.Tiles, cfg.Subdivisions, densities, g.terrains, g.species)
		if err != nil {
			return err
		}
		snap.Trees = trees
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = stage("obstacles", func() error {
		snap.Obstacles = terrain.ObstacleMask(snap.Tiles, g.terrains)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sum := snap.Summary()
	logger.Info("World generated",
		"world_id", sum.ID,
		"peaks", sum.Peaks,
		"water_fraction", sum.WaterFraction,
		"rivers", sum.RiverCount,
		"forest_tiles", sum.ForestTiles,
		"trees", sum.TreeCount,
		"duration", time.Since(start))
	return snap, nil
}
