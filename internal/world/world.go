package world

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/pathfind"
	"github.com/VoidMesh/worldgen/internal/terrain"
)

// ErrNoWorld is returned by queries made before the first generation.
var ErrNoWorld = errors.New("no world has been generated")

// World owns the live snapshot. Generate calls are serialized; readers take
// the current snapshot with Snapshot and keep it for the whole query.
type World struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	opts    []Option
	deps    deps
}

// New creates an empty world. opts are applied to every generation.
func New(opts ...Option) *World {
	d := defaultDeps()
	for _, opt := range opts {
		opt(&d)
	}
	d.logger = d.logger.With("component", "world")
	return &World{opts: opts, deps: d}
}

// Generate builds a new snapshot from cfg and publishes it. On error the
// previous snapshot stays live.
func (w *World) Generate(ctx context.Context, cfg config.Generation) (*Snapshot, error) {
	gen, err := NewGenerator(cfg, w.opts...)
	if err != nil {
		w.deps.logger.Warn("Rejected generation config", "error", err)
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	snap, err := gen.Generate(ctx)
	if err != nil {
		return nil, err
	}
	w.current.Store(snap)
	w.deps.logger.Info("Published world snapshot", "world_id", snap.ID)
	return snap, nil
}

// Snapshot returns the live snapshot, or nil before the first generation.
func (w *World) Snapshot() *Snapshot {
	return w.current.Load()
}

// Terrains returns the terrain registry used for generation.
func (w *World) Terrains() terrain.Registry { return w.deps.terrains }

// FindPath searches the live snapshot.
func (w *World) FindPath(start, goal pathfind.Point, profile pathfind.MovementProfile) (pathfind.Path, error) {
	snap := w.Snapshot()
	if snap == nil {
		return nil, ErrNoWorld
	}
	return pathfind.FindPath(snap, start, goal, profile)
}

// TerrainProfile returns a movement profile for snap that reads speed
// multipliers from the world's terrain registry.
func (w *World) TerrainProfile(snap *Snapshot, base float64) *pathfind.TerrainProfile {
	return pathfind.NewTerrainProfile(base, snap.Tiles, w.deps.terrains)
}
