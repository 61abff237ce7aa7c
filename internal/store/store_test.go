package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/terrain"
	"github.com/VoidMesh/worldgen/internal/testutil"
	"github.com/VoidMesh/worldgen/internal/world"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(config.DatabaseConfig{Path: testutil.TempDBPath(t), MaxOpenConns: 1}, testutil.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func generate(t *testing.T, seed int64, at time.Time) *world.Snapshot {
	t.Helper()
	cfg := config.DefaultGeneration()
	cfg.SizeX, cfg.SizeY, cfg.Subdivisions = 20, 16, 3
	cfg.Seed = seed

	gen, err := world.NewGenerator(cfg,
		world.WithLogger(testutil.NewMockLogger()),
		world.WithClock(func() time.Time { return at }))
	require.NoError(t, err)
	snap, err := gen.Generate(context.Background())
	require.NoError(t, err)
	return snap
}

func TestStore_SaveAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := testutil.CreateTestContext(t)
	snap := generate(t, 11, time.Date(2024, 3, 1, 10, 0, 0, 123, time.UTC))

	saved, err := s.SaveWorld(ctx, snap)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, saved.ID)

	got, err := s.GetWorld(ctx, snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.Config, got.Config)
	assert.Equal(t, int64(11), got.Seed)
	assert.Equal(t, 20, got.SizeX)
	assert.Equal(t, 16, got.SizeY)
	assert.Equal(t, 3, got.Subdivisions)
	assert.True(t, saved.CreatedAt.Equal(got.CreatedAt))
	assert.InDelta(t, saved.WaterFraction, got.WaterFraction, 1e-12)
	assert.Equal(t, saved.TreeCount, got.TreeCount)

	tiles, err := DecodeTerrain(got.Terrain, got.SizeX, got.SizeY)
	require.NoError(t, err)
	assert.True(t, grid.Equal(snap.Tiles, tiles))
}

func TestStore_SavedConfigRegeneratesSameWorld(t *testing.T) {
	s := openTestStore(t)
	ctx := testutil.CreateTestContext(t)
	snap := generate(t, 5, time.Now())

	_, err := s.SaveWorld(ctx, snap)
	require.NoError(t, err)
	rec, err := s.GetWorld(ctx, snap.ID)
	require.NoError(t, err)

	again, err := world.New(world.WithLogger(testutil.NewMockLogger())).Generate(ctx, rec.Config)
	require.NoError(t, err)
	assert.Equal(t, rec.Terrain, EncodeTerrain(again.Tiles))
}

func TestStore_ListWorlds(t *testing.T) {
	s := openTestStore(t)
	ctx := testutil.CreateTestContext(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		snap := generate(t, int64(i+1), base.Add(time.Duration(i)*time.Hour))
		_, err := s.SaveWorld(ctx, snap)
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}

	all, err := s.ListWorlds(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, ids[2], all[0].ID)
	assert.Equal(t, ids[1], all[1].ID)
	assert.Equal(t, ids[0], all[2].ID)

	limited, err := s.ListWorlds(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestStore_ListWorlds_Empty(t *testing.T) {
	s := openTestStore(t)

	records, err := s.ListWorlds(testutil.CreateTestContext(t), 10)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestStore_DeleteWorld(t *testing.T) {
	s := openTestStore(t)
	ctx := testutil.CreateTestContext(t)
	snap := generate(t, 2, time.Now())
	_, err := s.SaveWorld(ctx, snap)
	require.NoError(t, err)

	require.NoError(t, s.DeleteWorld(ctx, snap.ID))
	_, err = s.GetWorld(ctx, snap.ID)
	assert.ErrorIs(t, err, ErrWorldNotFound)
	assert.ErrorIs(t, s.DeleteWorld(ctx, snap.ID), ErrWorldNotFound)
}

func TestStore_DuplicateSaveFails(t *testing.T) {
	s := openTestStore(t)
	ctx := testutil.CreateTestContext(t)
	snap := generate(t, 3, time.Now())

	_, err := s.SaveWorld(ctx, snap)
	require.NoError(t, err)
	_, err = s.SaveWorld(ctx, snap)
	assert.Error(t, err)
}

func TestStore_MigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.Migrate())
}

func TestDecodeTerrain_Errors(t *testing.T) {
	_, err := DecodeTerrain([]byte{0, 1, 2}, 2, 2)
	assert.Error(t, err)

	_, err = DecodeTerrain([]byte{0, 1, 2, unknownTerrain}, 2, 2)
	assert.Error(t, err)

	tiles := grid.New[terrain.Tile](2, 1)
	tiles.Set(0, 0, terrain.Tile{Terrain: terrain.River, IsWater: true})
	tiles.Set(1, 0, terrain.Tile{Terrain: "swamp"})
	assert.Equal(t, []byte{3, unknownTerrain}, EncodeTerrain(tiles))
}
