package vegetation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/rng"
	"github.com/VoidMesh/worldgen/internal/terrain"
)

func TestDefaultRegistry_CoversTerrainVegetation(t *testing.T) {
	trees := DefaultRegistry()
	for _, d := range terrain.DefaultRegistry().All() {
		for _, name := range d.Vegetation {
			_, ok := trees.Lookup(name)
			assert.True(t, ok, "terrain %s lists unknown species %s", d.Name, name)
		}
	}
	assert.Len(t, trees.All(), 4)
}

func TestSpecies_HitPoints(t *testing.T) {
	assert.Equal(t, 15.0, Species{GrowthRate: 10, WoodType: Hardwood}.HitPoints())
	assert.Equal(t, 8.0, Species{GrowthRate: 8, WoodType: Softwood}.HitPoints())
}

func TestLoadRegistry(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, reg *MapRegistry)
	}{
		{
			name: "keyed by name",
			input: `{"Pine":{"growth_rate":8,"water_consumption":3.0,"temp_range":[-5,25],
				"log_yield":15,"seed_yield":4,"wood_type":"softwood","description":"Fast growing tree"}}`,
			check: func(t *testing.T, reg *MapRegistry) {
				s, ok := reg.Lookup("Pine")
				require.True(t, ok)
				assert.Equal(t, "Pine", s.Name)
				assert.Equal(t, 15, s.LogYield)
				assert.Equal(t, [2]int{-5, 25}, s.TemperatureRange)
				assert.Equal(t, Softwood, s.WoodType)
				assert.True(t, s.Unlocked)
			},
		},
		{
			name:  "legacy yield key",
			input: `{"Oak":{"growth_rate":10,"yield":20,"wood_type":"hardwood","unlocked":false}}`,
			check: func(t *testing.T, reg *MapRegistry) {
				s, _ := reg.Lookup("Oak")
				assert.Equal(t, 20, s.LogYield)
				assert.False(t, s.Unlocked)
			},
		},
		{name: "malformed", input: `{"Oak":`, wantErr: "failed to decode"},
		{name: "bad entry", input: `{"Oak":{"growth_rate":"ten"}}`, wantErr: `tree "Oak"`},
		{name: "negative yield", input: `{"Oak":{"log_yield":-1}}`, wantErr: "negative"},
		{name: "inverted range", input: `{"Oak":{"temp_range":[30,0]}}`, wantErr: "inverted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := LoadRegistry(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, reg)
		})
	}
}

func TestPatchCap(t *testing.T) {
	assert.Equal(t, 5, PatchCap(100, 0.05))
	assert.Equal(t, 0, PatchCap(19, 0.05))
	assert.Equal(t, 2, PatchCap(59, 0.05))
}

func grassland(w, h int) *grid.Grid[terrain.Tile] {
	return grid.Filled(w, h, terrain.Tile{Terrain: terrain.Grassland})
}

func TestGrowForestPatches_NoOverlapAndCapped(t *testing.T) {
	params := ForestParams{PatchCount: 8, PatchFraction: 0.05, SpreadChance: 0.6}

	for seed := int64(1); seed <= 10; seed++ {
		tiles := grassland(40, 40)
		// a lake in the middle is never planted
		for y := 15; y < 25; y++ {
			for x := 15; x < 25; x++ {
				tiles.Set(x, y, terrain.Tile{Terrain: terrain.Lake, IsWater: true})
			}
		}

		remaining := 40*40 - 100
		patches := GrowForestPatches(rng.New(seed), tiles, params)
		require.NotEmpty(t, patches)

		seen := make(map[grid.Point]bool)
		for _, p := range patches {
			assert.Equal(t, PatchCap(remaining, params.PatchFraction), p.Cap)
			assert.LessOrEqual(t, p.Size(), p.Cap, "seed %d", seed)
			assert.GreaterOrEqual(t, p.Size(), 1)
			assert.Equal(t, p.Seed, p.Tiles[0])

			for _, pt := range p.Tiles {
				assert.False(t, seen[pt], "seed %d: tile %v in two patches", seed, pt)
				seen[pt] = true
				assert.Equal(t, terrain.Forest, tiles.At(pt.X, pt.Y).Terrain)
			}
			remaining -= p.Size()
		}

		counts := terrain.Histogram(tiles)
		assert.Equal(t, len(seen), counts[terrain.Forest])
		assert.Equal(t, 100, counts[terrain.Lake])
	}
}

func TestGrowForestPatches_PatchesAre4Connected(t *testing.T) {
	tiles := grassland(30, 30)
	patches := GrowForestPatches(rng.New(4), tiles, ForestParams{PatchCount: 3, PatchFraction: 0.1, SpreadChance: 1})

	for _, p := range patches {
		mask := grid.New[bool](30, 30)
		for _, pt := range p.Tiles {
			mask.Set(pt.X, pt.Y, true)
		}
		// flood from the seed reaches every tile of the patch
		reached := map[grid.Point]bool{p.Seed: true}
		queue := []grid.Point{p.Seed}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, d := range grid.Orthogonal {
				nb := grid.Point{X: cur.X + d.X, Y: cur.Y + d.Y}
				if mask.InBounds(nb.X, nb.Y) && mask.At(nb.X, nb.Y) && !reached[nb] {
					reached[nb] = true
					queue = append(queue, nb)
				}
			}
		}
		assert.Len(t, reached, p.Size())
	}
}

func TestGrowForestPatches_ZeroCapStopsSeeding(t *testing.T) {
	tiles := grassland(4, 4)
	patches := GrowForestPatches(rng.New(1), tiles, ForestParams{PatchCount: 5, PatchFraction: 0.05, SpreadChance: 1})
	assert.Empty(t, patches)
	assert.Equal(t, 16, terrain.Histogram(tiles)[terrain.Grassland])

	none := grid.Filled(4, 4, terrain.Tile{Terrain: terrain.Mountain})
	assert.Empty(t, GrowForestPatches(rng.New(1), none, ForestParams{PatchCount: 5, PatchFraction: 1, SpreadChance: 1}))
}

func TestPopulateTrees(t *testing.T) {
	tiles := grassland(3, 2)
	tiles.Set(0, 0, terrain.Tile{Terrain: terrain.Forest})
	tiles.Set(2, 1, terrain.Tile{Terrain: terrain.Forest})
	tiles.Set(1, 1, terrain.Tile{Terrain: terrain.Mountain})

	densities := Densities{terrain.Forest: 1, terrain.Grassland: 0}
	layer, err := PopulateTrees(rng.New(3), tiles, 4, densities, terrain.DefaultRegistry(), DefaultRegistry())
	require.NoError(t, err)

	assert.Equal(t, 32, layer.Count(), "two fully planted forest tiles of 4x4 cells")
	assert.Len(t, layer.InTile(0, 0), 16)
	assert.Len(t, layer.InTile(2, 1), 16)
	assert.Empty(t, layer.InTile(1, 0))
	assert.Empty(t, layer.InTile(1, 1))

	allowed := map[string]bool{"oak": true, "birch": true, "pine": true, "spruce": true}
	for _, tree := range layer.Trees {
		assert.True(t, allowed[tree.Species], tree.Species)
		assert.Equal(t, float64(tree.Cell.X)/4, tree.X)
		assert.Equal(t, float64(tree.Cell.Y)/4, tree.Y)
		assert.Equal(t, terrain.Forest, tiles.At(int(tree.X), int(tree.Y)).Terrain)

		got, ok := layer.At(tree.Cell.X, tree.Cell.Y)
		require.True(t, ok)
		assert.Equal(t, tree, got)
	}

	_, ok := layer.At(-1, 0)
	assert.False(t, ok)
}

func TestPopulateTrees_Errors(t *testing.T) {
	tiles := grid.Filled(2, 2, terrain.Tile{Terrain: terrain.Forest})

	_, err := PopulateTrees(rng.New(1), tiles, 0, DefaultDensities(), terrain.DefaultRegistry(), DefaultRegistry())
	assert.Error(t, err)

	_, err = PopulateTrees(rng.New(1), tiles, 2, Densities{terrain.Forest: 1}, terrain.DefaultRegistry(), NewMapRegistry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tree species")
}
