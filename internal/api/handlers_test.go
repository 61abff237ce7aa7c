package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/pathfind"
	"github.com/VoidMesh/worldgen/internal/store"
	"github.com/VoidMesh/worldgen/internal/terrain"
	"github.com/VoidMesh/worldgen/internal/testmocks"
	mockstore "github.com/VoidMesh/worldgen/internal/testmocks/store"
	"github.com/VoidMesh/worldgen/internal/testutil"
	"github.com/VoidMesh/worldgen/internal/world"
)

func testDefaults() config.Generation {
	cfg := config.DefaultGeneration()
	cfg.SizeX, cfg.SizeY, cfg.Subdivisions = 24, 20, 3
	cfg.Seed = 99
	return cfg
}

type testServer struct {
	handler http.Handler
	world   *world.World
	logger  *testutil.MockLogger
}

func newTestServer(t *testing.T, st WorldStore) *testServer {
	t.Helper()
	logger := testutil.NewMockLogger()
	w := world.New(world.WithLogger(logger))
	h := NewHandler(w, st, testDefaults(), logger)
	return &testServer{handler: SetupRoutes(h, 5*time.Second), world: w, logger: logger}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (s *testServer) generate(t *testing.T) *world.Snapshot {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/world", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	snap := s.world.Snapshot()
	require.NotNil(t, snap)
	return snap
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["world_loaded"])
	assert.Equal(t, false, body["persistence"])
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestListTerrains(t *testing.T) {
	s := newTestServer(t, nil)

	rec := s.do(t, http.MethodGet, "/api/v1/terrains", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	descriptors := decode[[]terrain.Descriptor](t, rec)
	assert.Len(t, descriptors, len(terrain.Categories))
}

func TestGenerateWorld(t *testing.T) {
	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantSeed   int64
		wantSizeX  int
	}{
		{
			name:       "empty body uses defaults",
			body:       nil,
			wantStatus: http.StatusCreated,
			wantSeed:   99,
			wantSizeX:  24,
		},
		{
			name:       "overrides merge over defaults",
			body:       map[string]interface{}{"seed": 7, "size_x": 16},
			wantStatus: http.StatusCreated,
			wantSeed:   7,
			wantSizeX:  16,
		},
		{
			name:       "invalid config",
			body:       map[string]interface{}{"size_x": 0},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ratios over one",
			body:       map[string]interface{}{"water_ratio": 0.7, "mountain_ratio": 0.5},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, nil)

			rec := s.do(t, http.MethodPost, "/api/v1/world", tt.body)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantStatus != http.StatusCreated {
				errResp := decode[ErrorResponse](t, rec)
				assert.Equal(t, tt.wantStatus, errResp.Code)
				assert.Nil(t, s.world.Snapshot())
				return
			}

			resp := decode[GenerateResponse](t, rec)
			assert.False(t, resp.Saved)
			assert.Equal(t, tt.wantSeed, resp.World.Seed)
			assert.Equal(t, tt.wantSizeX, resp.World.SizeX)
			assert.Equal(t, s.world.Snapshot().ID.String(), resp.World.ID)
		})
	}
}

func TestGenerateWorld_MalformedBody(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/world", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLiveWorldEndpoints_NoWorld(t *testing.T) {
	s := newTestServer(t, nil)

	for _, path := range []string{"/api/v1/world", "/api/v1/world/tiles", "/api/v1/world/tiles/1/1"} {
		rec := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := s.do(t, http.MethodPost, "/api/v1/world/paths", PathRequest{Goal: pathfind.Point{X: 1.5, Y: 1.5}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetWorldAndTiles(t *testing.T) {
	s := newTestServer(t, nil)
	snap := s.generate(t)

	rec := s.do(t, http.MethodGet, "/api/v1/world", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[world.Summary](t, rec)
	assert.Equal(t, snap.ID.String(), summary.ID)
	assert.Equal(t, snap.Summary().Histogram, summary.Histogram)

	rec = s.do(t, http.MethodGet, "/api/v1/world/tiles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tiles := decode[TilesResponse](t, rec)
	assert.Equal(t, snap.Width(), tiles.Width)
	assert.Equal(t, snap.Height(), tiles.Height)
	assert.Equal(t, snap.Tiles.Values(), tiles.Tiles)
}

func TestGetTile(t *testing.T) {
	s := newTestServer(t, nil)
	snap := s.generate(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"origin", "/api/v1/world/tiles/0/0", http.StatusOK},
		{"far corner", fmt.Sprintf("/api/v1/world/tiles/%d/%d", snap.Width()-1, snap.Height()-1), http.StatusOK},
		{"x out of bounds", fmt.Sprintf("/api/v1/world/tiles/%d/0", snap.Width()), http.StatusBadRequest},
		{"negative y", "/api/v1/world/tiles/0/-1", http.StatusBadRequest},
		{"non numeric", "/api/v1/world/tiles/a/0", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodGet, tt.path, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			got := decode[TileResponse](t, rec)
			want := snap.Tiles.At(got.X, got.Y)
			assert.Equal(t, want.Terrain, got.Terrain)
			assert.Equal(t, want.IsWater, got.IsWater)
			assert.Equal(t, snap.Blocked(got.X, got.Y), got.Blocked)
			assert.InDelta(t, snap.Elevation(got.X, got.Y), got.Elevation, 1e-9)
			assert.Len(t, got.Trees, len(snap.Trees.InTile(got.X, got.Y)))
		})
	}
}

// openNeighbors finds two orthogonally adjacent tiles that are both passable.
func openNeighbors(t *testing.T, snap *world.Snapshot) (grid.Point, grid.Point) {
	t.Helper()
	for y := 0; y < snap.Height(); y++ {
		for x := 0; x+1 < snap.Width(); x++ {
			if !snap.Blocked(x, y) && !snap.Blocked(x+1, y) {
				return grid.Point{X: x, Y: y}, grid.Point{X: x + 1, Y: y}
			}
		}
	}
	t.Fatal("no passable neighbors in generated world")
	return grid.Point{}, grid.Point{}
}

func blockedTile(t *testing.T, snap *world.Snapshot) grid.Point {
	t.Helper()
	var found *grid.Point
	snap.Obstacles.Each(func(x, y int, blocked bool) {
		if blocked && found == nil {
			found = &grid.Point{X: x, Y: y}
		}
	})
	require.NotNil(t, found, "generated world has no obstacles")
	return *found
}

func TestFindPath(t *testing.T) {
	s := newTestServer(t, nil)
	snap := s.generate(t)

	a, b := openNeighbors(t, snap)
	start, goal := pathfind.Center(a), pathfind.Center(b)

	rec := s.do(t, http.MethodPost, "/api/v1/world/paths", PathRequest{Start: start, Goal: goal})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[PathResponse](t, rec)
	assert.Equal(t, snap.ID.String(), resp.WorldID)
	require.NotEmpty(t, resp.Waypoints)
	assert.Equal(t, start, resp.Waypoints[0])
	assert.Equal(t, goal, resp.Waypoints[len(resp.Waypoints)-1])
	assert.Equal(t, a, resp.Tiles[0])
	assert.Equal(t, b, resp.Tiles[len(resp.Tiles)-1])
	assert.Greater(t, resp.Cost, 0.0)

	// Terrain speeds scale with the base speed, so the terrain term is unchanged.
	slow := s.do(t, http.MethodPost, "/api/v1/world/paths", PathRequest{Start: start, Goal: goal, BaseSpeed: 0.5})
	require.Equal(t, http.StatusOK, slow.Code)
	assert.InDelta(t, resp.Cost, decode[PathResponse](t, slow).Cost, 1e-9)
}

func TestFindPath_Errors(t *testing.T) {
	s := newTestServer(t, nil)
	snap := s.generate(t)
	wall := blockedTile(t, snap)
	open, _ := openNeighbors(t, snap)

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
	}{
		{
			name:       "goal on obstacle",
			body:       PathRequest{Start: pathfind.Center(open), Goal: pathfind.Center(wall)},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "goal outside world",
			body:       PathRequest{Start: pathfind.Center(open), Goal: pathfind.Point{X: -0.5, Y: 1}},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "negative base speed",
			body:       PathRequest{Start: pathfind.Center(open), Goal: pathfind.Center(open), BaseSpeed: -1},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       "start",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/v1/world/paths", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestSavedWorlds_Disabled(t *testing.T) {
	s := newTestServer(t, nil)
	id := uuid.New()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/worlds"},
		{http.MethodGet, "/api/v1/worlds/" + id.String()},
		{http.MethodPost, "/api/v1/worlds/" + id.String() + "/load"},
		{http.MethodDelete, "/api/v1/worlds/" + id.String()},
	}
	for _, tt := range tests {
		rec := s.do(t, tt.method, tt.path, nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "%s %s", tt.method, tt.path)
	}
}

func TestSavedWorlds_SQLiteRoundTrip(t *testing.T) {
	defer testutil.SetupTest(t, testutil.DefaultTestConfig())()

	st, err := store.Open(config.DatabaseConfig{Path: testutil.TempDBPath(t), MaxOpenConns: 1}, testutil.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate())

	s := newTestServer(t, st)

	rec := s.do(t, http.MethodPost, "/api/v1/world", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	generated := decode[GenerateResponse](t, rec)
	assert.True(t, generated.Saved)

	rec = s.do(t, http.MethodGet, "/api/v1/worlds?limit=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Worlds []store.Record `json:"worlds"`
		Count  int            `json:"count"`
	}](t, rec)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, generated.World.ID, list.Worlds[0].ID.String())

	rec = s.do(t, http.MethodGet, "/api/v1/worlds/"+generated.World.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	saved := decode[store.Record](t, rec)
	assert.Equal(t, int64(99), saved.Seed)

	// Replace the live world, then bring the saved one back.
	rec = s.do(t, http.MethodPost, "/api/v1/world", map[string]interface{}{"seed": 1234})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/worlds/"+generated.World.ID+"/load", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, int64(99), s.world.Snapshot().Config.Seed)
	assert.False(t, s.logger.HasMessage("warn", "Regenerated terrain differs from saved world"))

	rec = s.do(t, http.MethodDelete, "/api/v1/worlds/"+generated.World.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/worlds/"+generated.World.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSavedWorlds_StoreErrors(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name       string
		method     string
		path       string
		setup      func(m *mockstore.MockWorldStore)
		wantStatus int
		wantError  string
	}{
		{
			name:   "save failure",
			method: http.MethodPost,
			path:   "/api/v1/world",
			setup: func(m *mockstore.MockWorldStore) {
				m.EXPECT().SaveWorld(gomock.Any(), gomock.Any()).Return(store.Record{}, errors.New("disk full"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
		{
			name:   "list failure",
			method: http.MethodGet,
			path:   "/api/v1/worlds",
			setup: func(m *mockstore.MockWorldStore) {
				m.EXPECT().ListWorlds(gomock.Any(), 50).Return(nil, errors.New("locked"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
		{
			name:       "bad limit",
			method:     http.MethodGet,
			path:       "/api/v1/worlds?limit=-3",
			setup:      func(m *mockstore.MockWorldStore) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid limit",
		},
		{
			name:       "bad id",
			method:     http.MethodGet,
			path:       "/api/v1/worlds/not-a-uuid",
			setup:      func(m *mockstore.MockWorldStore) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid world id",
		},
		{
			name:   "missing world",
			method: http.MethodGet,
			path:   "/api/v1/worlds/" + id.String(),
			setup: func(m *mockstore.MockWorldStore) {
				m.EXPECT().GetWorld(gomock.Any(), id).Return(store.Record{}, store.ErrWorldNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "world not found",
		},
		{
			name:   "load missing world",
			method: http.MethodPost,
			path:   "/api/v1/worlds/" + id.String() + "/load",
			setup: func(m *mockstore.MockWorldStore) {
				m.EXPECT().GetWorld(gomock.Any(), id).Return(store.Record{}, store.ErrWorldNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "world not found",
		},
		{
			name:   "delete missing world",
			method: http.MethodDelete,
			path:   "/api/v1/worlds/" + id.String(),
			setup: func(m *mockstore.MockWorldStore) {
				m.EXPECT().DeleteWorld(gomock.Any(), id).Return(store.ErrWorldNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantError:  "world not found",
		},
		{
			name:   "delete failure",
			method: http.MethodDelete,
			path:   "/api/v1/worlds/" + id.String(),
			setup: func(m *mockstore.MockWorldStore) {
				m.EXPECT().DeleteWorld(gomock.Any(), id).Return(errors.New("io error"))
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := testmocks.NewMockController(t)
			m := mockstore.NewMockWorldStore(ctrl.Controller)
			tt.setup(m)

			s := newTestServer(t, m)
			rec := s.do(t, tt.method, tt.path, nil)
			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			errResp := decode[ErrorResponse](t, rec)
			assert.Equal(t, tt.wantError, errResp.Error)
			assert.Equal(t, tt.wantStatus, errResp.Code)
		})
	}
}

func TestLoadWorld_WarnsOnTerrainDrift(t *testing.T) {
	ctrl := testmocks.NewMockController(t)
	m := mockstore.NewMockWorldStore(ctrl.Controller)

	cfg := testDefaults()
	rec := store.Record{ID: uuid.New(), Seed: cfg.Seed, Config: cfg, Terrain: []byte{0}}
	m.EXPECT().GetWorld(gomock.Any(), rec.ID).Return(rec, nil)

	s := newTestServer(t, m)
	resp := s.do(t, http.MethodPost, "/api/v1/worlds/"+rec.ID.String()+"/load", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.True(t, s.logger.HasMessage("warn", "Regenerated terrain differs from saved world"))
	require.NotNil(t, s.world.Snapshot())
	assert.Equal(t, cfg, s.world.Snapshot().Config)
}
