package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/logging"
	"github.com/VoidMesh/worldgen/internal/pathfind"
	"github.com/VoidMesh/worldgen/internal/store"
	"github.com/VoidMesh/worldgen/internal/terrain"
	"github.com/VoidMesh/worldgen/internal/vegetation"
	"github.com/VoidMesh/worldgen/internal/world"
)

//go:generate go tool mockgen -destination=../testmocks/store/mock_store.go -package=mockstore . WorldStore

// WorldStore persists generated worlds.
type WorldStore interface {
	SaveWorld(ctx context.Context, snap *world.Snapshot) (store.Record, error)
	GetWorld(ctx context.Context, id uuid.UUID) (store.Record, error)
	ListWorlds(ctx context.Context, limit int) ([]store.Record, error)
	DeleteWorld(ctx context.Context, id uuid.UUID) error
}

const storeTimeout = 10 * time.Second

type Handler struct {
	world    *world.World
	store    WorldStore
	defaults config.Generation
	logger   logging.LoggerInterface
}

// NewHandler creates the API handler. st may be nil, which disables the saved
// world endpoints.
func NewHandler(w *world.World, st WorldStore, defaults config.Generation, logger logging.LoggerInterface) *Handler {
	return &Handler{
		world:    w,
		store:    st,
		defaults: defaults,
		logger:   logger.With("component", "api"),
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type GenerateResponse struct {
	World world.Summary `json:"world"`
	Saved bool          `json:"saved"`
}

type TilesResponse struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Tiles  []terrain.Tile `json:"tiles"`
}

type TileResponse struct {
	X         int               `json:"x"`
	Y         int               `json:"y"`
	Terrain   terrain.Category  `json:"terrain"`
	IsWater   bool              `json:"is_water"`
	Blocked   bool              `json:"blocked"`
	Elevation float64           `json:"elevation"`
	Trees     []vegetation.Tree `json:"trees"`
}

type PathRequest struct {
	Start     pathfind.Point `json:"start"`
	Goal      pathfind.Point `json:"goal"`
	BaseSpeed float64        `json:"base_speed"`
}

type PathResponse struct {
	WorldID   string         `json:"world_id"`
	Waypoints pathfind.Path  `json:"waypoints"`
	Tiles     []grid.Point   `json:"tiles"`
	Cost      float64        `json:"cost"`
	Length    float64        `json:"length"`
	Expanded  int            `json:"expanded"`
	Start     pathfind.Point `json:"start"`
	Goal      pathfind.Point `json:"goal"`
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":       "healthy",
		"timestamp":    time.Now().Unix(),
		"service":      "voidmesh-worldgen",
		"version":      "1.0.0",
		"world_loaded": h.world.Snapshot() != nil,
		"persistence":  h.store != nil,
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response)
}

func (h *Handler) ListTerrains(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, h.world.Terrains().All())
}

// GenerateWorld decodes an optional JSON body of generation overrides on top
// of the server defaults, generates, publishes and saves the world.
func (h *Handler) GenerateWorld(w http.ResponseWriter, r *http.Request) {
	cfg := h.defaults
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		h.renderError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	snap, err := h.world.Generate(r.Context(), cfg)
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			h.renderError(w, r, http.StatusBadRequest, cfgErr.Error(), err)
			return
		}
		h.renderError(w, r, http.StatusInternalServerError, "failed to generate world", err)
		return
	}

	resp := GenerateResponse{World: snap.Summary()}
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
		defer cancel()

		if _, err := h.store.SaveWorld(ctx, snap); err != nil {
			h.renderError(w, r, http.StatusInternalServerError, "failed to save world", err)
			return
		}
		resp.Saved = true
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

func (h *Handler) currentSnapshot(w http.ResponseWriter, r *http.Request) (*world.Snapshot, bool) {
	snap := h.world.Snapshot()
	if snap == nil {
		h.renderError(w, r, http.StatusNotFound, "no world has been generated", nil)
		return nil, false
	}
	return snap, true
}

func (h *Handler) GetWorld(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, snap.Summary())
}

func (h *Handler) GetTiles(w http.ResponseWriter, r *http.Request) {
	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}

	tiles := make([]terrain.Tile, 0, snap.Tiles.Len())
	snap.EachTile(func(_, _ int, t terrain.Tile) {
		tiles = append(tiles, t)
	})

	render.Status(r, http.StatusOK)
	render.JSON(w, r, TilesResponse{Width: snap.Width(), Height: snap.Height(), Tiles: tiles})
}

func (h *Handler) GetTile(w http.ResponseWriter, r *http.Request) {
	x, err := strconv.Atoi(chi.URLParam(r, "x"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid x coordinate", err)
		return
	}
	y, err := strconv.Atoi(chi.URLParam(r, "y"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid y coordinate", err)
		return
	}

	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}

	tile, err := snap.Tile(x, y)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "tile out of bounds", err)
		return
	}

	trees := snap.Trees.InTile(x, y)
	if trees == nil {
		trees = []vegetation.Tree{}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, TileResponse{
		X:         x,
		Y:         y,
		Terrain:   tile.Terrain,
		IsWater:   tile.IsWater,
		Blocked:   snap.Blocked(x, y),
		Elevation: snap.Elevation(x, y),
		Trees:     trees,
	})
}

// FindPath routes between two points of the live world. When base_speed is
// omitted the agent moves at speed 1 scaled by terrain.
func (h *Handler) FindPath(w http.ResponseWriter, r *http.Request) {
	var req PathRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.BaseSpeed == 0 {
		req.BaseSpeed = 1
	}
	if req.BaseSpeed < 0 {
		h.renderError(w, r, http.StatusBadRequest, "base_speed must be positive", nil)
		return
	}

	snap, ok := h.currentSnapshot(w, r)
	if !ok {
		return
	}

	res, err := pathfind.Search(snap, req.Start, req.Goal, h.world.TerrainProfile(snap, req.BaseSpeed))
	switch {
	case errors.Is(err, pathfind.ErrNoPath):
		h.renderError(w, r, http.StatusNotFound, "no path between start and goal", nil)
		return
	case errors.Is(err, grid.ErrOutOfBounds):
		h.renderError(w, r, http.StatusBadRequest, "start or goal outside the world", err)
		return
	case err != nil:
		h.renderError(w, r, http.StatusBadRequest, "invalid path request", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, PathResponse{
		WorldID:   snap.ID.String(),
		Waypoints: res.Path,
		Tiles:     res.Tiles,
		Cost:      res.Cost,
		Length:    res.Path.Length(),
		Expanded:  res.Expanded,
		Start:     req.Start,
		Goal:      req.Goal,
	})
}

func (h *Handler) requireStore(w http.ResponseWriter, r *http.Request) bool {
	if h.store == nil {
		h.renderError(w, r, http.StatusServiceUnavailable, "world persistence is disabled", nil)
		return false
	}
	return true
}

func (h *Handler) worldID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid world id", err)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) ListWorlds(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.renderError(w, r, http.StatusBadRequest, "invalid limit", err)
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	records, err := h.store.ListWorlds(ctx, limit)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "failed to list worlds", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"worlds": records,
		"count":  len(records),
	})
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) (store.Record, bool) {
	if !h.requireStore(w, r) {
		return store.Record{}, false
	}
	id, ok := h.worldID(w, r)
	if !ok {
		return store.Record{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	rec, err := h.store.GetWorld(ctx, id)
	if errors.Is(err, store.ErrWorldNotFound) {
		h.renderError(w, r, http.StatusNotFound, "world not found", nil)
		return store.Record{}, false
	}
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "failed to get world", err)
		return store.Record{}, false
	}
	return rec, true
}

func (h *Handler) GetSavedWorld(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.getRecord(w, r)
	if !ok {
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, rec)
}

// LoadWorld regenerates a saved world from its stored config and makes it
// the live world.
func (h *Handler) LoadWorld(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.getRecord(w, r)
	if !ok {
		return
	}

	snap, err := h.world.Generate(r.Context(), rec.Config)
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "failed to regenerate world", err)
		return
	}

	if !bytes.Equal(store.EncodeTerrain(snap.Tiles), rec.Terrain) {
		h.logger.Warn("Regenerated terrain differs from saved world", "world_id", rec.ID, "seed", rec.Seed)
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"source_id": rec.ID,
		"world":     snap.Summary(),
	})
}

func (h *Handler) DeleteWorld(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w, r) {
		return
	}
	id, ok := h.worldID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	err := h.store.DeleteWorld(ctx, id)
	if errors.Is(err, store.ErrWorldNotFound) {
		h.renderError(w, r, http.StatusNotFound, "world not found", nil)
		return
	}
	if err != nil {
		h.renderError(w, r, http.StatusInternalServerError, "failed to delete world", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	errorResponse := ErrorResponse{
		Error:   message,
		Code:    status,
		Message: message,
	}

	if err != nil {
		h.logger.Error("API error", "error", err, "message", message, "status", status)
		// Don't expose internal errors to the client
		if status >= 500 {
			errorResponse.Error = "Internal server error"
		}
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse)
}
