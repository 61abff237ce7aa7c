// Package store persists generated worlds in SQLite. A record keeps the
// generation config, so any saved world can be regenerated exactly, plus an
// encoded copy of its terrain for verification and listing stats.
package store

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/logging"
	"github.com/VoidMesh/worldgen/internal/world"
)

//go:embed migrations/*.sql
var migrations embed.FS

// ErrWorldNotFound is returned when no record has the requested ID.
var ErrWorldNotFound = errors.New("world not found")

// timeLayout has a fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record is one saved world.
type Record struct {
	ID            uuid.UUID         `json:"id"`
	Seed          int64             `json:"seed"`
	SizeX         int               `json:"size_x"`
	SizeY         int               `json:"size_y"`
	Subdivisions  int               `json:"subdivisions"`
	Config        config.Generation `json:"config"`
	Terrain       []byte            `json:"-"`
	WaterFraction float64           `json:"water_fraction"`
	RiverTiles    int               `json:"river_tiles"`
	ForestTiles   int               `json:"forest_tiles"`
	TreeCount     int               `json:"tree_count"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Store is a SQLite-backed world catalogue.
type Store struct {
	db     *sql.DB
	logger logging.LoggerInterface
}

// Open opens (creating if needed) the database at cfg.Path.
func Open(cfg config.DatabaseConfig, logger logging.LoggerInterface) (*Store, error) {
	logger = logger.With("component", "world-store")
	logger.Debug("Opening database connection", "path", cfg.Path)

	db, err := sql.Open("sqlite3", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database initialized", "path", cfg.Path)
	return &Store{db: db, logger: logger}, nil
}

// Migrate applies the embedded schema migrations.
func (s *Store) Migrate() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("failed to open migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		s.logger.Debug("No new migrations to apply")
	case err != nil:
		return fmt.Errorf("failed to run migrations: %w", err)
	default:
		s.logger.Debug("Successfully applied migrations")
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	s.logger.Info("Database migrations completed", "version", version, "dirty", dirty)
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) logQuery(query string, start time.Time, err error, kv ...interface{}) {
	fields := append([]interface{}{"query", query, "duration", time.Since(start)}, kv...)
	if err != nil {
		s.logger.Debug("Database query failed", append(fields, "error", err)...)
		return
	}
	s.logger.Debug("Database query executed", fields...)
}

// NewRecord builds the record for snap without saving it.
func NewRecord(snap *world.Snapshot) Record {
	sum := snap.Summary()
	return Record{
		ID:            snap.ID,
		Seed:          snap.Config.Seed,
		SizeX:         snap.Config.SizeX,
		SizeY:         snap.Config.SizeY,
		Subdivisions:  snap.Config.Subdivisions,
		Config:        snap.Config,
		Terrain:       EncodeTerrain(snap.Tiles),
		WaterFraction: sum.WaterFraction,
		RiverTiles:    sum.RiverTiles,
		ForestTiles:   sum.ForestTiles,
		TreeCount:     sum.TreeCount,
		CreatedAt:     snap.CreatedAt.UTC(),
	}
}

// SaveWorld inserts a record for snap.
func (s *Store) SaveWorld(ctx context.Context, snap *world.Snapshot) (Record, error) {
	rec := NewRecord(snap)

	cfgJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return Record{}, fmt.Errorf("failed to encode generation config: %w", err)
	}

	start := time.Now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO worlds (id, seed, size_x, size_y, subdivisions, config_json, terrain,
			water_fraction, river_tiles, forest_tiles, tree_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Seed, rec.SizeX, rec.SizeY, rec.Subdivisions, string(cfgJSON), rec.Terrain,
		rec.WaterFraction, rec.RiverTiles, rec.ForestTiles, rec.TreeCount, rec.CreatedAt.Format(timeLayout),
	)
	s.logQuery("SaveWorld", start, err, "world_id", rec.ID)
	if err != nil {
		return Record{}, fmt.Errorf("failed to save world: %w", err)
	}
	return rec, nil
}

const selectColumns = `id, seed, size_x, size_y, subdivisions, config_json, terrain,
	water_fraction, river_tiles, forest_tiles, tree_count, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec       Record
		id        string
		cfgJSON   string
		createdAt string
	)
	err := row.Scan(&id, &rec.Seed, &rec.SizeX, &rec.SizeY, &rec.Subdivisions, &cfgJSON, &rec.Terrain,
		&rec.WaterFraction, &rec.RiverTiles, &rec.ForestTiles, &rec.TreeCount, &createdAt)
	if err != nil {
		return Record{}, err
	}

	if rec.ID, err = uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("invalid stored world id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(cfgJSON), &rec.Config); err != nil {
		return Record{}, fmt.Errorf("invalid stored config for world %s: %w", id, err)
	}
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Record{}, fmt.Errorf("invalid stored timestamp for world %s: %w", id, err)
	}
	return rec, nil
}

// GetWorld loads one record.
func (s *Store) GetWorld(ctx context.Context, id uuid.UUID) (Record, error) {
	start := time.Now()
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM worlds WHERE id = ?`, id.String())
	rec, err := scanRecord(row)
	s.logQuery("GetWorld", start, err, "world_id", id)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrWorldNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to get world: %w", err)
	}
	return rec, nil
}

// ListWorlds returns up to limit records, newest first. limit <= 0 means no
// limit.
func (s *Store) ListWorlds(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = -1
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM worlds ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		s.logQuery("ListWorlds", start, err)
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan world: %w", err)
		}
		records = append(records, rec)
	}
	err = rows.Err()
	s.logQuery("ListWorlds", start, err, "count", len(records))
	if err != nil {
		return nil, fmt.Errorf("failed to list worlds: %w", err)
	}
	return records, nil
}

// DeleteWorld removes a record.
func (s *Store) DeleteWorld(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	res, err := s.db.ExecContext(ctx, `DELETE FROM worlds WHERE id = ?`, id.String())
	s.logQuery("DeleteWorld", start, err, "world_id", id)
	if err != nil {
		return fmt.Errorf("failed to delete world: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete world: %w", err)
	}
	if n == 0 {
		return ErrWorldNotFound
	}
	return nil
}
