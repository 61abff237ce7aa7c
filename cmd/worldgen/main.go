package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/VoidMesh/worldgen/cmd/worldgen/components"
	"github.com/VoidMesh/worldgen/internal/config"
	"github.com/VoidMesh/worldgen/internal/grid"
	"github.com/VoidMesh/worldgen/internal/logging"
	"github.com/VoidMesh/worldgen/internal/pathfind"
	"github.com/VoidMesh/worldgen/internal/store"
	"github.com/VoidMesh/worldgen/internal/terrain"
	"github.com/VoidMesh/worldgen/internal/vegetation"
	"github.com/VoidMesh/worldgen/internal/world"
)

func main() {
	cfg := config.DefaultGeneration()
	fs := flag.NewFlagSet("worldgen", flag.ExitOnError)
	bindGeneration(fs, &cfg)

	configPath := fs.String("config", "", "JSON generation config; explicit flags override it")
	terrainsPath := fs.String("terrains", "", "JSON terrain registry (default: built-in)")
	speciesPath := fs.String("species", "", "JSON tree species registry (default: built-in)")
	savePath := fs.String("save", "", "Save the world to this SQLite database")
	route := fs.String("path", "", "Find a path x0,y0,x1,y1 and draw it on the map")
	baseSpeed := fs.Float64("speed", 1, "Agent base speed for -path")
	noMap := fs.Bool("no-map", false, "Skip the tile map")
	asJSON := fs.Bool("json", false, "Print the summary as JSON")
	logLevel := fs.String("log", "info", "Log level (debug, info, warn, error)")
	_ = fs.Parse(os.Args[1:])

	logging.Configure(os.Stderr, *logLevel, false, "[worldgen] ")
	log.SetDefault(logging.GetLogger())
	logger := logging.NewDefaultLoggerWrapper()

	if *configPath != "" {
		fileCfg, err := config.LoadGenerationFile(*configPath)
		if err != nil {
			log.Fatal("Failed to load generation config", "error", err, "path", *configPath)
		}
		overlay := flag.NewFlagSet("overlay", flag.ContinueOnError)
		bindGeneration(overlay, &fileCfg)
		if err := overlayFlags(fs, overlay); err != nil {
			log.Fatal("Failed to apply flags over config file", "error", err)
		}
		cfg = fileCfg
	}

	terrains, err := loadTerrains(*terrainsPath)
	if err != nil {
		log.Fatal("Failed to load terrain registry", "error", err, "path", *terrainsPath)
	}
	species, err := loadSpecies(*speciesPath)
	if err != nil {
		log.Fatal("Failed to load species registry", "error", err, "path", *speciesPath)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen, err := world.NewGenerator(cfg,
		world.WithTerrainRegistry(terrains),
		world.WithSpeciesRegistry(species),
		world.WithLogger(logger))
	if err != nil {
		log.Fatal("Invalid generation config", "error", err)
	}

	start := time.Now()
	snap, err := gen.Generate(ctx)
	if err != nil {
		log.Fatal("World generation failed", "error", err)
	}
	logging.WithDuration("generate", time.Since(start)).Debug("Generation finished", "world_id", snap.ID)

	var pathTiles []grid.Point
	var pathInfo string
	if *route != "" {
		from, to, err := parseRoute(*route)
		if err != nil {
			log.Fatal("Invalid -path", "error", err)
		}
		res, err := pathfind.Search(snap, from, to, pathfind.NewTerrainProfile(*baseSpeed, snap.Tiles, terrains))
		if err != nil {
			pathInfo = components.ErrorStyle.Render(fmt.Sprintf("no path: %v", err))
		} else {
			pathTiles = res.Tiles
			pathInfo = fmt.Sprintf("path: %d waypoints, length %.2f, cost %.2f, %d tiles expanded",
				len(res.Path), res.Path.Length(), res.Cost, res.Expanded)
		}
	}

	if *savePath != "" {
		if err := save(ctx, *savePath, snap, logger); err != nil {
			log.Fatal("Failed to save world", "error", err, "path", *savePath)
		}
		log.Info("World saved", "world_id", snap.ID, "path", *savePath)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap.Summary()); err != nil {
			log.Fatal("Failed to encode summary", "error", err)
		}
		return
	}

	sections := []string{components.RenderSummary(snap.Summary())}
	if !*noMap {
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top,
			components.RenderMap(snap.Tiles, terrains, pathTiles),
			" ",
			components.RenderLegend(terrains)))
	}
	if pathInfo != "" {
		sections = append(sections, pathInfo)
	}
	fmt.Println(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func loadTerrains(path string) (terrain.Registry, error) {
	if path == "" {
		return terrain.DefaultRegistry(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return terrain.LoadRegistry(f)
}

func loadSpecies(path string) (vegetation.Registry, error) {
	if path == "" {
		return vegetation.DefaultRegistry(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return vegetation.LoadRegistry(f)
}

func save(ctx context.Context, path string, snap *world.Snapshot, logger logging.LoggerInterface) error {
	st, err := store.Open(config.DatabaseConfig{Path: path, MaxOpenConns: 1}, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(); err != nil {
		return err
	}
	_, err = st.SaveWorld(ctx, snap)
	return err
}
