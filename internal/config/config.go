package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
	Generation Generation
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LoggingConfig struct {
	Level      string
	Format     string
	Structured bool
}

// Load reads configuration from the environment. Generation values fall back
// to DefaultGeneration and are validated later, when a generator is built.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            getEnvStr("PORT", "8080"),
			ReadTimeout:     getEnvDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 60*time.Second),
			IdleTimeout:     getEnvDuration("IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
			RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 45*time.Second),
		},
		Database: DatabaseConfig{
			Path:            getEnvStr("DB_PATH", "./worlds.db"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 1),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 1),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level:      getEnvStr("LOG_LEVEL", "info"),
			Format:     getEnvStr("LOG_FORMAT", "json"),
			Structured: getEnvBool("LOG_STRUCTURED", true),
		},
		Generation: loadGeneration(),
	}
}

func loadGeneration() Generation {
	d := DefaultGeneration()
	return Generation{
		SizeX:               getEnvInt("WORLD_SIZE_X", d.SizeX),
		SizeY:               getEnvInt("WORLD_SIZE_Y", d.SizeY),
		Subdivisions:        getEnvInt("WORLD_SUBDIVISIONS", d.Subdivisions),
		Scale:               getEnvFloat("WORLD_SCALE", d.Scale),
		WaterRatio:          getEnvFloat("WORLD_WATER_RATIO", d.WaterRatio),
		MountainRatio:       getEnvFloat("WORLD_MOUNTAIN_RATIO", d.MountainRatio),
		IceCapRatio:         getEnvFloat("WORLD_ICE_CAP_RATIO", d.IceCapRatio),
		PeaksMin:            getEnvInt("WORLD_PEAKS_MIN", d.PeaksMin),
		PeaksMax:            getEnvInt("WORLD_PEAKS_MAX", d.PeaksMax),
		NoiseDetail:         getEnvFloat("WORLD_NOISE_DETAIL", d.NoiseDetail),
		NoiseScale:          getEnvFloat("WORLD_NOISE_SCALE", d.NoiseScale),
		RiverMaxSlope:       getEnvFloat("WORLD_RIVER_MAX_SLOPE", d.RiverMaxSlope),
		RiverLateralChance:  getEnvFloat("WORLD_RIVER_LATERAL_CHANCE", d.RiverLateralChance),
		RiverRetries:        getEnvInt("WORLD_RIVER_RETRIES", d.RiverRetries),
		PondFraction:        getEnvFloat("WORLD_POND_FRACTION", d.PondFraction),
		ForestPatchCount:    getEnvInt("WORLD_FOREST_PATCH_COUNT", d.ForestPatchCount),
		ForestPatchFraction: getEnvFloat("WORLD_FOREST_PATCH_FRACTION", d.ForestPatchFraction),
		ForestSpreadChance:  getEnvFloat("WORLD_FOREST_SPREAD_CHANCE", d.ForestSpreadChance),
		ForestTreeDensity:   getEnvFloat("WORLD_FOREST_TREE_DENSITY", d.ForestTreeDensity),
		GrassTreeDensity:    getEnvFloat("WORLD_GRASS_TREE_DENSITY", d.GrassTreeDensity),
		Seed:                getEnvInt64("WORLD_SEED", d.Seed),
	}
}

func getEnvStr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
