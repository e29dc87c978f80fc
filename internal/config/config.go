package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config aggregates application configuration values.
type Config struct {
	HTTP    HTTPConfig
	Search  SearchConfig
	Data    DataConfig
	Graph   GraphConfig
	Logging LoggingConfig
}

// HTTPConfig governs HTTP server behaviour.
type HTTPConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	SearchTimeout   time.Duration
}

// SearchConfig carries the tolerances and bounds of the path search. The
// duplicate and goal tolerances are deliberately independent values.
type SearchConfig struct {
	Epsilon      float64 // reaction interval half-width, Daltons
	DuplicatePPM float64
	GoalPPM      float64
	MaxDepth     int
	Workers      int
	MaxStates    int
}

// DataConfig points at the input tables served by the HTTP service.
type DataConfig struct {
	AdductFile   string
	CentralFile  string
	ObservedFile string
	DiffFile     string
}

// GraphConfig describes connectivity to the optional graph export target.
type GraphConfig struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// LoggingConfig controls structured logging settings.
type LoggingConfig struct {
	Level         string
	Format        string // text|json
	IncludeCaller bool
}

const (
	defaultHost             = "0.0.0.0"
	defaultPort             = 8080
	defaultReadTimeout      = 10 * time.Second
	defaultWriteTimeout     = 60 * time.Second
	defaultIdleTimeout      = 60 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultSearchTimeout    = 30 * time.Second
	defaultLoggingLevel     = "info"
	defaultLoggingFormat    = "text"
	defaultGraphMaxSessions = 10

	defaultEpsilon      = 0.005
	defaultDuplicatePPM = 10.0
	defaultGoalPPM      = 20.0
	defaultMaxDepth     = 5
	defaultWorkers      = 1
)

// Load reads configuration from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTP: HTTPConfig{
			Host:            valueOrDefault("SERVER_HOST", defaultHost),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
			SearchTimeout:   defaultSearchTimeout,
		},
		Search: SearchConfig{
			Epsilon:      parseFloatWithDefault("SEARCH_EPSILON", defaultEpsilon),
			DuplicatePPM: parseFloatWithDefault("SEARCH_DUPLICATE_PPM", defaultDuplicatePPM),
			GoalPPM:      parseFloatWithDefault("SEARCH_GOAL_PPM", defaultGoalPPM),
			MaxDepth:     parseIntWithDefault("SEARCH_MAX_DEPTH", defaultMaxDepth),
			Workers:      parseIntWithDefault("SEARCH_WORKERS", defaultWorkers),
			MaxStates:    parseIntWithDefault("SEARCH_MAX_STATES", 0),
		},
		Data: DataConfig{
			AdductFile:   os.Getenv("DATA_ADDUCT_FILE"),
			CentralFile:  os.Getenv("DATA_CENTRAL_FILE"),
			ObservedFile: os.Getenv("DATA_MZ_FILE"),
			DiffFile:     os.Getenv("DATA_DIFF_FILE"),
		},
		Logging: LoggingConfig{
			Level:         valueOrDefault("LOG_LEVEL", defaultLoggingLevel),
			Format:        valueOrDefault("LOG_FORMAT", defaultLoggingFormat),
			IncludeCaller: parseBoolWithDefault("LOG_INCLUDE_CALLER", false),
		},
		Graph: GraphConfig{
			URI:            os.Getenv("GRAPH_URI"),
			Database:       valueOrDefault("GRAPH_DATABASE", ""),
			Username:       os.Getenv("GRAPH_USERNAME"),
			Password:       os.Getenv("GRAPH_PASSWORD"),
			MaxConnections: parseIntWithDefault("GRAPH_MAX_CONNECTIONS", defaultGraphMaxSessions),
		},
	}

	port, err := parsePort("SERVER_PORT", defaultPort)
	if err != nil {
		return Config{}, err
	}
	cfg.HTTP.Port = port

	for _, tc := range []struct {
		env    string
		target *time.Duration
	}{
		{"SERVER_READ_TIMEOUT", &cfg.HTTP.ReadTimeout},
		{"SERVER_WRITE_TIMEOUT", &cfg.HTTP.WriteTimeout},
		{"SERVER_IDLE_TIMEOUT", &cfg.HTTP.IdleTimeout},
		{"SERVER_SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout},
		{"SERVER_SEARCH_TIMEOUT", &cfg.HTTP.SearchTimeout},
	} {
		if v := os.Getenv(tc.env); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", tc.env, err)
			}
			*tc.target = d
		}
	}

	if cfg.Search.Epsilon <= 0 {
		return Config{}, fmt.Errorf("SEARCH_EPSILON must be positive, got %v", cfg.Search.Epsilon)
	}
	if cfg.Search.MaxDepth < 1 {
		return Config{}, fmt.Errorf("SEARCH_MAX_DEPTH must be at least 1, got %d", cfg.Search.MaxDepth)
	}

	return cfg, nil
}

func valueOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBoolWithDefault(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		val, err := strconv.ParseBool(v)
		if err != nil {
			return fallback
		}
		return val
	}
	return fallback
}

func parseIntWithDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			return val
		}
	}
	return fallback
}

func parseFloatWithDefault(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			return val
		}
	}
	return fallback
}

func parsePort(key string, fallback int) (int, error) {
	if v := os.Getenv(key); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
		}
		if port <= 0 || port > 65535 {
			return 0, fmt.Errorf("port %d is out of range", port)
		}
		return port, nil
	}
	return fallback, nil
}
