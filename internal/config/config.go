package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	StatsAPIURL      string
	PlayerListPath   string
	DBPath           string
	ServerPort       string
	LogLevel         string
	PositionCacheTTL time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	ttl, err := time.ParseDuration(getEnv("POSITION_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid POSITION_CACHE_TTL: %w", err)
	}

	cfg := &Config{
		StatsAPIURL:      getEnv("STATS_API_URL", ""),
		PlayerListPath:   getEnv("PLAYER_LIST_PATH", "PlayerList.json"),
		DBPath:           getEnv("DB_PATH", "pyball.db"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		PositionCacheTTL: ttl,
	}

	if cfg.StatsAPIURL == "" {
		return nil, fmt.Errorf("STATS_API_URL is required")
	}

	logger.Info().
		Str("stats_api_url", cfg.StatsAPIURL).
		Str("player_list_path", cfg.PlayerListPath).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Dur("position_cache_ttl", cfg.PositionCacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var Module = fx.Provide(Load)
