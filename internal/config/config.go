package config

import (
	"esc-cup/internal/constants"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	RiotAPIKey       string
	RiotMatchHost    string
	RiotPlatformHost string
	RegionPrefix     string
	DBPath           string
	ServerPort       string
	LogLevel         string
	AllowedOrigins   []string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:       getEnv("RIOT_API_KEY", ""),
		RiotMatchHost:    strings.TrimRight(getEnv("RIOT_MATCH_HOST", "https://asia.api.riotgames.com"), "/"),
		RiotPlatformHost: strings.TrimRight(getEnv("RIOT_PLATFORM_HOST", "https://kr.api.riotgames.com"), "/"),
		RegionPrefix:     normalizePrefix(getEnv("RIOT_REGION_PREFIX", constants.DefaultRegionPrefix)),
		DBPath:           getEnv("DB_PATH", "esccup.db"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		AllowedOrigins:   splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Str("region_prefix", cfg.RegionPrefix).
		Str("riot_match_host", cfg.RiotMatchHost).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func normalizePrefix(prefix string) string {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix != "" && !strings.HasSuffix(prefix, "_") {
		prefix += "_"
	}
	return prefix
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
