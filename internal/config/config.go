package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken         string
	DiscordApplicationID string

	// Hypixel API
	HypixelAPIKey string

	// Storage
	DatabasePath string
	BlobDir      string

	// Snapshot schedule
	Location    *time.Location
	FetchHour   int
	FetchMinute int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:         os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordApplicationID: os.Getenv("DISCORD_APPLICATION_ID"),
		HypixelAPIKey:        os.Getenv("HYPIXEL_API_KEY"),
		DatabasePath:         getEnvOrDefault("DATABASE_PATH", "./data/bot.db"),
		BlobDir:              getEnvOrDefault("BLOB_DIR", "./data/blobs"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
	}

	// Snapshot timestamps and schedule boundaries are all interpreted in
	// this zone.
	tz := getEnvOrDefault("TIMEZONE", "America/New_York")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	cfg.Location = loc

	hour, err := parseIntEnv("FETCH_HOUR", "23")
	if err != nil {
		return nil, err
	}
	minute, err := parseIntEnv("FETCH_MINUTE", "55")
	if err != nil {
		return nil, err
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("FETCH_HOUR/FETCH_MINUTE out of range: %d:%d", hour, minute)
	}
	cfg.FetchHour = hour
	cfg.FetchMinute = minute

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	if cfg.HypixelAPIKey == "" {
		return nil, fmt.Errorf("HYPIXEL_API_KEY is required")
	}

	return cfg, nil
}

func parseIntEnv(key, defaultValue string) (int, error) {
	v, err := strconv.Atoi(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
