package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment
// variables (optionally seeded from a .env file).
type Config struct {
	// HTTP
	ListenAddr  string
	MetricsAddr string

	// Simulation timing
	FeedInterval time.Duration // price feed tick period
	MTMInterval  time.Duration // mark-to-market tick period

	// Simulated feed reader latency bounds
	FetchLatencyMin time.Duration
	FetchLatencyMax time.Duration

	// Logging
	LogLevel string
	LogFile  string

	// Alert delivery (optional; log-only when unset)
	TelegramBotToken string
	TelegramChatID   string
	AlertWebhookURL  string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("[config] loaded .env")
	}

	return &Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		MetricsAddr: getEnv("METRICS_ADDR", ":9090"),

		FeedInterval: envMillis("FEED_INTERVAL_MS", 1500),
		MTMInterval:  envMillis("MTM_INTERVAL_MS", 1500),

		FetchLatencyMin: envMillis("FETCH_LATENCY_MIN_MS", 100),
		FetchLatencyMax: envMillis("FETCH_LATENCY_MAX_MS", 300),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:   getEnv("TELEGRAM_CHAT_ID", ""),
		AlertWebhookURL:  getEnv("ALERT_WEBHOOK_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envMillis reads an integer millisecond value, falling back on parse errors
// or non-positive values.
func envMillis(key string, def int) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return time.Duration(def) * time.Millisecond
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] ignoring invalid %s=%q", key, v)
		return time.Duration(def) * time.Millisecond
	}
	return time.Duration(n) * time.Millisecond
}
