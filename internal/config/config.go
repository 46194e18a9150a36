package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string
	DataDir       string

	// Renderer tuning. Scroll steps and delays mirror how a human-paced
	// moderator ingest behaves; navigation timeout caps the whole render.
	RenderTimeoutMs int
	ScrollSteps     int
	ScrollDelayMs   int
	SettleMs        int

	WorkerConcurrency int
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func Load() Config {
	cfg := Config{
		AppEnv:        getenv("APP_ENV", "development"),
		HTTPAddr:      getenv("HTTP_ADDR", ":8082"),
		RedisAddr:     getenv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DataDir:       getenv("DATA_DIR", "./data"),

		RenderTimeoutMs: getenvInt("RENDER_TIMEOUT_MS", 60000),
		ScrollSteps:     getenvInt("RENDER_SCROLL_STEPS", 14),
		ScrollDelayMs:   getenvInt("RENDER_SCROLL_DELAY_MS", 700),
		SettleMs:        getenvInt("RENDER_SETTLE_MS", 1200),

		WorkerConcurrency: getenvInt("WORKER_CONCURRENCY", 4),
	}
	return cfg
}
