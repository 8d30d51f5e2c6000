package config

import (
	"github.com/joho/godotenv"

	"github.com/BenInbound/survey-app-v2-sub000/internal/utils"
)

type Config struct {
	Addr          string
	SQLitePath    string
	MigrationsDir string
	StaticDir     string
	Commit        string
	BuildTime     string
}

// Load reads configuration from the environment, with an optional .env file
// for local development. Missing keys fall back to development defaults.
func Load() *Config {
	// Production sets real env vars; a missing .env is not an error.
	_ = godotenv.Load()

	return &Config{
		Addr:          utils.SafeEnv("ALIGN_ADDR", ":8080"),
		SQLitePath:    utils.SafeEnv("ALIGN_SQLITE_PATH", "data/align.db"),
		MigrationsDir: utils.SafeEnv("ALIGN_MIGRATIONS_DIR", ""),
		StaticDir:     utils.SafeEnv("ALIGN_STATIC_DIR", ""),
		Commit:        utils.SafeEnv("ALIGN_COMMIT", ""),
		BuildTime:     utils.SafeEnv("ALIGN_BUILD_TIME", ""),
	}
}
