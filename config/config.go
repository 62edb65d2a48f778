package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port            string
	DataDir         string
	TMDBAPIKey      string
	ExtractorAPIKey string
	AllowedOrigins  []string

	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	LogMaxAgeDays int
}

// Load reads configuration from the environment, with a .env file as
// fallback for local development.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		TMDBAPIKey:      getEnv("TMDB_API_KEY", ""),
		ExtractorAPIKey: getEnv("EXTRACTOR_API_KEY", ""),
		AllowedOrigins:  getEnvList("ALLOWED_ORIGINS"),
		LogFile:         getEnv("LOG_FILE", ""),
		LogMaxSizeMB:    getEnvInt("LOG_MAX_SIZE_MB", 20),
		LogMaxBackups:   getEnvInt("LOG_MAX_BACKUPS", 3),
		LogMaxAgeDays:   getEnvInt("LOG_MAX_AGE_DAYS", 28),
	}
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("[config] %s=%q is not a number, using %d", key, raw, def)
		return def
	}
	return v
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
