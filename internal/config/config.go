package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port           string
	PostgresDSN    string
	RedisAddr      string
	RedisPassword  string
	SessionBackend string // "redis" or "memory"
	RegistryDir    string
}

// Load reads configuration from the environment, after loading an
// optional .env file for local development.
func Load() *Config {
	godotenv.Load()

	return &Config{
		Port:           getenv("PORT", "8080"),
		PostgresDSN:    getenv("POSTGRES_DSN", ""),
		RedisAddr:      getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword:  getenv("REDIS_PASSWORD", ""),
		SessionBackend: getenv("SESSION_BACKEND", "redis"),
		RegistryDir:    getenv("REGISTRY_DIR", "./registry"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
