package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL  string
	ServerPort  string
	SessionFile string
	HTTPTimeout time.Duration
}

// Load lee .env si existe y arma la configuración desde el entorno.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		APIBaseURL:  getEnv("API_BASE_URL", "http://127.0.0.1:8000/api"),
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		SessionFile: getEnv("SESSION_FILE", ".clinica-session.json"),
		HTTPTimeout: getDuration("HTTP_TIMEOUT", 10*time.Second),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%s", c.ServerPort)
}
