package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port           string
	GinMode        string
	AllowedOrigins []string
	LogLevel       string

	APIBaseURL string
	APIToken   string
	APITimeout time.Duration

	MapsAPIKey    string
	MapsBaseURL   string
	MapsRateLimit float64

	SessionStore   string // "postgres" or "memory"
	DatabaseDSN    string
	QueryStaleTime time.Duration
}

// Load reads .env (if any) and the process environment.
func Load() *Config {
	// .env is optional; production sets variables directly
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "3000"),
		GinMode:  getEnv("GIN_MODE", "debug"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		APIBaseURL: strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8000"), "/"),
		APIToken:   os.Getenv("API_TOKEN"),
		APITimeout: getEnvAsDuration("API_TIMEOUT", 120*time.Second),

		MapsAPIKey:    os.Getenv("MAPS_API_KEY"),
		MapsBaseURL:   strings.TrimRight(getEnv("MAPS_BASE_URL", "https://maps.googleapis.com"), "/"),
		MapsRateLimit: getEnvAsFloat("MAPS_RATE_LIMIT", 10),

		SessionStore:   getEnv("SESSION_STORE", "postgres"),
		DatabaseDSN:    buildDSN(),
		QueryStaleTime: getEnvAsDuration("QUERY_STALE_TIME", 5*time.Minute),
	}

	cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	if frontendURLs := os.Getenv("FRONTEND_URL"); frontendURLs != "" {
		for _, u := range strings.Split(frontendURLs, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, u)
			}
		}
	}

	return cfg
}

// Release reports whether the server runs in production mode.
func (c *Config) Release() bool {
	return c.GinMode == "release"
}

func buildDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	pass := getEnv("DB_PASSWORD", "postgres")
	name := getEnv("DB_NAME", "autotrip")
	sslmode := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, name, sslmode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
