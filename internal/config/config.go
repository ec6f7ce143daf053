package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const devSecret = "dev-secret-change-in-production"

// Store drivers accepted by STORE_DRIVER.
const (
	StoreMongo  = "mongo"
	StoreMySQL  = "mysql"
	StoreMemory = "memory"
)

var ErrProductionSecret = errors.New("JWT_SECRET must be set in production environment")

type Config struct {
	Port           string
	Env            string
	StoreDriver    string
	MongoURI       string
	MongoDatabase  string
	DatabaseDSN    string
	JWTSecret      string
	JWTExpiry      time.Duration
	CookieExpiry   time.Duration
	RequestTimeout time.Duration
	AllowedOrigins []string
	AuthRateRPS    float64
	AuthRateBurst  int
}

// Production reports whether the process runs in a production-like
// environment. Session cookies are marked Secure only then.
func (c Config) Production() bool {
	return c.Env == "production"
}

func Load() (Config, error) {
	jwtExpiry, err := parseLifetime(getEnv("JWT_EXPIRE", "30d"))
	if err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRE: %w", err)
	}

	cookieDays, err := strconv.Atoi(getEnv("JWT_COOKIE_EXPIRE", "30"))
	if err != nil || cookieDays <= 0 {
		return Config{}, fmt.Errorf("JWT_COOKIE_EXPIRE: must be a positive number of days")
	}

	cfg := Config{
		Port:           getEnv("PORT", "5001"),
		Env:            getEnv("ENV", "development"),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreMongo)),
		MongoURI:       getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase:  getEnv("MONGO_DATABASE", "medbook"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/medbook?parseTime=true"),
		JWTSecret:      getEnv("JWT_SECRET", devSecret),
		JWTExpiry:      jwtExpiry,
		CookieExpiry:   time.Duration(cookieDays) * 24 * time.Hour,
		RequestTimeout: getDurationEnv("REQUEST_TIMEOUT", 10*time.Second),
		AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		AuthRateRPS:    getFloatEnv("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateBurst:  getIntEnv("AUTH_RATE_LIMIT_BURST", 10),
	}

	switch cfg.StoreDriver {
	case StoreMongo, StoreMySQL, StoreMemory:
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}

	if cfg.Production() && cfg.JWTSecret == devSecret {
		return Config{}, ErrProductionSecret
	}

	return cfg, nil
}

// parseLifetime accepts a Go duration ("720h") or a whole number of days
// with a "d" suffix ("30d").
func parseLifetime(v string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid day count %q", v)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("lifetime must be positive, got %s", v)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getFloatEnv(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}

func splitCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
