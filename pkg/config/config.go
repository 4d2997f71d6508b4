package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
// All environment variables are read here and nowhere else.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database (optional; history store falls back to memory when unset)
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Arbiter (Claude)
	Anthropic AnthropicConfig

	// Market data
	Market MarketConfig

	// Scanner
	Scan ScanConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// AnthropicConfig holds the generative arbitration service configuration.
// When APIKey is empty the committee runs on the deterministic fallback only.
type AnthropicConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// MarketConfig holds market data provider configuration.
type MarketConfig struct {
	BaseURL        string
	RequestsPerSec float64
	Timeout        time.Duration
}

// ScanConfig holds opportunity scan configuration.
type ScanConfig struct {
	Universe   []string // ticker symbols to scan
	MaxResults int
	Workers    int
	Schedule   string // cron expression for the monitor job
	CacheTTL   time.Duration
}

// defaultUniverse is the built-in microcap test universe across preferred
// sectors, used when SCAN_UNIVERSE is not set.
var defaultUniverse = []string{
	// Technology
	"TSLA", "NVDA", "AMD", "PLTR", "SOFI", "RIVN", "LCID", "NIO", "PLUG", "FCEL",
	// Biotechnology & Healthcare
	"SOUN", "APLD", "NTLA", "CRSP", "EDIT", "BEAM", "BLUE", "RGNX", "FATE", "VERV",
	// Energy (nuclear & uranium)
	"UUUU", "CCJ", "DNN", "UEC", "URG", "PALAF", "LEU", "SMR", "OKLO", "NNE",
	// Space & satellite
	"CRWV", "GSAT", "IRDM", "VSAT", "SATS", "GILT", "ASTS", "LUNR", "RKLB", "SPCE",
}

// Load reads configuration from environment variables.
// This is the only function that calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Anthropic: AnthropicConfig{
			APIKey:      getEnv("ANTHROPIC_API_KEY", ""),
			Model:       getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
			MaxTokens:   getEnvAsInt("ANTHROPIC_MAX_TOKENS", 500),
			Temperature: getEnvAsFloat("ANTHROPIC_TEMPERATURE", 0.3),
			Timeout:     getEnvAsDuration("ANTHROPIC_TIMEOUT", "30s"),
		},

		Market: MarketConfig{
			BaseURL:        getEnv("MARKET_BASE_URL", "https://query1.finance.yahoo.com"),
			RequestsPerSec: getEnvAsFloat("MARKET_REQUESTS_PER_SEC", 4),
			Timeout:        getEnvAsDuration("MARKET_TIMEOUT", "15s"),
		},

		Scan: ScanConfig{
			Universe:   getEnvAsList("SCAN_UNIVERSE", defaultUniverse),
			MaxResults: getEnvAsInt("SCAN_MAX_RESULTS", 10),
			Workers:    getEnvAsInt("SCAN_WORKERS", 8),
			Schedule:   getEnv("SCAN_SCHEDULE", "0 */30 * * * *"),
			CacheTTL:   getEnvAsDuration("SCAN_CACHE_TTL", "30m"),
		},

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if len(c.Scan.Universe) == 0 {
		return fmt.Errorf("SCAN_UNIVERSE must not be empty")
	}

	if c.Scan.Workers < 1 {
		return fmt.Errorf("SCAN_WORKERS must be at least 1")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		fallback, _ := time.ParseDuration(defaultValue)
		return fallback
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
