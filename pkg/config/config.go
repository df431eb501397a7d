package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
	_ "time/tzdata" // CHART_TIMEZONE and exchange zones must resolve in slim containers

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 모든 환경변수는 여기서만 읽음
type Config struct {
	// Server
	Port string
	Host string
	Env  string // development, staging, production

	// Redis
	Redis RedisConfig

	// Market data provider
	Provider ProviderConfig

	// Fan-out
	Fetch FetchConfig

	// In-memory series cache
	Cache CacheConfig

	// Reports
	Report ReportConfig

	// Scheduled publishing
	Publish PublishConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool

	// Shared fetch budget across instances
	RateLimit  int
	RateWindow time.Duration
}

// ProviderConfig selects and configures the market data provider
type ProviderConfig struct {
	Name        string // yahoo, financego
	YahooURL    string
	HTTPTimeout time.Duration
	Retries     int
}

// FetchConfig bounds the per-symbol fan-out
type FetchConfig struct {
	Workers    int
	RatePerSec float64 // 0 = unlimited
	Burst      int
}

// CacheConfig holds series cache configuration
type CacheConfig struct {
	TTL         time.Duration // 0 = disabled, every fetch goes to the provider
	CleanupCron string
}

// ReportConfig holds report parameters
type ReportConfig struct {
	TopK                 int
	WeeklyLookbackDays   int
	OpenDiffLookbackYear int
	DefaultSymbol        string
	ChartSymbol          string
	ChartTimezone        string
	UniverseFile         string // empty = embedded NSE list
}

// PublishConfig holds cron publishing configuration
type PublishConfig struct {
	Dir          string
	MomentumCron string
	ChartCron    string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 이 함수만 os.Getenv()를 호출함
func Load() (*Config, error) {
	loadEnvFile()

	env := getEnv("ENV", "development")

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "3000"),
		Host: getEnv("HOST", defaultHost(env)),
		Env:  env,

		// Redis
		Redis: RedisConfig{
			Host:       getEnv("REDIS_HOST", "localhost"),
			Port:       getEnv("REDIS_PORT", "6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getEnvAsInt("REDIS_DB", 0),
			Enabled:    getEnvAsBool("REDIS_ENABLED", false),
			RateLimit:  getEnvAsInt("REDIS_RATE_LIMIT", 20),
			RateWindow: getEnvAsDuration("REDIS_RATE_WINDOW", "1s"),
		},

		Provider: ProviderConfig{
			Name:        getEnv("PROVIDER", "yahoo"),
			YahooURL:    getEnv("YAHOO_BASE_URL", "https://query1.finance.yahoo.com"),
			HTTPTimeout: getEnvAsDuration("HTTP_TIMEOUT", "15s"),
			Retries:     getEnvAsInt("FETCH_RETRIES", 0),
		},

		Fetch: FetchConfig{
			Workers:    getEnvAsInt("WORKERS", 8),
			RatePerSec: getEnvAsFloat("FETCH_RATE_PER_SEC", 0),
			Burst:      getEnvAsInt("FETCH_BURST", 1),
		},

		Cache: CacheConfig{
			TTL:         getEnvAsDuration("CACHE_TTL", "0s"),
			CleanupCron: getEnv("CACHE_CLEANUP_CRON", "0 */5 * * * *"),
		},

		Report: ReportConfig{
			TopK:                 getEnvAsInt("TOP_K", 10),
			WeeklyLookbackDays:   getEnvAsInt("WEEKLY_LOOKBACK_DAYS", 35),
			OpenDiffLookbackYear: getEnvAsInt("OPENDIFF_LOOKBACK_YEARS", 2),
			DefaultSymbol:        getEnv("DEFAULT_SYMBOL", "CCL.NS"),
			ChartSymbol:          getEnv("CHART_SYMBOL", "^NSEI"),
			ChartTimezone:        getEnv("CHART_TIMEZONE", "Asia/Kolkata"),
			UniverseFile:         getEnv("UNIVERSE_FILE", ""),
		},

		Publish: PublishConfig{
			Dir:          getEnv("PUBLISH_DIR", "public"),
			MomentumCron: getEnv("PUBLISH_MOMENTUM_CRON", "0 0 18 * * 1-5"),
			ChartCron:    getEnv("PUBLISH_CHART_CRON", "0 30 9 * * 1-5"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// validate checks if configuration values are usable
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Provider.Name != "yahoo" && c.Provider.Name != "financego" {
		return fmt.Errorf("PROVIDER must be one of: yahoo, financego")
	}

	if c.Fetch.Workers < 1 {
		return fmt.Errorf("WORKERS must be >= 1")
	}

	if c.Fetch.RatePerSec < 0 {
		return fmt.Errorf("FETCH_RATE_PER_SEC must be >= 0")
	}

	if c.Cache.TTL < 0 {
		return fmt.Errorf("CACHE_TTL must be >= 0")
	}

	if c.Report.TopK < 1 {
		return fmt.Errorf("TOP_K must be >= 1")
	}

	if c.Report.WeeklyLookbackDays < 1 || c.Report.OpenDiffLookbackYear < 1 {
		return fmt.Errorf("lookback windows must be >= 1")
	}

	if _, err := time.LoadLocation(c.Report.ChartTimezone); err != nil {
		return fmt.Errorf("CHART_TIMEZONE: %w", err)
	}

	return nil
}

// defaultHost binds loopback only for local development (hosted mode listens everywhere)
func defaultHost(env string) string {
	if env == "development" {
		return "localhost"
	}
	return ""
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
	}

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

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
