package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and only here
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Data source
	Source DataSourceConfig

	// Database
	Database DatabaseConfig

	// Redis (opt-in memoization + rate limiting)
	Redis RedisConfig

	// KPI parameters file (growth rates, year cutoffs)
	KPIConfigPath string

	// External APIs
	ENACOM ENACOMConfig

	// API
	RateLimitPerMinute int
	TrustProxy         bool // rate-limit clients by X-Forwarded-For

	// Scheduler
	Scheduler SchedulerConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// DataSourceConfig selects where observations are read from
type DataSourceConfig struct {
	Kind         string // postgres, sqlite
	SQLitePath   string
	QueryTimeout time.Duration // applied to every data-access call
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	CacheTTL time.Duration // observation memoization; 0 uses redis.TTLLong
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	URL      string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// ENACOMConfig holds the open-data portal configuration used by ingestion
type ENACOMConfig struct {
	BaseURL           string
	RequestsPerSecond int
	MinQualityScore   float64 // datasets scoring below are not written
}

// SchedulerConfig holds the cron expressions (with seconds) of the background jobs
type SchedulerConfig struct {
	CacheWarm string
	Ingest    string
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function calling os.Getenv()
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		Source: DataSourceConfig{
			Kind:         getEnv("DATA_SOURCE", "postgres"),
			SQLitePath:   getEnv("SQLITE_PATH", "data/telecom.db"),
			QueryTimeout: getEnvAsDuration("QUERY_TIMEOUT", "10s"),
		},

		// Database
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			Name:            getEnv("DB_NAME", "telecom"),
			User:            getEnv("DB_USER", "telecom"),
			Password:        getEnv("DB_PASSWORD", ""),
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			CacheTTL: getEnvAsDuration("CACHE_TTL", "0s"),
		},

		KPIConfigPath: getEnv("KPI_CONFIG_PATH", "config/kpi.yaml"),

		ENACOM: ENACOMConfig{
			BaseURL:           getEnv("ENACOM_BASE_URL", "https://datosabiertos.enacom.gob.ar"),
			RequestsPerSecond: getEnvAsInt("ENACOM_RATE_LIMIT", 2),
			MinQualityScore:   getEnvAsFloat("INGEST_MIN_QUALITY", 0.5),
		},

		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
		TrustProxy:         getEnvAsBool("TRUST_PROXY", false),

		Scheduler: SchedulerConfig{
			CacheWarm: getEnv("SCHEDULE_CACHE_WARM", "@every 30m"),
			Ingest:    getEnv("SCHEDULE_INGEST", "0 0 6 * * *"),
		},

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	switch c.Source.Kind {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=postgres")
		}
	case "sqlite":
		if c.Source.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when DATA_SOURCE=sqlite")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be one of: postgres, sqlite")
	}

	if c.ENACOM.MinQualityScore < 0 || c.ENACOM.MinQualityScore > 1 {
		return fmt.Errorf("INGEST_MIN_QUALITY must be in [0, 1]")
	}

	if c.Source.QueryTimeout <= 0 {
		return fmt.Errorf("QUERY_TIMEOUT must be positive")
	}

	// Validate environment
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	return nil
}

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
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

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
