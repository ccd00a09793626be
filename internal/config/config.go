package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	pkgRetry "ragagent/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	DriveConnectorCfg DriveConnectorConfig `envPrefix:"DRIVE_"`
	RAGConnectorCfg   RAGConnectorConfig   `envPrefix:"RAG_"`
	LLMConnectorCfg   LLMConnectorConfig   `envPrefix:"LLM_"`

	// Ingestion configuration
	IngestCfg IngestConfig `envPrefix:"INGEST_"`

	// Session configuration
	SessionCfg SessionConfig `envPrefix:"SESSION_"`

	// CORS configuration
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

type DriveConnectorConfig struct {
	HTTPClientConfig
	ListEndpoint string `env:"LIST_ENDPOINT" envDefault:"/files"`
	GetEndpoint  string `env:"GET_ENDPOINT" envDefault:"/files/{file_id}"`
	PageSize     int    `env:"PAGE_SIZE" envDefault:"1000"`
}

type RAGConnectorConfig struct {
	HTTPClientConfig
	CorporaEndpoint string               `env:"CORPORA_ENDPOINT" envDefault:"/corpora"`
	ImportEndpoint  string               `env:"IMPORT_ENDPOINT" envDefault:"/corpora/{corpus_id}/documents:import"`
	QueryEndpoint   string               `env:"QUERY_ENDPOINT" envDefault:"/corpora/{corpus_id}:query"`
	MaxBatchSize    int                  `env:"MAX_BATCH_SIZE" envDefault:"25"`
	Retry           pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	CompleteEndpoint string               `env:"COMPLETE_ENDPOINT" envDefault:"/complete"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// IngestConfig holds bulk ingestion limits. BatchSize must stay at or below
// the ingestion service's per-call cap (RAG_MAX_BATCH_SIZE).
type IngestConfig struct {
	DefaultFolderID   string `env:"DEFAULT_FOLDER_ID"`
	IncludeSubfolders bool   `env:"INCLUDE_SUBFOLDERS" envDefault:"true"`
	MaxFiles          int    `env:"MAX_FILES" envDefault:"1000"`
	PreviewMaxFiles   int    `env:"PREVIEW_MAX_FILES" envDefault:"100"`
	BatchSize         int    `env:"BATCH_SIZE" envDefault:"25"`
}

// SessionConfig holds chat session bookkeeping knobs.
type SessionConfig struct {
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"30m"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"10m"`
	HistoryLimit    int           `env:"HISTORY_LIMIT" envDefault:"40"`
}

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.IngestCfg.BatchSize < 1 {
		errs = append(errs, fmt.Sprintf("INGEST_BATCH_SIZE must be at least 1, got %d", cfg.IngestCfg.BatchSize))
	}

	if cfg.IngestCfg.BatchSize > cfg.RAGConnectorCfg.MaxBatchSize {
		errs = append(errs, fmt.Sprintf("INGEST_BATCH_SIZE must not exceed RAG_MAX_BATCH_SIZE(%d), got %d",
			cfg.RAGConnectorCfg.MaxBatchSize, cfg.IngestCfg.BatchSize))
	}

	if cfg.IngestCfg.MaxFiles < 1 {
		errs = append(errs, fmt.Sprintf("INGEST_MAX_FILES must be at least 1, got %d", cfg.IngestCfg.MaxFiles))
	}

	if cfg.IngestCfg.PreviewMaxFiles < 1 {
		errs = append(errs, fmt.Sprintf("INGEST_PREVIEW_MAX_FILES must be at least 1, got %d", cfg.IngestCfg.PreviewMaxFiles))
	}

	if cfg.DriveConnectorCfg.PageSize < 1 {
		errs = append(errs, fmt.Sprintf("DRIVE_PAGE_SIZE must be at least 1, got %d", cfg.DriveConnectorCfg.PageSize))
	}

	if cfg.SessionCfg.HistoryLimit < 1 {
		errs = append(errs, fmt.Sprintf("SESSION_HISTORY_LIMIT must be at least 1, got %d", cfg.SessionCfg.HistoryLimit))
	}

	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		errs = append(errs, fmt.Sprintf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns))
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		errs = append(errs, fmt.Sprintf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
