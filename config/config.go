package config

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	HTTPPort    string `envconfig:"HTTP_PORT"    default:":8081"`
	GrpcPort    string `envconfig:"GRPC_PORT"    default:":50051"` //gRPC port for the catalog service
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`

	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"1h"`

	SearchAPIKey   string `envconfig:"SEARCH_API_KEY"`
	SearchEngineID string `envconfig:"SEARCH_ENGINE_ID"`

	ScraperTimeout time.Duration `envconfig:"SCRAPER_TIMEOUT" default:"10s"`
	ScraperRPS     float64       `envconfig:"SCRAPER_RPS"     default:"2"`
	ScraperRetries int           `envconfig:"SCRAPER_RETRIES" default:"3"`

	RateLimitRPS   int      `envconfig:"RATE_LIMIT_RPS"   default:"20"`
	RateLimitBurst int      `envconfig:"RATE_LIMIT_BURST" default:"40"`
	CORSOrigins    []string `envconfig:"CORS_ORIGINS"     default:"*"`
}

var (
	config Config
	once   sync.Once
)

// Process reads the environment into a fresh Config without touching the
// process-wide one.
func Process() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process configuration from environment variables: %w", err)
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	if cfg.ScraperRPS <= 0 {
		return nil, fmt.Errorf("SCRAPER_RPS must be positive, got %v", cfg.ScraperRPS)
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return &cfg, nil
}

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		cfg, err := Process()
		if err != nil {
			logger.Fatalf("Configuration error: %v", err)
		}
		config = *cfg

		logger.Infof("Configuration loaded: HTTP Port=%s, GRPC Port=%s, LogLevel=%s", config.HTTPPort, config.GrpcPort, config.LogLevel)
		if config.RedisAddr == "" {
			logger.Info("Configuration loaded: REDIS_ADDR not set, recommendation cache disabled")
		}
		if config.SearchAPIKey == "" || config.SearchEngineID == "" {
			logger.Warn("Configuration loaded: search credentials not set, recommendations will be empty")
		}
	})
	return &config
}
