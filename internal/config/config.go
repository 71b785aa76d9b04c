package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server   ServerConfig
	Fetch    FetchConfig
	Parser   ParserConfig
	Queue    QueueConfig
	Database DatabaseConfig
	Export   ExportConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type FetchConfig struct {
	Timeout        time.Duration
	MaxRetries     int
	BackoffFactor  time.Duration
	UserAgent      string
	AcceptLanguage string
}

type ParserConfig struct {
	MaxReviews   int
	MaxQuestions int
}

type QueueConfig struct {
	Type     string
	RedisURL string
}

type DatabaseConfig struct {
	URL string
}

type ExportConfig struct {
	OutputDir string
	Formats   []string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:        getDurationOrDefault("FETCH_TIMEOUT", 30*time.Second),
			MaxRetries:     getIntOrDefault("FETCH_MAX_RETRIES", 3),
			BackoffFactor:  getDurationOrDefault("FETCH_BACKOFF", 2*time.Second),
			UserAgent:      getEnvOrDefault("FETCH_USER_AGENT", defaultUserAgent),
			AcceptLanguage: getEnvOrDefault("FETCH_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
		},
		Parser: ParserConfig{
			MaxReviews:   getIntOrDefault("PARSER_MAX_REVIEWS", 50),
			MaxQuestions: getIntOrDefault("PARSER_MAX_QUESTIONS", 30),
		},
		Queue: QueueConfig{
			Type:     getEnvOrDefault("QUEUE_TYPE", "memory"),
			RedisURL: getEnvOrDefault("REDIS_URL", ""),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Export: ExportConfig{
			OutputDir: getEnvOrDefault("OUTPUT_DIR", "output"),
			Formats:   getStringSliceOrDefault("EXPORT_FORMATS", []string{"json"}),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Fetch.MaxRetries < 1 {
		return fmt.Errorf("FETCH_MAX_RETRIES must be at least 1")
	}

	if c.Fetch.BackoffFactor < 0 {
		return fmt.Errorf("FETCH_BACKOFF cannot be negative")
	}

	switch c.Queue.Type {
	case "memory":
	case "redis":
		if c.Queue.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when QUEUE_TYPE is redis")
		}
	default:
		return fmt.Errorf("QUEUE_TYPE must be memory or redis, got %q", c.Queue.Type)
	}

	for _, format := range c.Export.Formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "json", "csv", "html", "htm":
		default:
			return fmt.Errorf("EXPORT_FORMATS contains unsupported format %q", format)
		}
	}

	return nil
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
