package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port       string
	CORSOrigin string

	// Database
	DataBackend  string
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// List response cache
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Rate limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Export worker
	ExportBackend       string
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Dashboard client
	APIBaseURL  string
	RecentLimit int
}

func Load() *Config {
	cfg := &Config{
		Port:       getEnv("PORT", "3001"),
		CORSOrigin: getEnv("CORS_ORIGIN", "*"),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/outgo.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "outgo"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "transaction_events"),

		CacheTTL:        getEnvDuration("CACHE_TTL", 30*time.Second),
		CacheMaxEntries: getEnvInt("CACHE_MAX_ENTRIES", 64),

		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 40),

		ExportBackend:       getEnv("EXPORT_BACKEND", "memory"),
		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Transactions"),

		APIBaseURL:  getEnv("API_BASE_URL", "http://localhost:3001"),
		RecentLimit: getEnvInt("RECENT_LIMIT", 5),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheMaxEntries < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache max entries %d: must be at least 1", c.CacheMaxEntries))
	}

	if c.RateLimitRPS < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per second", c.RateLimitRPS))
	}
	if c.RateLimitBurst < c.RateLimitRPS {
		errors = append(errors, fmt.Sprintf("invalid rate limit burst %d: must be at least the per-second rate %d", c.RateLimitBurst, c.RateLimitRPS))
	}

	validExports := []string{"memory", "sheets"}
	isValidExport := false
	for _, backend := range validExports {
		if c.ExportBackend == backend {
			isValidExport = true
			break
		}
	}
	if !isValidExport {
		errors = append(errors, fmt.Sprintf("invalid export backend '%s': must be one of %v", c.ExportBackend, validExports))
	}
	if c.ExportBackend == "sheets" && c.GoogleSpreadsheetID == "" {
		errors = append(errors, "Google Spreadsheet ID is required when using sheets export backend")
	}

	if parsed, err := url.Parse(c.APIBaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid API base URL '%s': must be an absolute http(s) URL", c.APIBaseURL))
	}

	if c.RecentLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid recent limit %d: must be at least 1", c.RecentLimit))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
