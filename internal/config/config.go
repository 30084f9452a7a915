// internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	HTTPAddr    string
	DataBackend string

	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	DBSSLMode   string
	DatabaseURL string

	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	LogLevel  string
	Env       string // dev|prod
	SentryDSN string

	Location       *time.Location
	CurrencyPrefix string

	DashboardCacheSize int
	DashboardCacheTTL  time.Duration
	SessionTTL         time.Duration
	FetchTimeout       time.Duration

	AdminUsername string
	AdminPassword string
}

// Load reads the environment. Call Validate before using the result.
func Load() *Config {
	tz := getenv("TZ", "Asia/Kuala_Lumpur")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	return &Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		DataBackend: getenv("DATA_BACKEND", BackendPostgres),

		DBUser:      os.Getenv("DB_USER"),
		DBPassword:  os.Getenv("DB_PASSWORD"),
		DBHost:      getenv("DB_HOST", "localhost"),
		DBPort:      getenv("DB_PORT", "5432"),
		DBName:      os.Getenv("DB_NAME"),
		DBSSLMode:   getenv("DB_SSLMODE", "disable"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		AMQPURL:      os.Getenv("AMQP_URL"),
		AMQPExchange: getenv("AMQP_EXCHANGE", "smms"),
		AMQPQueue:    getenv("AMQP_QUEUE", "campaign_changes"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		Env:       getenv("ENV", "dev"),
		SentryDSN: os.Getenv("SENTRY_DSN"),

		Location:       loc,
		CurrencyPrefix: getenv("CURRENCY_PREFIX", "RM"),

		DashboardCacheSize: getenvInt("DASHBOARD_CACHE_SIZE", 128),
		DashboardCacheTTL:  getenvDuration("DASHBOARD_CACHE_TTL", 30*time.Second),
		SessionTTL:         getenvDuration("SESSION_TTL", 12*time.Hour),
		FetchTimeout:       getenvDuration("FETCH_TIMEOUT", 10*time.Second),

		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

// DSN returns DATABASE_URL when set, otherwise builds one from the DB_* keys.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.DBUser), url.QueryEscape(c.DBPassword), c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if c.HTTPAddr == "" {
		problems = append(problems, "HTTP_ADDR cannot be empty")
	}

	switch c.DataBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" && (c.DBUser == "" || c.DBName == "") {
			problems = append(problems, "postgres backend needs DATABASE_URL or DB_USER and DB_NAME")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend %q: must be %s or %s", c.DataBackend, BackendPostgres, BackendMemory))
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL %q: %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme %q: must be amqp or amqps", u.Scheme))
		}
		if c.AMQPExchange == "" || c.AMQPQueue == "" {
			problems = append(problems, "AMQP exchange and queue names are required when AMQP_URL is set")
		}
	}

	if c.DashboardCacheSize < 1 {
		problems = append(problems, fmt.Sprintf("invalid dashboard cache size %d: must be at least 1", c.DashboardCacheSize))
	}
	if c.DashboardCacheTTL < 0 {
		problems = append(problems, "DASHBOARD_CACHE_TTL cannot be negative")
	}
	if c.SessionTTL < time.Minute {
		problems = append(problems, fmt.Sprintf("invalid session ttl %v: must be at least 1 minute", c.SessionTTL))
	}
	if c.FetchTimeout <= 0 {
		problems = append(problems, "FETCH_TIMEOUT must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
