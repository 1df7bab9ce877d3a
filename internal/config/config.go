package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port string

	// Row store backend selection
	RowBackend string

	// Hosted row store
	HostedEndpoint   string
	HostedProjectID  string
	HostedAPIKey     string
	HostedDatabaseID string

	// Logical tables
	UsersTableID string
	TripsTableID string

	// SQLite mirror
	SQLiteDBPath string

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Dashboard
	DashboardTimezone string
	DashboardCacheTTL time.Duration

	// Worker
	MirrorInterval  time.Duration
	MirrorBatchSize int

	// Fixture data for the memory backend
	DataDirectory string
}

func Load() *Config {
	cfg := &Config{
		Port: getEnv("PORT", "8082"),

		RowBackend: getEnv("ROW_BACKEND", "memory"),

		HostedEndpoint:   getEnv("ROWSTORE_ENDPOINT", ""),
		HostedProjectID:  getEnv("ROWSTORE_PROJECT_ID", ""),
		HostedAPIKey:     getEnv("ROWSTORE_API_KEY", ""),
		HostedDatabaseID: getEnv("ROWSTORE_DATABASE_ID", ""),

		UsersTableID: getEnv("USERS_TABLE_ID", "users"),
		TripsTableID: getEnv("TRIPS_TABLE_ID", "trips"),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/tripboard.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "tripboard"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mirror_rows"),

		DashboardTimezone: getEnv("DASHBOARD_TIMEZONE", "UTC"),
		DashboardCacheTTL: getEnvDuration("DASHBOARD_CACHE_TTL", 30*time.Second),

		MirrorInterval:  getEnvDuration("MIRROR_INTERVAL", time.Hour),
		MirrorBatchSize: getEnvInt("MIRROR_BATCH_SIZE", 50),

		DataDirectory: getEnv("DATA_DIRECTORY", "data"),
	}

	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.RowBackend {
	case "hosted":
		if c.HostedEndpoint == "" {
			errs = append(errs, "ROWSTORE_ENDPOINT is required for the hosted backend")
		} else if u, err := url.Parse(c.HostedEndpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid row store endpoint '%s': must be an http(s) URL", c.HostedEndpoint))
		}
		if c.HostedProjectID == "" {
			errs = append(errs, "ROWSTORE_PROJECT_ID is required for the hosted backend")
		}
		if c.HostedDatabaseID == "" {
			errs = append(errs, "ROWSTORE_DATABASE_ID is required for the hosted backend")
		}
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errs = append(errs, "SQLITE_DB_PATH cannot be empty when using the sqlite backend")
		}
	case "memory":
		// Fixture directory is optional; an absent one means empty tables.
	default:
		errs = append(errs, fmt.Sprintf("invalid row backend '%s': must be one of [hosted sqlite memory]", c.RowBackend))
	}

	if c.UsersTableID == "" {
		errs = append(errs, "USERS_TABLE_ID cannot be empty")
	}
	if c.TripsTableID == "" {
		errs = append(errs, "TRIPS_TABLE_ID cannot be empty")
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := time.LoadLocation(c.DashboardTimezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid dashboard timezone '%s': %v", c.DashboardTimezone, err))
	}

	if c.MirrorInterval < time.Minute {
		errs = append(errs, fmt.Sprintf("invalid mirror interval %v: must be at least 1 minute", c.MirrorInterval))
	}
	if c.MirrorBatchSize < 1 || c.MirrorBatchSize > 500 {
		errs = append(errs, fmt.Sprintf("invalid mirror batch size %d: must be between 1 and 500", c.MirrorBatchSize))
	}

	if c.DashboardCacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid dashboard cache TTL %v: must be at least 1 second", c.DashboardCacheTTL))
	} else if c.DashboardCacheTTL > time.Hour {
		errs = append(errs, fmt.Sprintf("invalid dashboard cache TTL %v: must be at most 1 hour", c.DashboardCacheTTL))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

// Location resolves the configured dashboard timezone. Calendar bucketing
// must never depend on the host's ambient zone, so callers pass this
// explicitly into the aggregation layer.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.DashboardTimezone)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
