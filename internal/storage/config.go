package storage

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config holds PostgreSQL connection settings, grounded on the teacher's
// relational-store Config but trimmed to the one engine this indexer uses.
type Config struct {
	ConnectionString string
	Host             string
	Port             int
	Database         string
	Username         string
	Password         string
	SSLMode          string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	DefaultTimeout  time.Duration
}

// DefaultConfig returns sensible connection-pool defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:            5432,
		SSLMode:         "prefer",
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 15 * time.Minute,
		DefaultTimeout:  30 * time.Second,
	}
}

// Validate checks the configuration for common errors.
func (c *Config) Validate() error {
	if c.ConnectionString != "" {
		return nil
	}
	if c.Host == "" {
		return ErrMissingHost
	}
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Database == "" {
		return ErrMissingDatabase
	}
	if c.Username == "" {
		return ErrMissingUsername
	}
	switch c.SSLMode {
	case "disable", "allow", "prefer", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("storage: invalid SSL mode: %s", c.SSLMode)
	}
	return nil
}

// ConnectionStringWithDatabase combines a base connection URI (STORE_URI, no
// database path) with the configured database name (STORE_DB_NAME), per
// spec.md §6's split env vars.
func ConnectionStringWithDatabase(storeURI, dbName string) string {
	trimmed := strings.TrimRight(storeURI, "/")
	return trimmed + "/" + dbName
}

// BuildConnectionString renders the config as a libpq connection string.
func (c *Config) BuildConnectionString() (string, error) {
	if c.ConnectionString != "" {
		return c.ConnectionString, nil
	}
	if err := c.Validate(); err != nil {
		return "", err
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:   "/" + c.Database,
	}
	if c.Username != "" {
		if c.Password != "" {
			u.User = url.UserPassword(c.Username, c.Password)
		} else {
			u.User = url.User(c.Username)
		}
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
