// Package config provides application configuration loaded from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Development fallbacks for the secrets. They are refused outside dev mode.
const (
	DefaultSessionSecret = "dev-insecure-secret-change-me"
	DefaultAdminEmail    = "admin@example.com"
	DefaultAdminPassword = "admin"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Refresh  RefreshConfig
	Log      LogConfig
	App      AppConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  int // seconds
	WriteTimeout int // seconds
	IdleTimeout  int // seconds
}

// DatabaseConfig holds Record Store connection settings.
type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Path     string // sqlite file
	RawDSN   string // DATABASE_DSN, overrides the discrete fields
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// RedisConfig holds the optional Redis used for the change feed and the
// fallback copies. An empty URL selects the in-process implementations.
type RedisConfig struct {
	URL         string
	FallbackTTL time.Duration
}

// RefreshConfig holds the polling intervals of the computed views.
type RefreshConfig struct {
	Calendar  time.Duration
	Dashboard time.Duration
	Reports   time.Duration
	Timeout   time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Dev           bool
	Migrations    bool
	SessionSecret string
	AdminEmail    string
	AdminPassword string
	Timezone      string
	// Company is the name printed on invoices and service sheets.
	Company string
}

// IsSQLite reports whether the sqlite driver is selected.
func (d DatabaseConfig) IsSQLite() bool {
	return strings.EqualFold(d.Driver, "sqlite")
}

// DSN returns the connection string for the selected driver. For postgres it
// uses the key=value format.
func (d DatabaseConfig) DSN() string {
	if d.IsSQLite() {
		return d.Path
	}
	if d.RawDSN != "" {
		return d.RawDSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// URL returns the postgres connection string in URL format, as expected by
// golang-migrate. It is empty for sqlite.
func (d DatabaseConfig) URL() string {
	if d.IsSQLite() {
		return ""
	}
	if strings.HasPrefix(d.RawDSN, "postgres://") || strings.HasPrefix(d.RawDSN, "postgresql://") {
		return d.RawDSN
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Location returns the configured timezone, falling back to time.Local.
func (a AppConfig) Location() *time.Location {
	if a.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// InsecureDefaults lists the variables still holding their development value.
func (a AppConfig) InsecureDefaults() []string {
	var keys []string
	if a.SessionSecret == DefaultSessionSecret {
		keys = append(keys, "SESSION_SECRET")
	}
	if a.AdminPassword == DefaultAdminPassword {
		keys = append(keys, "ADMIN_PASSWORD")
	}
	return keys
}

// Validate rejects development secrets when dev mode is off.
func (a AppConfig) Validate() error {
	if a.Dev {
		return nil
	}
	if keys := a.InsecureDefaults(); len(keys) > 0 {
		return fmt.Errorf("config: %s must be set when DEV is off", strings.Join(keys, ", "))
	}
	return nil
}

// Load reads configuration from environment variables.
// It uses sensible defaults for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			ReadTimeout:  getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Path:     getEnv("DB_PATH", "demenagement.db"),
			RawDSN:   strings.Trim(strings.TrimSpace(os.Getenv("DATABASE_DSN")), "\"'"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "demenagement"),
			Password: getEnv("DB_PASSWORD", "demenagement"),
			DBName:   getEnv("DB_NAME", "demenagement"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Debug:    getEnvBool("DB_DEBUG", false),
		},
		Redis: RedisConfig{
			URL:         os.Getenv("REDIS_URL"),
			FallbackTTL: getEnvDuration("FALLBACK_TTL", 0),
		},
		Refresh: RefreshConfig{
			Calendar:  getEnvDuration("REFRESH_CALENDAR", 5*time.Second),
			Dashboard: getEnvDuration("REFRESH_DASHBOARD", 5*time.Minute),
			Reports:   getEnvDuration("REFRESH_REPORTS", 5*time.Minute),
			Timeout:   getEnvDuration("REFRESH_TIMEOUT", 30*time.Second),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		App: AppConfig{
			Dev:           getEnvBool("DEV", true),
			Migrations:    getEnvBool("MIGRATIONS", false),
			SessionSecret: getEnv("SESSION_SECRET", DefaultSessionSecret),
			AdminEmail:    getEnv("ADMIN_EMAIL", DefaultAdminEmail),
			AdminPassword: getEnv("ADMIN_PASSWORD", DefaultAdminPassword),
			Timezone:      getEnv("APP_TIMEZONE", "Europe/Paris"),
			Company:       getEnv("COMPANY_NAME", "Déménagement"),
		},
	}
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of an environment variable or a default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvBool returns the boolean value of an environment variable or a default.
// Accepts "1", "true", "yes" as true; everything else is false.
func getEnvBool(key string, defaultValue bool) bool {
	value := strings.ToLower(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value == "1" || value == "true" || value == "yes"
}

// getEnvDuration parses a Go duration ("5s", "5m"). A bare integer is read as
// seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if i, err := strconv.Atoi(value); err == nil {
		return time.Duration(i) * time.Second
	}
	return defaultValue
}
