// Package config loads application configuration from command-line flags, environment
// variables and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Seed    SeedConfig
	Catalog CatalogConfig
	Books   BooksConfig
	Contact ContactConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	DataPath    string // Where the contact log lives (default: ~/Biblioteca/data)
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Name           string
	Port           string        // default: 8080
	ReadTimeout    time.Duration // default: 15s
	WriteTimeout   time.Duration // default: 15s
	IdleTimeout    time.Duration // default: 60s
	AllowedOrigins []string      // CORS origins (default: *)
	RateLimit      float64       // Requests per second per client IP, 0 disables
	RateBurst      int
}

// SeedConfig describes where the catalog gets its raw items.
type SeedConfig struct {
	BaseURL           string        // Placeholder REST service
	File              string        // Optional local JSON file, used instead of BaseURL when set
	Watch             bool          // Reload when File changes
	Limit             int           // Items kept from the source (default: 50)
	Timeout           time.Duration // Per request timeout
	RequestsPerSecond float64       // Outbound throttle towards BaseURL
}

// CatalogConfig holds catalog view configuration.
type CatalogConfig struct {
	PageSize   int           // default: 12
	SessionTTL time.Duration // Idle view sessions are dropped after this
}

// BooksConfig holds configuration for the book management page.
type BooksConfig struct {
	InitialLimit      int  // default: 10
	RollbackOnFailure bool // Undo optimistic writes the remote rejected (default: true)
}

// ContactConfig holds contact form configuration.
type ContactConfig struct {
	SubmitDelay time.Duration // Simulated processing time before a submission is stored
}

// LoadConfig loads configuration from the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load builds a Config with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("biblioteca", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Directory for persisted data")

	serverName := fs.String("server-name", "", "Name for the server")
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	origins := fs.String("allowed-origins", "", "Comma separated CORS origins (default: *)")
	rateLimit := fs.String("rate-limit", "", "Requests per second per client (default: 20)")

	seedURL := fs.String("seed-url", "", "Base URL of the placeholder REST service")
	seedFile := fs.String("seed-file", "", "Local JSON file with seed posts")
	seedWatch := fs.String("seed-watch", "", "Reload the catalog when the seed file changes")
	seedLimit := fs.String("seed-limit", "", "Number of seed items kept (default: 50)")

	pageSize := fs.String("page-size", "", "Catalog page size (default: 12)")
	rollback := fs.String("rollback-on-failure", "", "Undo optimistic writes rejected upstream (default: true)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Missing .env files are fine. godotenv never overrides variables already set.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			DataPath:    getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Name:           getConfigValue(*serverName, "SERVER_NAME", "Biblioteca Online"),
			Port:           getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins: splitList(getConfigValue(*origins, "ALLOWED_ORIGINS", "*")),
			RateLimit:      getFloatConfigValue(*rateLimit, "RATE_LIMIT", 20),
			RateBurst:      getIntConfigValue("", "RATE_BURST", 40),
		},
		Seed: SeedConfig{
			BaseURL:           getConfigValue(*seedURL, "SEED_URL", "https://jsonplaceholder.typicode.com"),
			File:              getConfigValue(*seedFile, "SEED_FILE", ""),
			Watch:             getBoolConfigValue(*seedWatch, "SEED_WATCH", false),
			Limit:             getIntConfigValue(*seedLimit, "SEED_LIMIT", 50),
			RequestsPerSecond: getFloatConfigValue("", "SEED_REQUESTS_PER_SECOND", 5),
		},
		Catalog: CatalogConfig{
			PageSize: getIntConfigValue(*pageSize, "CATALOG_PAGE_SIZE", 12),
		},
		Books: BooksConfig{
			InitialLimit:      getIntConfigValue("", "BOOKS_INITIAL_LIMIT", 10),
			RollbackOnFailure: getBoolConfigValue(*rollback, "BOOKS_ROLLBACK_ON_FAILURE", true),
		},
	}

	durations := []struct {
		flagValue, envKey, def string
		dst                    *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{"", "SEED_TIMEOUT", "10s", &cfg.Seed.Timeout},
		{"", "CATALOG_SESSION_TTL", "30m", &cfg.Catalog.SessionTTL},
		{"", "CONTACT_SUBMIT_DELAY", "0s", &cfg.Contact.SubmitDelay},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", strings.ToLower(d.envKey), raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	if cfg.Seed.File != "" {
		expanded, err := expandPath(cfg.Seed.File, "")
		if err != nil {
			return nil, fmt.Errorf("invalid seed file: %w", err)
		}
		cfg.Seed.File = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.App.DataPath == "" {
		return errors.New("data path cannot be empty after expansion")
	}
	if c.Seed.BaseURL == "" && c.Seed.File == "" {
		return errors.New("one of seed url or seed file is required")
	}
	if c.Seed.Watch && c.Seed.File == "" {
		return errors.New("seed watch requires a seed file")
	}
	if c.Seed.Limit <= 0 {
		return fmt.Errorf("seed limit must be positive, got %d", c.Seed.Limit)
	}
	if c.Catalog.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.Catalog.PageSize)
	}
	if c.Books.InitialLimit <= 0 {
		return fmt.Errorf("initial book limit must be positive, got %d", c.Books.InitialLimit)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty, defaultPath is returned untouched.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	expanded, err := expandPath(c.App.DataPath, filepath.Join(homeDir, "Biblioteca", "data"))
	if err != nil {
		return err
	}
	c.App.DataPath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (case-insensitive) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
