// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/tripframe/tripframe-server/internal/marker"
)

// Cache backends.
const (
	CacheBackendBadger = "badger"
	CacheBackendRedis  = "redis"
)

// Config holds the application configuration.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Data        DataConfig
	Cache       CacheConfig
	ObjectStore ObjectStoreConfig
	Server      ServerConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds local storage locations.
type DataConfig struct {
	BasePath     string // Root for local files (default: ~/Tripframe/data)
	DatabasePath string // SQLite file (default: {base}/tripframe.db)
}

// CacheConfig holds the list cache configuration.
type CacheConfig struct {
	Backend   string        // badger or redis (default: badger)
	Path      string        // Badger directory (default: {base}/cache)
	TTL       time.Duration // Entry expiry, 0 keeps entries until replaced
	RedisAddr string        // host:port, required for the redis backend
	RedisDB   int
	KeyPrefix string // Redis key prefix (default: tripframe:{env}:cache:)
}

// ObjectStoreConfig holds the S3-compatible photo store configuration.
type ObjectStoreConfig struct {
	Endpoint        string // host:port; empty uses an in-process store
	AccessKey       string
	SecretKey       string
	UseSSL          bool
	Bucket          string
	Region          string
	MarkerKey       string // Freshness marker object (default: {env}/db-updated-time.json)
	ListPageSize    int    // Keys per listing request (default: 1000)
	MoveConcurrency int    // Parallel copy/delete pairs (default: 8)
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port              string        // Server port (default: 8080)
	ReadTimeout       time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout      time.Duration // HTTP write timeout (default: 60s, album deletes walk storage)
	IdleTimeout       time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins       []string      // Allowed origins (default: *)
	MutationRateLimit float64       // Writes per second per client (default: 5)
	MutationBurst     int           // Write burst per client (default: 20)
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for local data")
	databasePath := flag.String("database-path", "", "SQLite database file")

	// Cache flags
	cacheBackend := flag.String("cache-backend", "", "List cache backend: badger or redis (default: badger)")
	cachePath := flag.String("cache-path", "", "Badger cache directory")
	redisAddr := flag.String("redis-addr", "", "Redis address for the redis cache backend")

	// Object store flags
	s3Endpoint := flag.String("s3-endpoint", "", "S3 endpoint host:port (empty for in-process store)")
	s3Bucket := flag.String("s3-bucket", "", "S3 bucket for photos and the marker record")
	markerKey := flag.String("marker-key", "", "Object key of the freshness marker")

	// Server flags
	serverPort := flag.String("port", "", "Server port (default: 8080)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 60s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath:     getConfigValue(*dataPath, "DATA_PATH", ""),
			DatabasePath: getConfigValue(*databasePath, "DATABASE_PATH", ""),
		},
		Cache: CacheConfig{
			Backend:   getConfigValue(*cacheBackend, "CACHE_BACKEND", CacheBackendBadger),
			Path:      getConfigValue(*cachePath, "CACHE_PATH", ""),
			RedisAddr: getConfigValue(*redisAddr, "REDIS_ADDR", ""),
			RedisDB:   getIntConfigValue("", "REDIS_DB", 0),
			KeyPrefix: getConfigValue("", "REDIS_KEY_PREFIX", ""),
		},
		ObjectStore: ObjectStoreConfig{
			Endpoint:        getConfigValue(*s3Endpoint, "S3_ENDPOINT", ""),
			AccessKey:       getConfigValue("", "S3_ACCESS_KEY", ""),
			SecretKey:       getConfigValue("", "S3_SECRET_KEY", ""),
			UseSSL:          getBoolConfigValue("", "S3_USE_SSL", true),
			Bucket:          getConfigValue(*s3Bucket, "S3_BUCKET", "tripframe"),
			Region:          getConfigValue("", "S3_REGION", "us-east-1"),
			MarkerKey:       getConfigValue(*markerKey, "MARKER_KEY", ""),
			ListPageSize:    getIntConfigValue("", "LIST_PAGE_SIZE", 1000),
			MoveConcurrency: getIntConfigValue("", "MOVE_CONCURRENCY", 8),
		},
		Server: ServerConfig{
			Port:              getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins:       splitList(getConfigValue("", "CORS_ORIGINS", "*")),
			MutationRateLimit: getFloatConfigValue("", "MUTATION_RATE_LIMIT", 5),
			MutationBurst:     getIntConfigValue("", "MUTATION_BURST", 20),
		},
	}

	durations := []struct {
		flagValue, envKey, def string
		dest                   *time.Duration
	}{
		{"", "CACHE_TTL", "0s", &cfg.Cache.TTL},
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "60s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dest = parsed
	}

	if err := cfg.expandDataPaths(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}
	cfg.applyDerivedDefaults()

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

	if c.Data.DatabasePath == "" {
		return errors.New("database path cannot be empty after expansion")
	}

	switch c.Cache.Backend {
	case CacheBackendBadger:
		if c.Cache.Path == "" {
			return errors.New("cache path cannot be empty for the badger backend")
		}
	case CacheBackendRedis:
		if c.Cache.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis cache backend")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (must be badger or redis)", c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	if c.ObjectStore.Bucket == "" {
		return errors.New("S3_BUCKET is required")
	}
	if c.ObjectStore.Endpoint != "" && (c.ObjectStore.AccessKey == "" || c.ObjectStore.SecretKey == "") {
		return errors.New("S3_ACCESS_KEY and S3_SECRET_KEY are required when S3_ENDPOINT is set")
	}
	if c.ObjectStore.MarkerKey == "" {
		return errors.New("marker key cannot be empty")
	}
	if c.ObjectStore.ListPageSize <= 0 {
		return fmt.Errorf("LIST_PAGE_SIZE must be positive, got %d", c.ObjectStore.ListPageSize)
	}
	if c.ObjectStore.MoveConcurrency <= 0 {
		return fmt.Errorf("MOVE_CONCURRENCY must be positive, got %d", c.ObjectStore.MoveConcurrency)
	}

	if c.Server.MutationRateLimit <= 0 || c.Server.MutationBurst <= 0 {
		return errors.New("mutation rate limit and burst must be positive")
	}

	return nil
}

// InMemoryObjectStore reports whether photos live in the in-process store.
func (c *Config) InMemoryObjectStore() bool {
	return c.ObjectStore.Endpoint == ""
}

// applyDerivedDefaults fills values that depend on other settings.
func (c *Config) applyDerivedDefaults() {
	if c.ObjectStore.MarkerKey == "" {
		c.ObjectStore.MarkerKey = marker.DefaultKey(c.App.Environment)
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "tripframe:" + c.App.Environment + ":cache:"
	}
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPaths expands the base path and derives the database and
// cache locations from it when they are not set.
func (c *Config) expandDataPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	base, err := expandPath(c.Data.BasePath, filepath.Join(homeDir, "Tripframe", "data"))
	if err != nil {
		return err
	}
	c.Data.BasePath = base

	if c.Data.DatabasePath, err = expandPath(c.Data.DatabasePath, filepath.Join(base, "tripframe.db")); err != nil {
		return err
	}
	if c.Cache.Path, err = expandPath(c.Cache.Path, filepath.Join(base, "cache")); err != nil {
		return err
	}
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
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

// getFloatConfigValue returns a float from flag, env var, or default.
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

// splitList splits a comma separated value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
