package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{
		App:    AppConfig{Environment: "development"},
		Logger: LoggerConfig{Level: "info"},
		Data: DataConfig{
			BasePath:     "/data",
			DatabasePath: "/data/tripframe.db",
		},
		Cache: CacheConfig{
			Backend: CacheBackendBadger,
			Path:    "/data/cache",
		},
		ObjectStore: ObjectStoreConfig{
			Bucket:          "tripframe",
			ListPageSize:    1000,
			MoveConcurrency: 8,
		},
		Server: ServerConfig{
			Port:              "8080",
			MutationRateLimit: 5,
			MutationBurst:     20,
		},
	}
	cfg.applyDerivedDefaults()
	return cfg
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true},
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty database path", func(c *Config) { c.Data.DatabasePath = "" }},
		{"unknown cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"badger without path", func(c *Config) { c.Cache.Path = "" }},
		{"redis without address", func(c *Config) { c.Cache.Backend = CacheBackendRedis }},
		{"negative cache ttl", func(c *Config) { c.Cache.TTL = -time.Second }},
		{"empty bucket", func(c *Config) { c.ObjectStore.Bucket = "" }},
		{"endpoint without credentials", func(c *Config) { c.ObjectStore.Endpoint = "localhost:9000" }},
		{"empty marker key", func(c *Config) { c.ObjectStore.MarkerKey = "" }},
		{"zero page size", func(c *Config) { c.ObjectStore.ListPageSize = 0 }},
		{"zero concurrency", func(c *Config) { c.ObjectStore.MoveConcurrency = 0 }},
		{"zero rate limit", func(c *Config) { c.Server.MutationRateLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_RedisBackend(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Backend = CacheBackendRedis
	cfg.Cache.RedisAddr = "localhost:6379"
	cfg.Cache.Path = ""

	assert.NoError(t, cfg.Validate())
}

func TestApplyDerivedDefaults(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "staging"}}
	cfg.applyDerivedDefaults()

	assert.Equal(t, "staging/db-updated-time.json", cfg.ObjectStore.MarkerKey)
	assert.Equal(t, "tripframe:staging:cache:", cfg.Cache.KeyPrefix)

	cfg.ObjectStore.MarkerKey = "custom.json"
	cfg.applyDerivedDefaults()
	assert.Equal(t, "custom.json", cfg.ObjectStore.MarkerKey)
}

func TestInMemoryObjectStore(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.InMemoryObjectStore())

	cfg.ObjectStore.Endpoint = "localhost:9000"
	assert.False(t, cfg.InMemoryObjectStore())
}

func TestExpandDataPaths_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.expandDataPaths())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	base := filepath.Join(homeDir, "Tripframe", "data")

	assert.Equal(t, base, cfg.Data.BasePath)
	assert.Equal(t, filepath.Join(base, "tripframe.db"), cfg.Data.DatabasePath)
	assert.Equal(t, filepath.Join(base, "cache"), cfg.Cache.Path)
}

func TestExpandDataPaths_TildeExpansion(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "~/trips"}}
	require.NoError(t, cfg.expandDataPaths())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "trips"), cfg.Data.BasePath)
	assert.Equal(t, filepath.Join(homeDir, "trips", "tripframe.db"), cfg.Data.DatabasePath)
}

func TestExpandDataPaths_ExplicitPathsKept(t *testing.T) {
	cfg := &Config{
		Data:  DataConfig{BasePath: "/srv/data", DatabasePath: "/var/db/trips.db"},
		Cache: CacheConfig{Path: "/var/cache/trips"},
	}
	require.NoError(t, cfg.expandDataPaths())

	assert.Equal(t, "/var/db/trips.db", cfg.Data.DatabasePath)
	assert.Equal(t, "/var/cache/trips", cfg.Cache.Path)
}

func TestExpandPath_RelativePath(t *testing.T) {
	path, err := expandPath("relative/path", "")
	require.NoError(t, err)

	// Should be converted to absolute path.
	assert.True(t, filepath.IsAbs(path))
	assert.Contains(t, path, "relative/path")
}

func TestGetConfigValue_Precedence(t *testing.T) {
	// Test flag value takes priority.
	result := getConfigValue("flag-value", "ENV_KEY", "default-value")
	assert.Equal(t, "flag-value", result)

	// Test env var when flag is empty.
	os.Setenv("TEST_ENV_KEY", "env-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_ENV_KEY")      //nolint:errcheck // Test cleanup

	result = getConfigValue("", "TEST_ENV_KEY", "default-value")
	assert.Equal(t, "env-value", result)

	// Test default when both are empty.
	result = getConfigValue("", "NONEXISTENT_KEY", "default-value")
	assert.Equal(t, "default-value", result)
}

func TestTypedConfigValues(t *testing.T) {
	t.Setenv("TEST_BOOL", "YES")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_FLOAT", "2.5")

	assert.True(t, getBoolConfigValue("", "TEST_BOOL", false))
	assert.False(t, getBoolConfigValue("off", "TEST_BOOL", true))
	assert.True(t, getBoolConfigValue("", "UNSET_BOOL", true))

	assert.Equal(t, 42, getIntConfigValue("", "TEST_INT", 1))
	assert.Equal(t, 1, getIntConfigValue("", "TEST_BAD_INT", 1))
	assert.InDelta(t, 2.5, getFloatConfigValue("", "TEST_FLOAT", 1), 0.001)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, splitList(" https://a.example, ,https://b.example "))
	assert.Nil(t, splitList(""))
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	// Create temp .env file.
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `# Test env file
ENV=staging
LOG_LEVEL=debug
S3_BUCKET=trips
# Comment line
QUOTED_VALUE="some value"
SINGLE_QUOTED='another value'
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	// Clear any existing env vars.
	os.Unsetenv("ENV")           //nolint:errcheck // Test cleanup
	os.Unsetenv("LOG_LEVEL")     //nolint:errcheck // Test cleanup
	os.Unsetenv("S3_BUCKET")     //nolint:errcheck // Test cleanup
	os.Unsetenv("QUOTED_VALUE")  //nolint:errcheck // Test cleanup
	os.Unsetenv("SINGLE_QUOTED") //nolint:errcheck // Test cleanup
	defer func() {
		os.Unsetenv("ENV")           //nolint:errcheck // Test cleanup
		os.Unsetenv("LOG_LEVEL")     //nolint:errcheck // Test cleanup
		os.Unsetenv("S3_BUCKET")     //nolint:errcheck // Test cleanup
		os.Unsetenv("QUOTED_VALUE")  //nolint:errcheck // Test cleanup
		os.Unsetenv("SINGLE_QUOTED") //nolint:errcheck // Test cleanup
	}()

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "staging", os.Getenv("ENV"))
	assert.Equal(t, "debug", os.Getenv("LOG_LEVEL"))
	assert.Equal(t, "trips", os.Getenv("S3_BUCKET"))
	assert.Equal(t, "some value", os.Getenv("QUOTED_VALUE"))
	assert.Equal(t, "another value", os.Getenv("SINGLE_QUOTED"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `VALID_KEY=valid_value
INVALID LINE WITHOUT EQUALS
ANOTHER_VALID=value
`
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	err = loadEnvFile(envFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	err := loadEnvFile("/nonexistent/file/.env")
	assert.Error(t, err)
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	os.Setenv("TEST_VAR", "original-value") //nolint:errcheck // Test setup
	defer os.Unsetenv("TEST_VAR")           //nolint:errcheck // Test cleanup

	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	err := os.WriteFile(envFile, []byte(`TEST_VAR=new-value`), 0o644)
	require.NoError(t, err)

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	// Original value should be preserved.
	assert.Equal(t, "original-value", os.Getenv("TEST_VAR"))
}

func TestLoadEnvFile_Whitespace(t *testing.T) {
	tmpDir := t.TempDir()
	envFile := filepath.Join(tmpDir, ".env")

	content := `  KEY_WITH_SPACES  =  value with spaces  `
	err := os.WriteFile(envFile, []byte(content), 0o644)
	require.NoError(t, err)

	os.Unsetenv("KEY_WITH_SPACES")       //nolint:errcheck // Test cleanup
	defer os.Unsetenv("KEY_WITH_SPACES") //nolint:errcheck // Test cleanup

	err = loadEnvFile(envFile)
	require.NoError(t, err)

	assert.Equal(t, "value with spaces", os.Getenv("KEY_WITH_SPACES"))
}
