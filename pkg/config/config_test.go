package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNew_RequiredFieldMissing(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("CONFIG_FILE", writeConfigFile(t, `database_host: ""`))

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "DB_HOST")
	assert.Contains(t, err.Error(), "database_host")
}

func TestNew_SQLiteRequiresFilePath(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CONFIG_FILE", writeConfigFile(t, `database_file_path: ""`))

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_FILE_PATH")
}

func TestNew_EmptyEnvVarsFallBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeConfigFile(t, "database_name: from-file\n"))
	t.Setenv("PORT", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_NAME", "")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.ServerPort)
	assert.Equal(t, "localhost", cfg.DatabaseHost)
	assert.Equal(t, "from-file", cfg.DatabaseName)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "postgres"`)
}

func TestNew_WithEnvVars(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_USER", "librarian")
	t.Setenv("DB_PASSWORD", "s3cret")
	t.Setenv("DB_NAME", "circulation")
	t.Setenv("PORT", "8080")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.DatabaseHost)
	assert.Equal(t, "librarian", cfg.DatabaseUser)
	assert.Equal(t, "s3cret", cfg.DatabasePassword)
	assert.Equal(t, "circulation", cfg.DatabaseName)
	assert.Equal(t, 8080, cfg.ServerPort)
}

func TestNew_LongEnvNames(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "8")
	t.Setenv("STRICT_NOT_FOUND", "true")
	t.Setenv("DATABASE_CONNECT_RETRY_DELAY", "250ms")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.DatabaseMaxOpenConns)
	assert.True(t, cfg.StrictNotFound)
	assert.Equal(t, 250*time.Millisecond, cfg.DatabaseConnectRetryDelay)
}

func TestNew_WithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_driver: sqlite
database_file_path: /data/library.db
server_port: 8080
database_debug: true
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "/data/library.db", cfg.DatabaseFilePath)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.True(t, cfg.DatabaseDebug)
}

func TestNew_EnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_host: from-file
server_port: 8080
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("DB_HOST", "from-env")
	t.Setenv("PORT", "9090")

	cfg, err := New()
	require.NoError(t, err)
	// Env vars should override config file
	assert.Equal(t, "from-env", cfg.DatabaseHost)
	assert.Equal(t, 9090, cfg.ServerPort)
}

func TestLoad_MalformedFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte("server_port: [1, 2"), 0644)
	require.NoError(t, err)

	_, err = Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config file")
}

func TestNew_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)

	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, 5, cfg.DatabaseConnectRetryCount)
	assert.Equal(t, 2*time.Second, cfg.DatabaseConnectRetryDelay)
	assert.False(t, cfg.DatabaseDebug)
	assert.Equal(t, DriverMySQL, cfg.DatabaseDriver)
	assert.Equal(t, 1, cfg.DatabaseMaxOpenConns)
	assert.Equal(t, 3306, cfg.DatabasePort)
	assert.Equal(t, "0.0.0.0", cfg.ServerHost)
	assert.Equal(t, 3000, cfg.ServerPort)
	assert.False(t, cfg.StrictNotFound)
	assert.NotEmpty(t, cfg.Hostname)
}

func TestNew_MaxOpenConnsMustBePositive(t *testing.T) {
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "0")

	_, err := New()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_max_open_conns")
}

func TestNewForTest(t *testing.T) {
	cfg := NewForTest()
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, ":memory:", cfg.DatabaseFilePath)
	assert.Equal(t, "127.0.0.1", cfg.ServerHost)
	assert.Equal(t, 1, cfg.DatabaseMaxOpenConns)
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "database_file_path", toSnakeCase("DatabaseFilePath"))
	assert.Equal(t, "server_port", toSnakeCase("ServerPort"))
	assert.Equal(t, "strict_not_found", toSnakeCase("StrictNotFound"))
}
