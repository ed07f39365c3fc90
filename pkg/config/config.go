package config

import (
	"os"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

type Config struct {
	AutoMigrate               bool          `koanf:"auto_migrate"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseDriver            string        `koanf:"database_driver"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseHost              string        `koanf:"database_host"`
	DatabaseMaxOpenConns      int           `koanf:"database_max_open_conns"`
	DatabaseName              string        `koanf:"database_name"`
	DatabasePassword          string        `koanf:"database_password"`
	DatabasePort              int           `koanf:"database_port"`
	DatabaseUser              string        `koanf:"database_user"`
	Environment               string        `koanf:"environment"`
	Hostname                  string        `koanf:"-"`
	ServerHost                string        `koanf:"server_host"`
	ServerPort                int           `koanf:"server_port"`
	StrictNotFound            bool          `koanf:"strict_not_found"`
}

const configFileENV = "CONFIG_FILE"

// envAliases maps the short environment variable names the service has always
// been deployed with onto config keys. Every key can also be set with its
// upper-cased name (e.g. DATABASE_HOST).
var envAliases = map[string]string{
	"DB_DRIVER":   "database_driver",
	"DB_HOST":     "database_host",
	"DB_NAME":     "database_name",
	"DB_PASSWORD": "database_password",
	"DB_PORT":     "database_port",
	"DB_USER":     "database_user",
	"PORT":        "server_port",
}

// New loads the config from the file named by CONFIG_FILE (if any) and the
// environment.
func New() (*Config, error) {
	return Load(os.Getenv(configFileENV))
}

// Load builds the config from defaults, then the YAML file at path (skipped
// when empty or missing), then environment variables.
func Load(path string) (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := defaults()
	cfg.Hostname = hostname

	k := koanf.New(".")

	if path != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "failed to load config file: %s", path)
			}
		}
	}

	// Set-but-empty variables (PORT=) fall back to the file or default value.
	known := knownKeys()
	err = k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		if value == "" {
			return "", nil
		}
		if alias, ok := envAliases[key]; ok {
			return alias, value
		}
		lower := strings.ToLower(key)
		if _, ok := known[lower]; ok {
			return lower, value
		}
		return "", nil
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config pointing at an in-memory SQLite database.
func NewForTest() *Config {
	cfg := defaults()
	cfg.DatabaseConnectRetryCount = 1
	cfg.DatabaseConnectRetryDelay = 0
	cfg.DatabaseDriver = DriverSQLite
	cfg.DatabaseFilePath = ":memory:"
	cfg.Environment = "test"
	cfg.Hostname = "test"
	cfg.ServerHost = "127.0.0.1"
	return cfg
}

func defaults() *Config {
	return &Config{
		AutoMigrate:               true,
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseDriver:            DriverMySQL,
		DatabaseFilePath:          "./tmp/data.sqlite",
		DatabaseHost:              "localhost",
		DatabaseMaxOpenConns:      1,
		DatabaseName:              "library",
		DatabasePort:              3306,
		DatabaseUser:              "root",
		Environment:               "development",
		ServerHost:                "0.0.0.0",
		ServerPort:                3000,
	}
}

func (cfg *Config) validate() error {
	switch cfg.DatabaseDriver {
	case DriverMySQL:
		if cfg.DatabaseHost == "" {
			return missingRequired("DatabaseHost")
		}
		if cfg.DatabaseName == "" {
			return missingRequired("DatabaseName")
		}
	case DriverSQLite:
		if cfg.DatabaseFilePath == "" {
			return missingRequired("DatabaseFilePath")
		}
	default:
		return errors.Errorf("unsupported database driver %q: must be %q or %q", cfg.DatabaseDriver, DriverMySQL, DriverSQLite)
	}
	if cfg.DatabaseMaxOpenConns < 1 {
		return errors.New("database_max_open_conns must be at least 1")
	}
	return nil
}

func missingRequired(field string) error {
	key := toSnakeCase(field)
	return errors.Errorf("missing required config: set %s env var or %s in config file", envName(key), key)
}

// envName returns the preferred environment variable for a config key.
func envName(key string) string {
	for alias, k := range envAliases {
		if k == key {
			return alias
		}
	}
	return strings.ToUpper(key)
}

func knownKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	for _, key := range []string{
		"auto_migrate",
		"database_connect_retry_count",
		"database_connect_retry_delay",
		"database_debug",
		"database_driver",
		"database_file_path",
		"database_host",
		"database_max_open_conns",
		"database_name",
		"database_password",
		"database_port",
		"database_user",
		"environment",
		"server_host",
		"server_port",
		"strict_not_found",
	} {
		keys[key] = struct{}{}
	}
	return keys
}

func toSnakeCase(s string) string {
	return strcase.ToSnake(s)
}
