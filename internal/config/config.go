// Package config loads ledger settings from defaults, an optional
// config.yaml, a .env file and LEDGER_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// EnvPrefix prefixes every environment override, e.g. LEDGER_LOG_LEVEL.
const EnvPrefix = "LEDGER"

// Config is the full runtime configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Server struct {
		Addr string `mapstructure:"addr" yaml:"addr"`
		// AllowedOrigins feeds the CORS middleware. Comma-separated in env.
		AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	} `mapstructure:"server" yaml:"server"`

	Storage struct {
		Driver      string `mapstructure:"driver" yaml:"driver"`
		SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
		PostgresURL string `mapstructure:"postgres_url" yaml:"-"`
	} `mapstructure:"storage" yaml:"storage"`

	Blob struct {
		Dir     string `mapstructure:"dir" yaml:"dir"`
		BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	} `mapstructure:"blob" yaml:"blob"`

	Query struct {
		SearchLimit int `mapstructure:"search_limit" yaml:"search_limit"`
		ListLimit   int `mapstructure:"list_limit" yaml:"list_limit"`
	} `mapstructure:"query" yaml:"query"`

	Reports struct {
		Years int `mapstructure:"years" yaml:"years"`
	} `mapstructure:"reports" yaml:"reports"`
}

// Options control where Load looks for files.
type Options struct {
	// ConfigFile, when set, is read instead of searching the default paths.
	ConfigFile string
	// EnvFile is the dotenv file to load. Missing files are ignored.
	EnvFile string
}

// Load builds a validated Config.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.freelance-ledger")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// DB_PATH is still honoured for existing deployments.
	if err := v.BindEnv("storage.sqlite_path", EnvPrefix+"_STORAGE_SQLITE_PATH", "DB_PATH"); err != nil {
		return nil, fmt.Errorf("bind DB_PATH: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && os.Getenv(EnvPrefix+"_SERVER_ADDR") == "" {
		cfg.Server.Addr = ":" + port
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.sqlite_path", "ledger.db")
	v.SetDefault("storage.postgres_url", "")

	v.SetDefault("blob.dir", "receipts")
	v.SetDefault("blob.base_url", "/files")

	v.SetDefault("query.search_limit", 20)
	v.SetDefault("query.list_limit", 50)

	v.SetDefault("reports.years", 3)
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", c.Log.Format)
	}

	switch c.Storage.Driver {
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return errors.New("storage.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Storage.PostgresURL == "" {
			return errors.New("storage.postgres_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage driver: %s", c.Storage.Driver)
	}

	if c.Query.SearchLimit < 1 {
		return fmt.Errorf("query.search_limit must be positive, got: %d", c.Query.SearchLimit)
	}
	if c.Query.ListLimit < 1 {
		return fmt.Errorf("query.list_limit must be positive, got: %d", c.Query.ListLimit)
	}
	if c.Reports.Years < 1 {
		return fmt.Errorf("reports.years must be positive, got: %d", c.Reports.Years)
	}
	return nil
}
