// Package config loads server settings from defaults, an optional config
// file and RECHARGE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix     = "RECHARGE"
	envConfigPath = "RECHARGE_CONFIG"
)

const (
	keyServerAddr            = "server.addr"
	keyServerShutdownTimeout = "server.shutdown_timeout"
	keyStorageDriver         = "storage.driver"
	keyStoragePath           = "storage.path"
	keyStorageDSN            = "storage.dsn"
	keyStorageSeed           = "storage.seed"
	keyLogLevel              = "log.level"
	keyLogFile               = "log.file"
	keyLogMaxSizeMB          = "log.max_size_mb"
	keyLogMaxBackups         = "log.max_backups"
	keySessionTickInterval   = "session.tick_interval"
	keySessionRetention      = "session.retention"
	keySessionCleanup        = "session.cleanup_interval"
	keyRecommendLimit        = "recommend.limit"
)

var drivers = []string{"memory", "sqlite", "postgres", "bolt"}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
	Session   SessionConfig   `mapstructure:"session"`
	Recommend RecommendConfig `mapstructure:"recommend"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
	Seed   bool   `mapstructure:"seed"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type SessionConfig struct {
	TickInterval    time.Duration `mapstructure:"tick_interval"`
	Retention       time.Duration `mapstructure:"retention"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

type RecommendConfig struct {
	Limit int `mapstructure:"limit"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyServerAddr, ":8080")
	v.SetDefault(keyServerShutdownTimeout, "10s")
	v.SetDefault(keyStorageDriver, "memory")
	v.SetDefault(keyStoragePath, "recharge.db")
	v.SetDefault(keyStorageDSN, "")
	v.SetDefault(keyStorageSeed, true)
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyLogFile, "")
	v.SetDefault(keyLogMaxSizeMB, 10)
	v.SetDefault(keyLogMaxBackups, 3)
	v.SetDefault(keySessionTickInterval, "1s")
	v.SetDefault(keySessionRetention, "1h")
	v.SetDefault(keySessionCleanup, "5m")
	v.SetDefault(keyRecommendLimit, 3)
}

// Load reads configuration. An explicit path (or RECHARGE_CONFIG) must
// exist; otherwise ./recharge.{yaml,toml,json} is read when present.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(envConfigPath)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file failed: %w", err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("recharge")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("reading config file failed: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

func (c Config) Validate() error {
	if !slices.Contains(drivers, c.Storage.Driver) {
		return fmt.Errorf("%w: storage.driver %q (want one of %s)",
			ErrInvalidConfig, c.Storage.Driver, strings.Join(drivers, ", "))
	}
	if c.Storage.Driver == "postgres" && c.Storage.DSN == "" {
		return fmt.Errorf("%w: storage.dsn is required for postgres", ErrInvalidConfig)
	}
	if c.Session.TickInterval <= 0 {
		return fmt.Errorf("%w: session.tick_interval must be positive", ErrInvalidConfig)
	}
	if c.Recommend.Limit <= 0 {
		return fmt.Errorf("%w: recommend.limit must be positive", ErrInvalidConfig)
	}
	return nil
}
