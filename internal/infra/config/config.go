package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const DefaultPath = "config.yaml"

type Config struct {
	Engine   EngineConfig   `mapstructure:"engine" yaml:"engine"`
	Consumer ConsumerConfig `mapstructure:"consumer" yaml:"consumer"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`

	Port string `mapstructure:"port" yaml:"port"`
}

type EngineConfig struct {
	Steps       int           `mapstructure:"steps" yaml:"steps"`
	MinDelay    time.Duration `mapstructure:"min_delay" yaml:"min_delay"`
	MaxDelay    time.Duration `mapstructure:"max_delay" yaml:"max_delay"`
	PausePoll   time.Duration `mapstructure:"pause_poll" yaml:"pause_poll"`
	FailureRate float64       `mapstructure:"failure_rate" yaml:"failure_rate"`
	Seed        uint64        `mapstructure:"seed" yaml:"seed"`
}

type ConsumerConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
}

type LogConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Level         string `mapstructure:"level" yaml:"level"`
	IncludeStdout bool   `mapstructure:"include_stdout" yaml:"include_stdout"`
}

type StoreConfig struct {
	Driver      string `mapstructure:"driver" yaml:"driver"`
	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverNone     = "none"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("engine.steps", 100)
	v.SetDefault("engine.min_delay", "50ms")
	v.SetDefault("engine.max_delay", "200ms")
	v.SetDefault("engine.pause_poll", "100ms")
	v.SetDefault("engine.failure_rate", 0.0)
	v.SetDefault("engine.seed", 0)
	v.SetDefault("consumer.interval", "100ms")
	v.SetDefault("log.path", "godl.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.include_stdout", false)
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", "./data/godl.db")
	v.SetDefault("store.postgres_dsn", "")
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads path, layering GODL_* environment variables on top. An empty
// path falls back to config.yaml, and to built-in defaults when that is
// missing too. A path that was named explicitly must exist.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		} else if _, err := os.Stat("/config/config.yaml"); err == nil {
			// Container layout
			path = "/config/config.yaml"
		}
	} else if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// Support Environment Variables
	v.SetEnvPrefix("GODL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Engine.Steps <= 0 {
		return errors.New("engine.steps must be positive")
	}

	if c.Engine.MinDelay < 0 || c.Engine.MaxDelay < 0 {
		return errors.New("engine delays must not be negative")
	}

	if c.Engine.MaxDelay < c.Engine.MinDelay {
		return fmt.Errorf("engine.max_delay (%s) is below engine.min_delay (%s)", c.Engine.MaxDelay, c.Engine.MinDelay)
	}

	if c.Engine.FailureRate < 0 || c.Engine.FailureRate > 1 {
		return fmt.Errorf("engine.failure_rate must be within [0,1], got %v", c.Engine.FailureRate)
	}

	if c.Engine.PausePoll <= 0 {
		// Default to a sane value
		c.Engine.PausePoll = 100 * time.Millisecond
	}

	if c.Consumer.Interval <= 0 {
		c.Consumer.Interval = 100 * time.Millisecond
	}

	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return errors.New("store.sqlite_path is required for the sqlite driver")
		}
	case DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return errors.New("store.postgres_dsn is required for the postgres driver")
		}
	case DriverNone, "":
		c.Store.Driver = DriverNone
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}

	if c.Port == "" {
		c.Port = "8080"
	}

	return nil
}
