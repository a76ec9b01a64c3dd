package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// fileEngine mirrors EngineConfig with durations spelled the way viper reads them back.
type fileEngine struct {
	Steps       int     `yaml:"steps"`
	MinDelay    string  `yaml:"min_delay"`
	MaxDelay    string  `yaml:"max_delay"`
	PausePoll   string  `yaml:"pause_poll"`
	FailureRate float64 `yaml:"failure_rate"`
	Seed        uint64  `yaml:"seed"`
}

type fileConsumer struct {
	Interval string `yaml:"interval"`
}

type fileConfig struct {
	Engine   fileEngine   `yaml:"engine"`
	Consumer fileConsumer `yaml:"consumer"`
	Log      LogConfig    `yaml:"log"`
	Store    StoreConfig  `yaml:"store"`
	Port     string       `yaml:"port"`
}

// WriteYAML renders c in the layout Load accepts.
func (c *Config) WriteYAML(w io.Writer) error {
	fc := fileConfig{
		Engine: fileEngine{
			Steps:       c.Engine.Steps,
			MinDelay:    c.Engine.MinDelay.String(),
			MaxDelay:    c.Engine.MaxDelay.String(),
			PausePoll:   c.Engine.PausePoll.String(),
			FailureRate: c.Engine.FailureRate,
			Seed:        c.Engine.Seed,
		},
		Consumer: fileConsumer{Interval: c.Consumer.Interval.String()},
		Log:      c.Log,
		Store:    c.Store,
		Port:     c.Port,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	return enc.Close()
}

// WriteDefault writes the default configuration to path. It refuses to
// overwrite an existing file unless force is set.
func WriteDefault(path string, force bool) error {
	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file already exists: %s", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create config file: %w", err)
	}
	defer f.Close()

	return Default().WriteYAML(f)
}
