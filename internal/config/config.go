package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ConnectorMessageBufferSize int           `yaml:"connectorMessageBufferSize"`
	LogLevel                   string        `yaml:"logLevel"`
	Metrics                    MetricsConfig `yaml:"metrics"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

var logLevels = []string{"debug", "info", "warn", "error"}

// Default is the configuration used when no file is given. Fields missing
// from a config file keep these values.
func Default() *Config {
	return &Config{
		ConnectorMessageBufferSize: 16,
		LogLevel:                   "info",
	}
}

func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is required")
	}

	_, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "config file not found")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ConnectorMessageBufferSize <= 0 {
		return errors.Newf("connectorMessageBufferSize must be positive, got %d", c.ConnectorMessageBufferSize)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	for _, l := range logLevels {
		if c.LogLevel == l {
			return nil
		}
	}
	return errors.Newf("logLevel must be one of %s", strings.Join(logLevels, ", "))
}
