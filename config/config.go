package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "pybridge.yaml"

// Config holds the generator settings read from pybridge.yaml.
type Config struct {
	// Target is the class whose operations are exposed.
	Target string `yaml:"target"`
	// Template is the path of a template replacing the built-in one.
	Template string `yaml:"template"`
	// Header is the path of a file prepended to the output.
	Header  string        `yaml:"header"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	// Endpoint is an OTLP/HTTP collector address, "stdout", or empty to
	// disable export.
	Endpoint string `yaml:"endpoint"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Target: "API",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads configuration from a YAML file over the defaults. A missing
// file yields the defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	return cfg, nil
}

// LoadFromDir loads pybridge.yaml or .pybridge/config.yaml from dir, in that
// order, falling back to the defaults.
func LoadFromDir(fs afero.Fs, dir string) (*Config, error) {
	for _, path := range []string{
		filepath.Join(dir, FileName),
		filepath.Join(dir, ".pybridge", "config.yaml"),
	} {
		if ok, _ := afero.Exists(fs, path); ok {
			return Load(fs, path)
		}
	}
	return DefaultConfig(), nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(fs afero.Fs, path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	return afero.WriteFile(fs, path, data, 0o644)
}
