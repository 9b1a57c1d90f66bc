// Package config loads simulator settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	envVarPrefix = "FSSIM"
	appName      = "fssim"
)

type Config struct {
	LogLevel   string `envconfig:"FSSIM_LOG_LEVEL"   yaml:"logLevel"`
	LogFormat  string `envconfig:"FSSIM_LOG_FORMAT"  yaml:"logFormat"`
	Prompt     string `envconfig:"FSSIM_PROMPT"      yaml:"prompt"`
	BlockCache bool   `envconfig:"FSSIM_BLOCK_CACHE" yaml:"blockCache"`
}

// Default is the configuration used when neither a file nor the
// environment set a field.
func Default() Config {
	return Config{
		LogLevel:  "info",
		LogFormat: "text",
		Prompt:    "> ",
	}
}

// ConfigFile is FSSIM_CONFIG_FILE or ~/.config/fssim.yaml.
func ConfigFile() string {
	if path := os.Getenv(envVarPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName+".yaml")
}

// Load reads path (a missing file is fine) and applies the environment on
// top of it.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.UnmarshalStrict(data, &c); err != nil {
			return nil, fmt.Errorf("unmarshaling config file: %w", err)
		}
	}

	if err := envconfig.Process(envVarPrefix, &c); err != nil {
		return nil, fmt.Errorf("parsing environment variables: %w", err)
	}

	return &c, c.Validate()
}

func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("logLevel: %w", err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("logFormat: unknown format `%s`", c.LogFormat)
	}
	return nil
}

// Logger builds a logrus logger writing to stderr.
func (c *Config) Logger() *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stderr)
	if level, err := log.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&log.JSONFormatter{})
	}
	return logger
}
