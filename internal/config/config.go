// Package config resolves runtime settings: built-in defaults, then an
// optional YAML file, then environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigFile = "REVIEWAGENDA_CONFIG"
	EnvDB         = "REVIEWAGENDA_DB"
	EnvLogLevel   = "REVIEWAGENDA_LOG_LEVEL"
	EnvLogFormat  = "REVIEWAGENDA_LOG_FORMAT"
	EnvJobWorkers = "REVIEWAGENDA_JOB_WORKERS"
)

type Config struct {
	DBPath     string `yaml:"db_path"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`
	JobWorkers int    `yaml:"job_workers"`
}

// DefaultConfig keeps the database under ~/.reviewagenda, logs warnings and
// above as text, and runs four job workers.
func DefaultConfig() Config {
	dbPath := "reviewagenda.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".reviewagenda", "reviewagenda.db")
	}
	return Config{
		DBPath:     dbPath,
		LogLevel:   "warn",
		LogFormat:  "text",
		JobWorkers: 4,
	}
}

// Load builds the effective configuration. The file named by
// REVIEWAGENDA_CONFIG must exist; the default ~/.reviewagenda/config.yaml is
// read only if present.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, required := os.Getenv(EnvConfigFile), true
	if path == "" {
		required = false
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".reviewagenda", "config.yaml")
		}
	}
	if path != "" {
		err := LoadFile(path, &cfg)
		switch {
		case err == nil:
		case !required && errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. Unknown keys are
// rejected; an empty file changes nothing.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv(EnvJobWorkers); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.JobWorkers = n
		}
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("config: db_path is empty")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log_level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log_format %q", c.LogFormat)
	}
	if c.JobWorkers < 1 {
		return fmt.Errorf("config: job_workers must be at least 1, got %d", c.JobWorkers)
	}
	return nil
}
