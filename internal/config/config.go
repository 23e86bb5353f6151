// Package config loads sutra-power settings from defaults, an optional YAML
// file, a .env file and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load.
const (
	EnvDB         = "SUTRA_DB"
	EnvLegacyFile = "SUTRA_LEGACY_FILE"
	EnvUploadDir  = "SUTRA_UPLOAD_DIR"
	EnvAddr       = "SUTRA_ADDR"
	EnvLogLevel   = "SUTRA_LOG_LEVEL"
	EnvLogFormat  = "SUTRA_LOG_FORMAT"
)

// DefaultFile is the YAML file Load reads when no file is named.
const DefaultFile = "sutra.yaml"

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the complete application configuration.
type Config struct {
	DBPath     string    `yaml:"db_path"`
	LegacyFile string    `yaml:"legacy_file"`
	UploadDir  string    `yaml:"upload_dir"`
	Addr       string    `yaml:"addr"`
	Log        LogConfig `yaml:"log"`
}

// Default returns the built-in configuration rooted at ~/.sutra-power.
func Default() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".sutra-power")
	return &Config{
		DBPath:     filepath.Join(base, "sutra.db"),
		LegacyFile: filepath.Join(base, "local-storage.json"),
		UploadDir:  filepath.Join(base, "uploads"),
		Addr:       ":8080",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration. file names a YAML file that must exist; an
// empty file falls back to DefaultFile when present. envFile names a .env file
// loaded when present; variables already set in the environment win over it.
func Load(file, envFile string) (*Config, error) {
	cfg := Default()

	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		if err := loadYAML(file, cfg); err != nil {
			return nil, err
		}
	}

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setFromEnv(&cfg.DBPath, EnvDB)
	setFromEnv(&cfg.LegacyFile, EnvLegacyFile)
	setFromEnv(&cfg.UploadDir, EnvUploadDir)
	setFromEnv(&cfg.Addr, EnvAddr)
	setFromEnv(&cfg.Log.Level, EnvLogLevel)
	setFromEnv(&cfg.Log.Format, EnvLogFormat)
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that every path the application needs is set.
func (c *Config) Validate() error {
	var errs []error
	if c.DBPath == "" {
		errs = append(errs, errors.New("db_path is required"))
	}
	if c.UploadDir == "" {
		errs = append(errs, errors.New("upload_dir is required"))
	}
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	return errors.Join(errs...)
}
