// Package config handles 3dstool configuration loading and management.
package config

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/scene3ds/internal/assets"
	"github.com/Faultbox/scene3ds/internal/logger"
	"github.com/Faultbox/scene3ds/pkg/encoding"
	"github.com/Faultbox/scene3ds/pkg/threeds"
)

// Config holds all tool settings.
type Config struct {
	Import   ImportConfig   `yaml:"import"`
	Textures TexturesConfig `yaml:"textures"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ImportConfig holds importer settings.
type ImportConfig struct {
	NameEncoding   string `yaml:"name_encoding"` // code page of names stored in the file
	Deduplicate    bool   `yaml:"deduplicate"`
	MaxModelSizeMB int    `yaml:"max_model_size_mb"` // decompressed model limit; 0 for the default
}

// TexturesConfig holds texture lookup settings.
type TexturesConfig struct {
	SearchPaths []string `yaml:"search_paths"` // searched after the model's own directory
	Cache       bool     `yaml:"cache"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	LogFile    string `yaml:"log_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	file := logger.DefaultFileConfig("")
	return &Config{
		Import: ImportConfig{
			NameEncoding:   encoding.DefaultCodePage,
			Deduplicate:    true,
			MaxModelSizeMB: int(assets.DefaultMaxModelSize >> 20),
		},
		Textures: TexturesConfig{
			Cache: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  file.MaxSizeMB,
			MaxBackups: file.MaxBackups,
			MaxAgeDays: file.MaxAgeDays,
			Compress:   file.Compress,
		},
	}
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	if _, err := encoding.NewDecoder(c.Import.NameEncoding); err != nil {
		return fmt.Errorf("import.name_encoding: %w", err)
	}
	if c.Import.MaxModelSizeMB < 0 {
		return fmt.Errorf("import.max_model_size_mb: must not be negative, got %d", c.Import.MaxModelSizeMB)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// ImportOptions returns importer options for these settings.
func (c *Config) ImportOptions(log *zap.Logger) threeds.Options {
	if log == nil {
		log = zap.NewNop()
	}
	return threeds.Options{
		Logger:       log,
		NameEncoding: c.Import.NameEncoding,
		KeepCorners:  !c.Import.Deduplicate,
	}
}

// MaxModelSize returns the decompressed model limit in bytes.
func (c *Config) MaxModelSize() int64 {
	return int64(c.Import.MaxModelSizeMB) << 20
}

// LogFileConfig returns the rotating log file settings.
func (c *Config) LogFileConfig() logger.FileConfig {
	return logger.FileConfig{
		Path:       c.Logging.LogFile,
		MaxSizeMB:  c.Logging.MaxSizeMB,
		MaxBackups: c.Logging.MaxBackups,
		MaxAgeDays: c.Logging.MaxAgeDays,
		Compress:   c.Logging.Compress,
	}
}
