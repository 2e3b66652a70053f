// Package config loads the YAML configuration and watches it for changes.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`
	Http struct {
		Port    int           `yaml:"port"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"http"`
	Log struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"log"`
	ML struct {
		MaxTreeDepth int  `yaml:"max_tree_depth"`
		CacheModels  bool `yaml:"cache_models"`
		CacheSize    int  `yaml:"cache_size"`
	} `yaml:"ml"`
	UI struct {
		Width  float32 `yaml:"width"`
		Height float32 `yaml:"height"`
	} `yaml:"ui"`
	Chart struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"chart"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var c Config
	c.Database.Path = "student_evaluation.db"
	c.Http.Port = 8080
	c.Http.Timeout = 30 * time.Second
	c.Log.Level = "info"
	c.Log.File = ""
	c.Log.MaxSizeMB = 10
	c.Log.MaxBackups = 3
	c.Log.MaxAgeDays = 28
	c.ML.MaxTreeDepth = 0
	c.ML.CacheModels = false
	c.ML.CacheSize = 8
	c.UI.Width = 800
	c.UI.Height = 600
	c.Chart.Width = 640
	c.Chart.Height = 480
	return &c
}

// Load decodes path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	if c.Http.Port < 0 || c.Http.Port > 65535 {
		return fmt.Errorf("http.port %d out of range", c.Http.Port)
	}
	if c.ML.MaxTreeDepth < 0 {
		return errors.New("ml.max_tree_depth must not be negative")
	}
	return nil
}
