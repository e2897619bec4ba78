// Package config handles application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	appName        = "toneline"
	configFileName = "config.json"
)

// Config represents the application configuration.
type Config struct {
	// SampleRate is the nominal sample rate for synthesis and capture.
	SampleRate int `json:"sample_rate"`

	// CharDuration and GapDuration shape encoded phrases, in seconds.
	CharDuration float64 `json:"char_duration"`
	GapDuration  float64 `json:"gap_duration"`

	// ChunkDuration is the live capture chunk length.
	ChunkDuration time.Duration `json:"chunk_duration"`

	// MinGap is the debounce minimum between confirmed characters.
	MinGap time.Duration `json:"min_gap"`

	// SilenceThreshold gates chunk analysis on peak amplitude.
	SilenceThreshold float64 `json:"silence_threshold"`
}

// Default returns the configuration the original decoder was tuned with.
func Default() *Config {
	return &Config{
		SampleRate:       44100,
		CharDuration:     0.15,
		GapDuration:      0.3,
		ChunkDuration:    100 * time.Millisecond,
		MinGap:           250 * time.Millisecond,
		SilenceThreshold: 0.01,
	}
}

// Load loads configuration from the config file.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("get config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save persists the configuration to disk.
func (c *Config) Save() error {
	path, err := configPath()
	if err != nil {
		return fmt.Errorf("get config path: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// DataDir returns the directory for application data (session history),
// creating it if needed.
func DataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	dir := filepath.Join(base, appName, "history")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	return dir, nil
}

func (c *Config) validate() error {
	if c.SampleRate <= 0 {
		return fmt.Errorf("config: sample_rate must be positive, got %d", c.SampleRate)
	}
	if c.CharDuration <= 0 || c.GapDuration < 0 {
		return fmt.Errorf("config: invalid durations char=%g gap=%g", c.CharDuration, c.GapDuration)
	}
	if c.ChunkDuration <= 0 || c.MinGap < 0 {
		return fmt.Errorf("config: invalid timing chunk=%v min_gap=%v", c.ChunkDuration, c.MinGap)
	}
	return nil
}

func configPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get user config dir: %w", err)
	}
	return filepath.Join(base, appName, configFileName), nil
}
