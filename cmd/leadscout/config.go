package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the CLI's file configuration, merged with environment
// variables. Environment wins.
type Config struct {
	BaseURL        string   `yaml:"base_url"`
	APIKey         string   `yaml:"api_key"`
	SelectedFields []string `yaml:"selected_fields"`
	RateLimitRPS   float64  `yaml:"rate_limit_rps"`
}

func configPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "leadscout", "config.yaml"), nil
}

func loadConfig() (Config, error) {
	var cfg Config
	path, err := configPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return applyEnv(cfg), nil
		}
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("LEADSCOUT_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LEADSCOUT_GOOGLE_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	return cfg
}
