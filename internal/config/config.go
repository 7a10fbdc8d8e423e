package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr      string `yaml:"listen_addr"`
	DatabasePath    string `yaml:"database_path"`
	ClockifyAPIKey  string `yaml:"clockify_api_key"`
	WorkspaceID     string `yaml:"workspace_id"`
	ProxyURL        string `yaml:"proxy_url"`
	RefreshSchedule string `yaml:"refresh_schedule"` // cron expression or @every descriptor
	Timezone        string `yaml:"timezone"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Apply defaults for missing values
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3041"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "clockify.db"
	}
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = "@every 30s"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}

	return &cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		ListenAddr:      ":3041",
		DatabasePath:    "clockify.db",
		RefreshSchedule: "@every 30s",
		Timezone:        "Local",
	}
}

func (c *Config) GetTimezone() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
