package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Symbols []string `yaml:"symbols"`
	Data    struct {
		Source     string `yaml:"source"` // csv, parquet, api, mock
		CSVDir     string `yaml:"csv_dir"`
		ParquetDir string `yaml:"parquet_dir"`
	} `yaml:"data"`
	API struct {
		BaseURL       string `yaml:"base_url"`
		APIKey        string `yaml:"api_key"`
		Period        int    `yaml:"period"`
		PeriodType    string `yaml:"period_type"`
		Frequency     int    `yaml:"frequency"`
		FrequencyType string `yaml:"frequency_type"`
	} `yaml:"api"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Refresh struct {
		Cron string `yaml:"cron"`
	} `yaml:"refresh"`
	Events struct {
		Buffer int `yaml:"buffer"`
	} `yaml:"events"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SYMBOLS"); v != "" {
		cfg.Symbols = cfg.Symbols[:0]
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Symbols = append(cfg.Symbols, s)
			}
		}
	}
	if v := os.Getenv("DATA_SOURCE"); v != "" {
		cfg.Data.Source = v
	}
	if v := os.Getenv("CSV_DIR"); v != "" {
		cfg.Data.CSVDir = v
	}
	if v := os.Getenv("QUOTE_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("QUOTE_API_KEY"); v != "" {
		cfg.API.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Refresh.Cron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Data.Source == "" {
		cfg.Data.Source = "csv"
	}
	if cfg.Data.CSVDir == "" {
		cfg.Data.CSVDir = "data/series"
	}
	if cfg.Data.ParquetDir == "" {
		cfg.Data.ParquetDir = "data/series"
	}
	if cfg.API.Period == 0 {
		cfg.API.Period = 1
	}
	if cfg.API.PeriodType == "" {
		cfg.API.PeriodType = "year"
	}
	if cfg.API.Frequency == 0 {
		cfg.API.Frequency = 1
	}
	if cfg.API.FrequencyType == "" {
		cfg.API.FrequencyType = "daily"
	}
	if cfg.Refresh.Cron == "" {
		cfg.Refresh.Cron = "0 0 6 * * 2-6" // after each US close
	}
	if cfg.Events.Buffer == 0 {
		cfg.Events.Buffer = 1024
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols is required")
	}
	switch c.Data.Source {
	case "csv", "parquet", "mock":
	case "api":
		if c.API.BaseURL == "" {
			return fmt.Errorf("api.base_url is required for source api")
		}
	default:
		return fmt.Errorf("data.source must be csv, parquet, api, or mock (got %q)", c.Data.Source)
	}
	return nil
}
