package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Data.Source != "csv" {
		t.Errorf("default source = %q, want csv", cfg.Data.Source)
	}
	if cfg.API.PeriodType != "year" || cfg.API.FrequencyType != "daily" {
		t.Errorf("default api params: %+v", cfg.API)
	}
	if cfg.Events.Buffer != 1024 {
		t.Errorf("default events buffer = %d", cfg.Events.Buffer)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
symbols: [SPY, QQQ]
data:
  source: api
api:
  base_url: https://quotes.example.com
database:
  sqlite_path: data/replay.db
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SYMBOLS", "IWM , DIA")
	t.Setenv("QUOTE_API_KEY", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Symbols) != 2 || cfg.Symbols[0] != "IWM" || cfg.Symbols[1] != "DIA" {
		t.Errorf("env symbols override failed: %v", cfg.Symbols)
	}
	if cfg.API.BaseURL != "https://quotes.example.com" {
		t.Errorf("base_url = %q", cfg.API.BaseURL)
	}
	if cfg.API.APIKey != "from-env" {
		t.Errorf("api key = %q, want env override", cfg.API.APIKey)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"no symbols", func(c *Config) { c.Symbols = nil }, true},
		{"bad source", func(c *Config) { c.Data.Source = "ftp" }, true},
		{"api without base url", func(c *Config) { c.Data.Source = "api" }, true},
		{"mock ok", func(c *Config) { c.Data.Source = "mock" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatal(err)
			}
			cfg.Symbols = []string{"SPY"}
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
