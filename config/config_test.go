package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LLM.Provider != "openrouter" {
		t.Errorf("expected default provider openrouter, got %s", cfg.LLM.Provider)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("expected 5 max results, got %d", cfg.Search.MaxResults)
	}
	if cfg.Poll.IdleInterval != 30*time.Second {
		t.Errorf("expected 30s idle interval, got %s", cfg.Poll.IdleInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:   "valid defaults",
			mutate: func(_ *Config) {},
		},
		{
			name:    "missing provider",
			mutate:  func(c *Config) { c.LLM.Provider = "" },
			wantErr: true,
		},
		{
			name:    "missing model",
			mutate:  func(c *Config) { c.LLM.Model = "" },
			wantErr: true,
		},
		{
			name:    "temperature out of range",
			mutate:  func(c *Config) { c.LLM.Temperature = 1.5 },
			wantErr: true,
		},
		{
			name:    "zero max results",
			mutate:  func(c *Config) { c.Search.MaxResults = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	base := DefaultConfig()
	other := &Config{}
	other.LLM.Model = "anthropic/claude-3-haiku"
	other.LLM.Temperature = 0.2
	other.Notion.DatabaseID = "db-123"
	other.Poll.IdleInterval = time.Minute

	base.Merge(other)

	if base.LLM.Model != "anthropic/claude-3-haiku" {
		t.Errorf("model not merged: %s", base.LLM.Model)
	}
	if base.LLM.Temperature != 0.2 {
		t.Errorf("temperature not merged: %f", base.LLM.Temperature)
	}
	if base.Notion.DatabaseID != "db-123" {
		t.Errorf("database id not merged: %s", base.Notion.DatabaseID)
	}
	if base.Poll.IdleInterval != time.Minute {
		t.Errorf("idle interval not merged: %s", base.Poll.IdleInterval)
	}
	// Unset fields keep defaults.
	if base.LLM.Provider != "openrouter" {
		t.Errorf("provider should keep default, got %s", base.LLM.Provider)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content-engine.yaml")

	yaml := `
llm:
  model: test-model
  temperature: 0.3
search:
  max_results: 3
notion:
  database_id: db-from-file
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}

	if cfg.LLM.Model != "test-model" {
		t.Errorf("model = %s", cfg.LLM.Model)
	}
	if cfg.Search.MaxResults != 3 {
		t.Errorf("max results = %d", cfg.Search.MaxResults)
	}
	// Defaults preserved for unset fields.
	if cfg.Search.Endpoint != "https://api.tavily.com" {
		t.Errorf("endpoint should keep default, got %s", cfg.Search.Endpoint)
	}
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Notion.DatabaseID = "roundtrip-db"

	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if loaded.Notion.DatabaseID != "roundtrip-db" {
		t.Errorf("database id did not round-trip: %s", loaded.Notion.DatabaseID)
	}
}
