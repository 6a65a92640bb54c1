// Package config provides configuration loading and management for the
// LinkedIn content engine.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete engine configuration.
type Config struct {
	LLM    LLMConfig    `yaml:"llm"`
	Search SearchConfig `yaml:"search"`
	Notion NotionConfig `yaml:"notion"`
	Slack  SlackConfig  `yaml:"slack"`
	NATS   NATSConfig   `yaml:"nats"`
	Poll   PollConfig   `yaml:"poll"`
}

// LLMConfig configures the LLM endpoints used by the agents.
type LLMConfig struct {
	// Provider is the default provider name ("openrouter", "anthropic", "ollama").
	Provider string `yaml:"provider"`
	// Model is the default model identifier sent to the provider.
	Model string `yaml:"model"`
	// Endpoint overrides the provider's base URL (empty = provider default).
	Endpoint string `yaml:"endpoint"`
	// APIKey is the credential for the provider. Loaded from the environment
	// (OPENROUTER_API_KEY, ANTHROPIC_API_KEY) when empty.
	APIKey string `yaml:"api_key"`
	// Temperature controls randomness for writing-capability calls (0.0-1.0).
	Temperature float64 `yaml:"temperature"`
	// MaxTokens caps response length. 0 uses the endpoint default.
	MaxTokens int `yaml:"max_tokens"`
	// Timeout is the maximum time to wait for a completion.
	Timeout time.Duration `yaml:"timeout"`
}

// SearchConfig configures the web search collaborator.
type SearchConfig struct {
	// Endpoint is the Tavily-compatible search API base URL.
	Endpoint string `yaml:"endpoint"`
	// APIKey is loaded from TAVILY_API_KEY when empty.
	APIKey string `yaml:"api_key"`
	// MaxResults bounds the number of sources per query.
	MaxResults int `yaml:"max_results"`
	// EnrichPages enables fetching top result pages for readable text.
	EnrichPages bool `yaml:"enrich_pages"`
}

// NotionConfig configures the Notion work-queue collaborator.
type NotionConfig struct {
	// Token is loaded from NOTION_TOKEN when empty.
	Token string `yaml:"token"`
	// DatabaseID is loaded from NOTION_DATABASE_ID when empty.
	DatabaseID string `yaml:"database_id"`
	// StateFile tracks the last-processed timestamp for change detection.
	StateFile string `yaml:"state_file"`
}

// SlackConfig configures the Slack notification webhook.
type SlackConfig struct {
	// WebhookURL is loaded from SLACK_WEBHOOK_URL when empty.
	// Notifications are skipped entirely when unset.
	WebhookURL string `yaml:"webhook_url"`
}

// NATSConfig configures optional workflow event publishing.
type NATSConfig struct {
	// URL is the NATS server URL. Event publishing is disabled when empty.
	URL string `yaml:"url"`
	// SubjectPrefix prefixes all published event subjects.
	SubjectPrefix string `yaml:"subject_prefix"`
}

// PollConfig configures continuous polling mode.
type PollConfig struct {
	// IdleInterval is the delay between queue checks when no work was found.
	IdleInterval time.Duration `yaml:"idle_interval"`
	// ActiveInterval is the fast recheck delay after processing work.
	ActiveInterval time.Duration `yaml:"active_interval"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:    "openrouter",
			Model:       "anthropic/claude-3.5-sonnet",
			Temperature: 0.7,
			MaxTokens:   3000,
			Timeout:     3 * time.Minute,
		},
		Search: SearchConfig{
			Endpoint:    "https://api.tavily.com",
			MaxResults:  5,
			EnrichPages: false,
		},
		Notion: NotionConfig{
			StateFile: ".last_processed",
		},
		NATS: NATSConfig{
			SubjectPrefix: "content",
		},
		Poll: PollConfig{
			IdleInterval:   30 * time.Second,
			ActiveInterval: 5 * time.Second,
		},
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.LLM.Provider == "" {
		return fmt.Errorf("llm.provider is required")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 1 {
		return fmt.Errorf("llm.temperature must be between 0 and 1")
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive")
	}
	if c.Poll.IdleInterval <= 0 {
		return fmt.Errorf("poll.idle_interval must be positive")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Load builds the effective configuration from one explicit YAML file:
// defaults, then the file, then environment credentials for anything still
// unset. Use Loader for the layered user/project file search.
func Load(path string) (*Config, error) {
	cfg, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one. Non-zero values from other take
// precedence.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.LLM.Provider != "" {
		c.LLM.Provider = other.LLM.Provider
	}
	if other.LLM.Model != "" {
		c.LLM.Model = other.LLM.Model
	}
	if other.LLM.Endpoint != "" {
		c.LLM.Endpoint = other.LLM.Endpoint
	}
	if other.LLM.APIKey != "" {
		c.LLM.APIKey = other.LLM.APIKey
	}
	if other.LLM.Temperature != 0 {
		c.LLM.Temperature = other.LLM.Temperature
	}
	if other.LLM.MaxTokens != 0 {
		c.LLM.MaxTokens = other.LLM.MaxTokens
	}
	if other.LLM.Timeout != 0 {
		c.LLM.Timeout = other.LLM.Timeout
	}

	if other.Search.Endpoint != "" {
		c.Search.Endpoint = other.Search.Endpoint
	}
	if other.Search.APIKey != "" {
		c.Search.APIKey = other.Search.APIKey
	}
	if other.Search.MaxResults != 0 {
		c.Search.MaxResults = other.Search.MaxResults
	}
	if other.Search.EnrichPages {
		c.Search.EnrichPages = true
	}

	if other.Notion.Token != "" {
		c.Notion.Token = other.Notion.Token
	}
	if other.Notion.DatabaseID != "" {
		c.Notion.DatabaseID = other.Notion.DatabaseID
	}
	if other.Notion.StateFile != "" {
		c.Notion.StateFile = other.Notion.StateFile
	}

	if other.Slack.WebhookURL != "" {
		c.Slack.WebhookURL = other.Slack.WebhookURL
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.SubjectPrefix != "" {
		c.NATS.SubjectPrefix = other.NATS.SubjectPrefix
	}

	if other.Poll.IdleInterval != 0 {
		c.Poll.IdleInterval = other.Poll.IdleInterval
	}
	if other.Poll.ActiveInterval != 0 {
		c.Poll.ActiveInterval = other.Poll.ActiveInterval
	}
}

// applyEnv fills credentials from the environment when not set in YAML.
// Explicit YAML values win so test configs stay self-contained.
func (c *Config) applyEnv() {
	if c.LLM.APIKey == "" {
		switch c.LLM.Provider {
		case "anthropic":
			c.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			c.LLM.APIKey = os.Getenv("OPENROUTER_API_KEY")
		}
	}
	if c.Search.APIKey == "" {
		c.Search.APIKey = os.Getenv("TAVILY_API_KEY")
	}
	if c.Notion.Token == "" {
		c.Notion.Token = os.Getenv("NOTION_TOKEN")
	}
	if c.Notion.DatabaseID == "" {
		c.Notion.DatabaseID = os.Getenv("NOTION_DATABASE_ID")
	}
	if c.Slack.WebhookURL == "" {
		c.Slack.WebhookURL = os.Getenv("SLACK_WEBHOOK_URL")
	}
	if c.NATS.URL == "" {
		c.NATS.URL = os.Getenv("NATS_URL")
	}
}
