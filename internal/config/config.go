package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"gopkg.in/yaml.v3"
)

// Config holds all baristasim configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Agent provider configuration
	Provider string       `yaml:"provider"` // openai, gemini, scripted
	OpenAI   OpenAIConfig `yaml:"openai"`
	Gemini   GeminiConfig `yaml:"gemini"`

	// Session pacing and bounds
	Timeouts SessionTimeouts `yaml:"timeouts"`

	// Maximum complaint/response rounds per customer before forced handoff
	MaxComplaintExchanges int `yaml:"max_complaint_exchanges"`

	// Satisfaction meter tuning
	Satisfaction SatisfactionConfig `yaml:"satisfaction"`

	// Metrics exposition
	Metrics MetricsConfig `yaml:"metrics"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Customer roster served sequentially
	Customers []Customer `yaml:"customers"`
}

// OpenAIConfig configures the OpenAI-backed customer persona.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
}

// GeminiConfig configures the Gemini-backed customer persona.
type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// SatisfactionConfig configures the in-process satisfaction meter.
type SatisfactionConfig struct {
	Initial   int `yaml:"initial"`    // Starting value, 0-100
	GoodDelta int `yaml:"good_delta"` // Added on a cooperative choice
	BadDelta  int `yaml:"bad_delta"`  // Subtracted on a dismissive choice
}

// MetricsConfig configures the Prometheus exposition endpoint.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig configures categorized debug logging.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// Customer describes one roster entry: the simulated customer the external
// agent will play for a single session.
type Customer struct {
	Name string `yaml:"name"`
	// Persona is the system prompt handed to the agent provider.
	Persona string `yaml:"persona"`
	// Complaint seeds the persona's opening grievance.
	Complaint string `yaml:"complaint"`
}

// envOverrides collects BARISTASIM_* environment overrides.
// Parsed with caarlos0/env and applied on top of the YAML file.
type envOverrides struct {
	Provider     string `env:"BARISTASIM_PROVIDER"`
	OpenAIKey    string `env:"BARISTASIM_OPENAI_API_KEY"`
	GeminiKey    string `env:"BARISTASIM_GEMINI_API_KEY"`
	MetricsAddr  string `env:"BARISTASIM_METRICS_ADDR"`
	Debug        bool   `env:"BARISTASIM_DEBUG"`
	OpenAIKeyAlt string `env:"OPENAI_API_KEY"`
	GeminiKeyAlt string `env:"GEMINI_API_KEY"`
}

// ConfigPath returns the config file location inside a workspace.
func ConfigPath(workspace string) string {
	return filepath.Join(workspace, ".baristasim", "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:     "baristasim",
		Version:  "1.0.0",
		Provider: "scripted",

		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},

		Timeouts:              DefaultSessionTimeouts(),
		MaxComplaintExchanges: 3,

		Satisfaction: SatisfactionConfig{
			Initial:   50,
			GoodDelta: 10,
			BadDelta:  15,
		},

		Metrics: MetricsConfig{
			Enabled:    true,
			ListenAddr: ":9090",
		},

		Logging: LoggingConfig{
			Level: "info",
		},

		Customers: DefaultRoster(),
	}
}

// DefaultRoster returns a built-in roster so the simulator runs out of the box.
func DefaultRoster() []Customer {
	return []Customer{
		{
			Name:      "Margaret",
			Persona:   "You are Margaret, a regular who has waited twenty minutes for a flat white. You are irritated but polite.",
			Complaint: "I've been waiting over twenty minutes for my flat white.",
		},
		{
			Name:      "Dev",
			Persona:   "You are Dev, a remote worker whose latte arrived lukewarm and who is already late for a call.",
			Complaint: "My latte is barely warm and I really needed it hot.",
		},
		{
			Name:      "Priya",
			Persona:   "You are Priya, who ordered oat milk and received dairy. You are mildly allergic and quite upset.",
			Complaint: "I asked for oat milk and this is definitely regular milk!",
		},
	}
}

// Load loads configuration from a YAML file.
// Missing file is not an error: defaults plus env overrides are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies BARISTASIM_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	var ov envOverrides
	if err := env.Parse(&ov); err != nil {
		// Overrides are best-effort; the YAML values stand.
		return
	}

	if ov.Provider != "" {
		c.Provider = strings.ToLower(ov.Provider)
	}
	if ov.OpenAIKey != "" {
		c.OpenAI.APIKey = ov.OpenAIKey
	} else if ov.OpenAIKeyAlt != "" && c.OpenAI.APIKey == "" {
		c.OpenAI.APIKey = ov.OpenAIKeyAlt
	}
	if ov.GeminiKey != "" {
		c.Gemini.APIKey = ov.GeminiKey
	} else if ov.GeminiKeyAlt != "" && c.Gemini.APIKey == "" {
		c.Gemini.APIKey = ov.GeminiKeyAlt
	}
	if ov.MetricsAddr != "" {
		c.Metrics.ListenAddr = ov.MetricsAddr
	}
	if ov.Debug {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// Validate checks the configuration for values the orchestrator cannot run with.
func (c *Config) Validate() error {
	switch c.Provider {
	case "openai", "gemini", "scripted":
	default:
		return fmt.Errorf("unknown provider %q (want openai, gemini, or scripted)", c.Provider)
	}

	if c.MaxComplaintExchanges < 1 {
		return fmt.Errorf("max_complaint_exchanges must be >= 1, got %d", c.MaxComplaintExchanges)
	}
	if len(c.Customers) == 0 {
		return fmt.Errorf("customer roster is empty")
	}
	for i, cust := range c.Customers {
		if strings.TrimSpace(cust.Name) == "" {
			return fmt.Errorf("customer %d has no name", i)
		}
	}

	return c.Timeouts.Validate()
}
