package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config selects and configures the tutor's language model.
type Config struct {
	Provider string

	Anthropic  ProviderConfig
	OpenAI     ProviderConfig
	Gemini     ProviderConfig
	OpenRouter ProviderConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// ProviderConfig is the per-provider credential and model selection.
// BaseURL is honored by the OpenAI-compatible providers only.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls the exponential backoff of WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// DefaultConfig returns the built-in model choices with no credentials.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderAnthropic,
		Anthropic:  ProviderConfig{Model: "claude-haiku"},
		OpenAI:     ProviderConfig{Model: "gpt-4o-mini"},
		Gemini:     ProviderConfig{Model: "gemini-flash"},
		OpenRouter: ProviderConfig{Model: "google/gemini-2.0-flash-001", BaseURL: defaultOpenRouterBaseURL},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 30 * time.Second,
	}
}

// envBinding ties one NUMINARY_* variable to a Config field.
type envBinding struct {
	name string
	dst  func(*Config) *string
}

var envBindings = []envBinding{
	{"NUMINARY_LLM_PROVIDER", func(c *Config) *string { return &c.Provider }},
	{"NUMINARY_ANTHROPIC_API_KEY", func(c *Config) *string { return &c.Anthropic.APIKey }},
	{"NUMINARY_ANTHROPIC_MODEL", func(c *Config) *string { return &c.Anthropic.Model }},
	{"NUMINARY_OPENAI_API_KEY", func(c *Config) *string { return &c.OpenAI.APIKey }},
	{"NUMINARY_OPENAI_MODEL", func(c *Config) *string { return &c.OpenAI.Model }},
	{"NUMINARY_OPENAI_BASE_URL", func(c *Config) *string { return &c.OpenAI.BaseURL }},
	{"NUMINARY_GEMINI_API_KEY", func(c *Config) *string { return &c.Gemini.APIKey }},
	{"NUMINARY_GEMINI_MODEL", func(c *Config) *string { return &c.Gemini.Model }},
	{"NUMINARY_OPENROUTER_API_KEY", func(c *Config) *string { return &c.OpenRouter.APIKey }},
	{"NUMINARY_OPENROUTER_MODEL", func(c *Config) *string { return &c.OpenRouter.Model }},
}

// ConfigFromEnv overlays the NUMINARY_* variables on DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, b := range envBindings {
		if v := os.Getenv(b.name); v != "" {
			*b.dst(&cfg) = v
		}
	}
	return cfg
}

// vendorKeys is the discovery order for the vendors' own key variables.
var vendorKeys = []struct {
	env      string
	provider string
}{
	{"GEMINI_API_KEY", ProviderGemini},
	{"OPENAI_API_KEY", ProviderOpenAI},
	{"ANTHROPIC_API_KEY", ProviderAnthropic},
	{"OPENROUTER_API_KEY", ProviderOpenRouter},
}

// DiscoverConfig returns a config for the first vendor whose standard API key
// variable is set. The boolean is false when none is.
func DiscoverConfig() (Config, bool) {
	for _, vk := range vendorKeys {
		key := os.Getenv(vk.env)
		if key == "" {
			continue
		}
		cfg := DefaultConfig()
		cfg.Provider = vk.provider
		cfg.providerConfig(vk.provider).APIKey = key
		return cfg, true
	}
	return Config{}, false
}

// Resolve picks the configuration the app should run with: explicit
// NUMINARY_* settings win, then vendor key discovery. It reports false when
// no provider has credentials.
func Resolve() (Config, bool) {
	cfg := ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg, true
	}
	if os.Getenv("NUMINARY_LLM_PROVIDER") != "" {
		return cfg, false
	}
	return DiscoverConfig()
}

func (c *Config) providerConfig(name string) *ProviderConfig {
	switch name {
	case ProviderAnthropic:
		return &c.Anthropic
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderGemini:
		return &c.Gemini
	case ProviderOpenRouter:
		return &c.OpenRouter
	}
	return nil
}

// Selected returns the settings of the configured provider, zero for mock.
func (c Config) Selected() ProviderConfig {
	if pc := c.providerConfig(c.Provider); pc != nil {
		return *pc
	}
	return ProviderConfig{}
}

// Validate reports a missing key for the selected provider.
func (c Config) Validate() error {
	if c.Provider == ProviderMock {
		return nil
	}
	pc := c.providerConfig(c.Provider)
	if pc == nil {
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if pc.APIKey == "" {
		return fmt.Errorf("NUMINARY_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
	}
	return nil
}
