package agent

import (
	"context"
	"fmt"

	"baristasim/internal/config"
)

// Providers recognized by NewClient.
const (
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
	ProviderScripted = "scripted"
)

// NewClient builds the persona client for the configured provider.
func NewClient(ctx context.Context, cfg *config.Config) (PersonaClient, error) {
	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAI(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model)
	case ProviderGemini:
		return NewGemini(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	case ProviderScripted, "":
		return NewScripted(), nil
	default:
		return nil, fmt.Errorf("unknown provider %q (want %s, %s, or %s)",
			cfg.Provider, ProviderOpenAI, ProviderGemini, ProviderScripted)
	}
}

// OptionsForProvider picks speech pacing: scripted runs compressed, live
// providers get human-like pacing.
func OptionsForProvider(provider string) Options {
	if provider == ProviderScripted || provider == "" {
		return FastOptions()
	}
	return DefaultOptions()
}
