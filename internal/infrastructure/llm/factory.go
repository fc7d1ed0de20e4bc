package llm

import (
	"strings"

	"prompt-records/internal/pkg/config"
	apperrors "prompt-records/internal/pkg/errors"
)

// NewProviderFromConfig selects and constructs the configured provider.
// It is a pure configuration read plus construction: a provider whose
// credential is absent fails here, before any network call. An empty
// provider name defaults to openai.
func NewProviderFromConfig(cfg *config.Config) (Provider, error) {
	name := strings.ToLower(cfg.LLMProvider)
	if name == "" {
		name = ProviderOpenAI
	}

	switch name {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, apperrors.MissingCredential("OPENAI_API_KEY")
		}
		oc := DefaultOpenAIConfig(cfg.OpenAIAPIKey)
		if cfg.OpenAIModel != "" {
			oc.Model = cfg.OpenAIModel
		}
		if cfg.OpenAIBaseURL != "" {
			oc.BaseURL = cfg.OpenAIBaseURL
		}
		return NewOpenAIClientWithConfig(oc), nil

	case ProviderAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return nil, apperrors.MissingCredential("ANTHROPIC_API_KEY")
		}
		ac := DefaultAnthropicConfig(cfg.AnthropicAPIKey)
		if cfg.AnthropicModel != "" {
			ac.Model = cfg.AnthropicModel
		}
		if cfg.AnthropicBaseURL != "" {
			ac.BaseURL = cfg.AnthropicBaseURL
		}
		return NewAnthropicClientWithConfig(ac), nil

	default:
		return nil, apperrors.UnsupportedProvider(cfg.LLMProvider)
	}
}
