package llm

import (
	"context"

	"prompt-records/internal/core/domain"
)

// Known provider tags. Selection is a closed set; anything else fails
// construction with an unsupported-provider error.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Provider is implemented by every language model backend that can turn
// a free-text prompt into schema-validated structured records. A failed
// generation is surfaced as one uniform failure kind regardless of root
// cause; callers never need to distinguish sub-causes.
type Provider interface {
	GenerateResponse(ctx context.Context, prompt string) (*domain.GeneratedResponse, error)
}
