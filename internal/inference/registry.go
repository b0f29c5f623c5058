package inference

import (
	"context"
	"fmt"

	"github.com/luigi970/Signal-Hunter/internal/config"
)

// NewClient builds the provider selected by the configuration.
func NewClient(ctx context.Context, cfg config.InferenceConfig) (Client, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown inference provider: %q", cfg.Provider)
	}
}
