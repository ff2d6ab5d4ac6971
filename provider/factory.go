package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/transcache"
)

// New builds the provider named by cfg.Type.
func New(ctx context.Context, cfg Config) (AIProvider, error) {
	switch strings.ToLower(cfg.Type) {
	case "", TypeOpenAI:
		if cfg.APIKey == "" {
			return nil, &transcache.SetupError{Message: "OpenAI API key is required"}
		}
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			BaseURL:     cfg.BaseURL,
		}), nil
	case TypeGemini:
		if cfg.APIKey == "" {
			return nil, &transcache.SetupError{Message: "Gemini API key is required"}
		}
		return NewGeminiProvider(ctx, GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			BaseURL:     cfg.BaseURL,
		})
	case TypeMock:
		return NewMockProvider(), nil
	default:
		return nil, &transcache.SetupError{Message: fmt.Sprintf("unknown provider type %q", cfg.Type)}
	}
}
