package provider

import (
	"context"

	"google.golang.org/genai"

	"github.com/ZaguanLabs/transcache"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty.
const DefaultGeminiModel = "gemini-2.0-flash"

// GeminiProvider implements AIProvider using the Gemini API.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey      string  // Gemini API key
	Model       string  // Model to use (default: "gemini-2.0-flash")
	Temperature float32 // Temperature for generation (default: 0.3)
	BaseURL     string  // Custom base URL (optional)
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, &transcache.SetupError{Message: "failed to create Gemini client", Cause: err}
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = defaultTemperature
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

// ValidatePair implements AIProvider.
func (p *GeminiProvider) ValidatePair(source, target string) error {
	return transcache.ValidateLanguagePair(source, target)
}

// Translate translates a batch of texts using Gemini.
func (p *GeminiProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model,
		genai.Text(buildUserMessage(req)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(buildSystemPrompt(req), genai.RoleUser),
			Temperature:       genai.Ptr(p.temperature),
			ResponseMIMEType:  "application/json",
		})
	if err != nil {
		return nil, &transcache.ProviderError{
			Message:   "Gemini API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	content := resp.Text()
	if content == "" {
		return nil, &transcache.ProviderError{
			Message:   "no response from Gemini",
			Retryable: true,
		}
	}

	return parseResponse("Gemini", content, len(req.Texts))
}

// Verify GeminiProvider implements AIProvider
var _ AIProvider = (*GeminiProvider)(nil)
