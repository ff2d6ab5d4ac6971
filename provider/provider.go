// Package provider defines the AI provider interface and implementations.
package provider

import "github.com/ZaguanLabs/transcache"

// AIProvider is the interface for AI translation backends.
// This is an alias to the main package interface for convenience.
type AIProvider = transcache.AIProvider

// TranslateRequest is an alias to the main package type.
type TranslateRequest = transcache.TranslateRequest

// Provider types accepted by New.
const (
	TypeOpenAI = "openai"
	TypeGemini = "gemini"
	TypeMock   = "mock"
)

// Config selects and configures a provider.
type Config struct {
	Type        string  // openai, gemini or mock
	APIKey      string  // Provider API key
	Model       string  // Model name (provider default when empty)
	BaseURL     string  // Custom endpoint (optional)
	Temperature float32 // Sampling temperature (default: 0.3)
}
