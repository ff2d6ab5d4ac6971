package provider

import (
	"context"
	"fmt"
	"sync"

	"github.com/ZaguanLabs/transcache"
)

// MockProvider is a mock AI provider for testing and offline runs.
type MockProvider struct {
	mu sync.Mutex

	Translations map[string]string // Map of source text to translation
	Calls        [][]string        // Texts of every Translate call, in order
	LastRequest  *TranslateRequest // Last request received

	// FailOn makes Translate fail for any batch containing one of these texts.
	FailOn map[string]bool
	// PairErr is returned by ValidatePair when set.
	PairErr error
}

// NewMockProvider creates a new mock provider with default translations.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Translations: map[string]string{
			"Hello":                "Hola",
			"World":                "Mundo",
			"Hello World":          "Hola Mundo",
			"Welcome to our site.": "Bienvenido a nuestro sitio.",
		},
	}
}

// ValidatePair implements AIProvider.
func (m *MockProvider) ValidatePair(source, target string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PairErr
}

// Translate returns mock translations.
func (m *MockProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, append([]string(nil), req.Texts...))
	m.LastRequest = &req

	results := make([]string, len(req.Texts))
	for i, text := range req.Texts {
		if m.FailOn[text] {
			return nil, &transcache.ProviderError{Message: fmt.Sprintf("mock failure on %q", text)}
		}
		if translation, ok := m.Translations[text]; ok {
			results[i] = translation
		} else {
			// Return bracketed text for unknown translations
			results[i] = fmt.Sprintf("[%s]", text)
		}
	}

	return results, nil
}

// CallCount returns the number of Translate calls.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// Reset clears recorded calls.
func (m *MockProvider) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.LastRequest = nil
}

// Verify MockProvider implements AIProvider
var _ AIProvider = (*MockProvider)(nil)
