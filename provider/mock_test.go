package provider

import (
	"context"
	"testing"
)

func TestMockProvider(t *testing.T) {
	m := NewMockProvider()

	req := TranslateRequest{
		Texts:      []string{"Hello", "Unknown text"},
		TargetLang: "es",
	}

	result, err := m.Translate(context.Background(), req)
	if err != nil {
		t.Fatalf("MockProvider.Translate failed: %v", err)
	}

	if result[0] != "Hola" {
		t.Errorf("Expected 'Hola', got %q", result[0])
	}
	if result[1] != "[Unknown text]" {
		t.Errorf("Expected '[Unknown text]', got %q", result[1])
	}
	if m.CallCount() != 1 {
		t.Errorf("Expected CallCount 1, got %d", m.CallCount())
	}

	m.Reset()
	if m.CallCount() != 0 || m.LastRequest != nil {
		t.Error("Reset should clear recorded calls")
	}
}

func TestMockProvider_FailOn(t *testing.T) {
	m := NewMockProvider()
	m.FailOn = map[string]bool{"bad": true}

	if _, err := m.Translate(context.Background(), TranslateRequest{Texts: []string{"ok", "bad"}}); err == nil {
		t.Error("Expected failure for batch containing a FailOn text")
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{Type: TypeMock}, false},
		{Config{Type: TypeOpenAI, APIKey: "k"}, false},
		{Config{Type: "", APIKey: "k"}, false},
		{Config{Type: TypeOpenAI}, true},
		{Config{Type: TypeGemini}, true},
		{Config{Type: TypeGemini, APIKey: "k"}, false},
		{Config{Type: "deepl"}, true},
	}

	for _, tt := range tests {
		p, err := New(ctx, tt.cfg)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%+v) error = %v, wantErr %v", tt.cfg, err, tt.wantErr)
		}
		if err == nil && p == nil {
			t.Errorf("New(%+v) returned nil provider", tt.cfg)
		}
	}
}
