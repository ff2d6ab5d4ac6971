package transcache

import (
	"errors"
	"fmt"
	"testing"
)

func TestInputError(t *testing.T) {
	err := &InputError{Message: "invalid request", Cause: ErrNoText}

	if err.Error() != "invalid request: no text provided" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrNoText) {
		t.Error("InputError should unwrap to ErrNoText")
	}
	if !IsInputError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("IsInputError should see through wrapping")
	}
	if IsSetupError(err) {
		t.Error("InputError is not a SetupError")
	}
}

func TestSetupError(t *testing.T) {
	cause := fmt.Errorf("%w: target %q", ErrUnsupportedLanguage, "xx")
	err := &SetupError{Message: "translation service unavailable", Cause: cause}

	if err.Error() != `translation service unavailable: unsupported language: target "xx"` {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !errors.Is(err, ErrUnsupportedLanguage) {
		t.Error("SetupError should unwrap to ErrUnsupportedLanguage")
	}
	if !IsSetupError(err) {
		t.Error("IsSetupError should match")
	}

	// Without cause
	err2 := &SetupError{Message: "simple error"}
	if err2.Error() != "simple error" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
}

func TestProviderError(t *testing.T) {
	err := &ProviderError{Message: "rate limited", Retryable: true}

	if err.Error() != "provider error: rate limited" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
	if !err.Retryable {
		t.Error("error should be retryable")
	}

	cause := errors.New("503")
	err2 := &ProviderError{Message: "API error", Cause: cause}
	if err2.Error() != "provider error: API error: 503" {
		t.Errorf("unexpected error message: %s", err2.Error())
	}
	if !errors.Is(err2, cause) {
		t.Error("Unwrap() should return the cause")
	}
}

func TestCacheError(t *testing.T) {
	err := &CacheError{Message: "connection failed"}

	if err.Error() != "cache error: connection failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestProcessorError(t *testing.T) {
	err := &ProcessorError{Message: "parse failed", ContentType: "html"}

	if err.Error() != "processor error (html): parse failed" {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestCountMismatchError(t *testing.T) {
	err := &CountMismatchError{Expected: 5, Got: 3}

	expected := "translation count mismatch: expected 5, got 3"
	if err.Error() != expected {
		t.Errorf("unexpected error message: %s, want %s", err.Error(), expected)
	}
}
