package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ZaguanLabs/transcache"
)

const defaultTemperature = 0.3

// buildSystemPrompt returns the instructions shared by every LLM provider.
func buildSystemPrompt(req TranslateRequest) string {
	targetName := transcache.GetLanguageName(req.TargetLang)

	sourceLine := "Detect the source language of each text."
	if req.SourceLang != "" && req.SourceLang != transcache.AutoDetect {
		sourceLine = fmt.Sprintf("The source language is %s.", transcache.GetLanguageName(req.SourceLang))
	}

	return fmt.Sprintf(`# Role
You are an expert native translator. You translate content to %s with the fluency and nuance of a highly educated native speaker.

# Task
%s Translate each provided text into idiomatic %s.

# Style Guide
- **Natural Flow**: Avoid literal translations. Rephrase sentences to sound completely natural to a native speaker.
- **HTML/Code Safety**: Do NOT translate HTML tags, attributes, URLs, email addresses, or content inside backticks.
- **Interpolation**: Do NOT translate variables or placeholders (e.g., {{name}}, {count}, %%s, $1).
- **Formatting**: Preserve meaningful whitespace (leading/trailing spaces, newlines).
- **Already translated**: Return a text unchanged if it is already in %s.

# Format
Return a valid JSON object with a single key "translations" containing an array of strings in the exact same order as the input.
Example: { "translations": ["translated string 1", "translated string 2"] }
- Return exactly one string per input text.
- Do NOT wrap in Markdown code blocks.`, targetName, sourceLine, targetName, targetName)
}

// buildUserMessage encodes the batch as a JSON array.
func buildUserMessage(req TranslateRequest) string {
	data, _ := json.Marshal(req.Texts)
	return string(data)
}

// parseResponse extracts the translations array from a model reply.
func parseResponse(provider, content string, expectedCount int) ([]string, error) {
	content = stripCodeFence(content)

	// Try parsing as object first
	var objResult map[string]interface{}
	if err := json.Unmarshal([]byte(content), &objResult); err == nil {
		if translations, ok := objResult["translations"]; ok {
			if arr, ok := translations.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}

		// Fallback: find first array value
		for _, v := range objResult {
			if arr, ok := v.([]interface{}); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	// Try parsing as direct array
	var arrResult []interface{}
	if err := json.Unmarshal([]byte(content), &arrResult); err == nil {
		return toStringSlice(arrResult, expectedCount)
	}

	return nil, &transcache.ProviderError{
		Message:   fmt.Sprintf("invalid response format from %s", provider),
		Retryable: false,
	}
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}

func toStringSlice(arr []interface{}, expectedCount int) ([]string, error) {
	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprintf("%v", v)
		}
	}

	if len(result) != expectedCount {
		return nil, &transcache.CountMismatchError{
			Expected: expectedCount,
			Got:      len(result),
		}
	}

	return result, nil
}

func isRetryableError(err error) bool {
	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"rate limit",
		"timeout",
		"connection refused",
		"temporary",
		"resource_exhausted",
		"503",
		"502",
		"429",
	}

	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
