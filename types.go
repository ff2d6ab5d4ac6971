package transcache

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Default language codes applied when a request leaves them empty.
const (
	DefaultSourceLang = AutoDetect
	DefaultTargetLang = "en"
)

// Input is the text of one translation request: either a single string or a
// list of strings. The core treats both as a sequence; Single only decides
// the shape of the response.
type Input struct {
	Texts  []string
	Single bool
}

// Single creates an Input holding one string.
func Single(text string) Input {
	return Input{Texts: []string{text}, Single: true}
}

// Batch creates an Input holding a list of strings.
func Batch(texts ...string) Input {
	return Input{Texts: texts}
}

// Empty reports whether the input carries no text at all: an empty list or a
// single empty string. Empty strings inside a non-empty list are valid.
func (in Input) Empty() bool {
	if len(in.Texts) == 0 {
		return true
	}
	return in.Single && in.Texts[0] == ""
}

// UnmarshalJSON accepts either a JSON string or an array of strings.
func (in *Input) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*in = Input{}
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*in = Single(text)
		return nil
	case '[':
		var texts []string
		if err := json.Unmarshal(data, &texts); err != nil {
			return errors.New("text must be a string or a list of strings")
		}
		*in = Batch(texts...)
		return nil
	default:
		return errors.New("text must be a string or a list of strings")
	}
}

// MarshalJSON writes a string for single inputs and an array otherwise.
func (in Input) MarshalJSON() ([]byte, error) {
	if in.Single && len(in.Texts) == 1 {
		return json.Marshal(in.Texts[0])
	}
	if in.Texts == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(in.Texts)
}

// Translation pairs one original text with its resolved translation.
type Translation struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
	Source     string `json:"src"`
}

// Result is the outcome of a translation request. Items has the same length
// and order as the input texts.
type Result struct {
	Items           []Translation
	Single          bool
	CachedCount     int // Items served from the cache
	TranslatedCount int // Items freshly translated by the provider
	FailedCount     int // Items returned untranslated because their batch failed
}

// Translated returns the translated strings in input order.
func (r *Result) Translated() []string {
	out := make([]string, len(r.Items))
	for i, item := range r.Items {
		out[i] = item.Translated
	}
	return out
}

// TranslateRequest contains the parameters for one provider call.
type TranslateRequest struct {
	Texts      []string
	SourceLang string // Caller's source code, possibly "auto"
	TargetLang string // Provider-specific target code
}
