package transcache

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// AutoDetect is the source code asking the provider to detect the language.
const AutoDetect = "auto"

// ProviderLanguageOverrides maps generic target codes (lower-case) to the
// codes the translation provider expects. Codes not listed pass through.
var ProviderLanguageOverrides = map[string]string{
	"zh":    "zh-CN",
	"zh-cn": "zh-CN",
	"zh-tw": "zh-TW",
	"he":    "iw",
}

// ProviderLanguage returns the provider code for a caller's target code.
// Cache keys never use the result; they keep the caller's code.
func ProviderLanguage(target string) string {
	if mapped, ok := ProviderLanguageOverrides[strings.ToLower(target)]; ok {
		return mapped
	}
	return target
}

// LanguageNames maps provider codes to human-readable names for prompts.
// Codes missing here are still valid; prompts then use the code itself.
var LanguageNames = map[string]string{
	"af":    "Afrikaans",
	"am":    "Amharic",
	"ar":    "Arabic",
	"bg":    "Bulgarian",
	"bn":    "Bengali",
	"ca":    "Catalan",
	"cs":    "Czech",
	"da":    "Danish",
	"de":    "German",
	"el":    "Greek",
	"en":    "English",
	"es":    "Spanish",
	"et":    "Estonian",
	"fa":    "Persian",
	"fi":    "Finnish",
	"fr":    "French",
	"gu":    "Gujarati",
	"ha":    "Hausa",
	"hi":    "Hindi",
	"hr":    "Croatian",
	"ht":    "Haitian Creole",
	"hu":    "Hungarian",
	"hy":    "Armenian",
	"id":    "Indonesian",
	"it":    "Italian",
	"iw":    "Hebrew",
	"ja":    "Japanese",
	"km":    "Khmer",
	"ko":    "Korean",
	"lo":    "Lao",
	"lt":    "Lithuanian",
	"lv":    "Latvian",
	"ms":    "Malay",
	"my":    "Burmese",
	"ne":    "Nepali",
	"nl":    "Dutch",
	"no":    "Norwegian",
	"pa":    "Punjabi",
	"pl":    "Polish",
	"ps":    "Pashto",
	"pt":    "Portuguese",
	"ro":    "Romanian",
	"ru":    "Russian",
	"sk":    "Slovak",
	"sl":    "Slovenian",
	"so":    "Somali",
	"sq":    "Albanian",
	"sr":    "Serbian",
	"sv":    "Swedish",
	"sw":    "Swahili",
	"ta":    "Tamil",
	"te":    "Telugu",
	"th":    "Thai",
	"tl":    "Filipino",
	"tr":    "Turkish",
	"uk":    "Ukrainian",
	"ur":    "Urdu",
	"uz":    "Uzbek",
	"vi":    "Vietnamese",
	"yo":    "Yoruba",
	"zh-CN": "Chinese (Simplified)",
	"zh-TW": "Chinese (Traditional)",
	"zu":    "Zulu",
}

var languageIndex = func() map[string]string {
	idx := make(map[string]string, len(LanguageNames))
	for code := range LanguageNames {
		idx[strings.ToLower(code)] = code
	}
	return idx
}()

// RTLLanguages contains base language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"iw": true, // Hebrew (legacy code)
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
	"ug": true, // Uyghur
}

// GetLanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func GetLanguageName(code string) string {
	if canonical, ok := languageIndex[strings.ToLower(ProviderLanguage(code))]; ok {
		return LanguageNames[canonical]
	}
	return code
}

// ValidateLanguagePair checks that source and target are well-formed BCP 47
// codes. The source may be AutoDetect; the target may not. Well-formed codes
// unknown to the language registry are accepted and left to the provider.
func ValidateLanguagePair(source, target string) error {
	if source != AutoDetect && !isLanguageCode(source) {
		return fmt.Errorf("%w: source %q", ErrUnsupportedLanguage, source)
	}
	if target == AutoDetect || !isLanguageCode(target) {
		return fmt.Errorf("%w: target %q", ErrUnsupportedLanguage, target)
	}
	return nil
}

func isLanguageCode(code string) bool {
	if code == "" {
		return false
	}
	_, err := language.Parse(code)
	if err == nil {
		return true
	}
	var unknown language.ValueError
	return errors.As(err, &unknown)
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(code string) string {
	base := strings.ToLower(code)
	if i := strings.IndexAny(base, "-_"); i >= 0 {
		base = base[:i]
	}

	if RTLLanguages[base] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(code string) bool {
	return GetDirection(code) == "rtl"
}

// ToHTMLLang converts a language code to HTML lang attribute format (e.g., "zh_TW" → "zh-TW").
func ToHTMLLang(code string) string {
	return strings.ReplaceAll(code, "_", "-")
}
