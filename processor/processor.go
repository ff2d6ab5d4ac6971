// Package processor extracts translatable text from structured content and
// writes translations back into it.
package processor

// ContentTypeHTML identifies HTML content in errors and logs.
const ContentTypeHTML = "html"

// NoTranslateAttr marks an element whose subtree is left untranslated.
const NoTranslateAttr = "data-no-translate"

// IgnoredTags contains HTML tags whose content should not be translated.
var IgnoredTags = map[string]bool{
	"script":   true,
	"style":    true,
	"code":     true,
	"pre":      true,
	"textarea": true,
	"noscript": true,
	"svg":      true,
	"math":     true,
	"template": true,
}
