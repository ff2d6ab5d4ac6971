package processor

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ZaguanLabs/transcache"
)

// HTMLProcessor extracts and applies translations to HTML content.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: IgnoredTags,
	}
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// Document is a parsed HTML page with its translatable text nodes.
type Document struct {
	doc   *goquery.Document
	nodes []*html.Node // Every translatable text node, duplicates included
}

// Nodes returns the number of translatable text nodes.
func (d *Document) Nodes() int {
	return len(d.nodes)
}

// Extract parses HTML and returns the document plus its distinct trimmed
// texts in document order.
func (p *HTMLProcessor) Extract(content string) (*Document, []string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &transcache.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: ContentTypeHTML,
		}
	}

	d := &Document{doc: doc}
	var texts []string
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && p.skip(n) {
			return
		}

		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				d.nodes = append(d.nodes, n)
				if !seen[trimmed] {
					seen[trimmed] = true
					texts = append(texts, trimmed)
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}

	return d, texts, nil
}

// Apply writes translations (keyed by trimmed original text) into every
// matching text node and serializes the document. Whitespace around each
// node is preserved.
func (p *HTMLProcessor) Apply(d *Document, translations map[string]string) (string, error) {
	for _, n := range d.nodes {
		trimmed := strings.TrimSpace(n.Data)
		if translated, ok := translations[trimmed]; ok {
			n.Data = preserveWhitespace(n.Data, translated)
		}
	}

	out, err := d.doc.Html()
	if err != nil {
		return "", &transcache.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: ContentTypeHTML,
		}
	}

	return out, nil
}

// SetLanguage sets the lang and dir attributes of the root element.
func (d *Document) SetLanguage(lang string) {
	root := d.doc.Find("html").First()
	root.SetAttr("lang", transcache.ToHTMLLang(lang))
	root.SetAttr("dir", transcache.GetDirection(lang))
}

func (p *HTMLProcessor) skip(n *html.Node) bool {
	if p.ignoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == NoTranslateAttr {
			return true
		}
	}
	return false
}

// HTMLResult is the outcome of TranslateHTML.
type HTMLResult struct {
	HTML            string `json:"html"`
	TotalNodes      int    `json:"total_nodes"`
	CachedCount     int    `json:"cached_count"`
	TranslatedCount int    `json:"translated_count"`
}

// TranslateHTML extracts the page's texts, resolves them through the
// coordinator (cache first, then the provider) and writes them back.
func (p *HTMLProcessor) TranslateHTML(ctx context.Context, c *transcache.Coordinator, content, source, target string) (*HTMLResult, error) {
	d, texts, err := p.Extract(content)
	if err != nil {
		return nil, err
	}

	if len(texts) == 0 {
		return &HTMLResult{HTML: content}, nil
	}

	result, err := c.Translate(ctx, transcache.Batch(texts...), source, target)
	if err != nil {
		return nil, err
	}

	translations := make(map[string]string, len(result.Items))
	for _, item := range result.Items {
		translations[item.Original] = item.Translated
	}

	if target != "" {
		d.SetLanguage(target)
	}

	out, err := p.Apply(d, translations)
	if err != nil {
		return nil, err
	}

	return &HTMLResult{
		HTML:            out,
		TotalNodes:      d.Nodes(),
		CachedCount:     result.CachedCount,
		TranslatedCount: result.TranslatedCount,
	}, nil
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + translated + trailing
}
