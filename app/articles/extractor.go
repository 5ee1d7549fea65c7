package articles

import (
	"fmt"
	"log/slog"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// Article text beyond this adds nothing to a short-post prompt
const maxExtractedRunes = 4000

// Extractor pulls readable plain text out of an article page for use as
// generation context
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(strings.NewReader(string(data)), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := collapseWhitespace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	runes := []rune(text)
	if len(runes) > maxExtractedRunes {
		text = string(runes[:maxExtractedRunes])
	}

	slog.Debug("Content extracted successfully",
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}

func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
