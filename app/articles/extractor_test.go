package articles

import (
	"strings"
	"testing"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head><title>Why shipping beats planning</title></head>
<body>
  <nav>Home | About | Contact</nav>
  <article>
    <h1>Why shipping beats planning</h1>
    <p>Shipping early gives you real feedback from real users, which no amount
    of planning can replace. Teams that ship weekly learn an order of magnitude
    faster than teams that plan quarterly.</p>
    <p>The hardest part is deciding what not to build. Cutting scope feels like
    failure but it is the only reliable way to keep quality high while moving
    quickly.</p>
  </article>
  <footer>Copyright 2024</footer>
</body>
</html>`

func TestExtractorRun(t *testing.T) {
	extractor := NewExtractor()

	text, err := extractor.Run([]byte(sampleHTML))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(text, "real feedback from real users") {
		t.Errorf("Expected article body in extracted text, got: %s", text)
	}
	if strings.Contains(text, "\n") {
		t.Error("Expected whitespace to be collapsed to single spaces")
	}
}

func TestExtractorEmptyInput(t *testing.T) {
	extractor := NewExtractor()

	if _, err := extractor.Run(nil); err == nil {
		t.Error("Expected an error for empty input")
	}
}

func TestExtractorTruncatesLongContent(t *testing.T) {
	extractor := NewExtractor()

	paragraph := "<p>" + strings.Repeat("word ", 3000) + "</p>"
	html := "<html><head><title>Long</title></head><body><article>" + paragraph + "</article></body></html>"

	text, err := extractor.Run([]byte(html))
	if err != nil {
		t.Fatal(err)
	}

	if len([]rune(text)) > maxExtractedRunes {
		t.Errorf("Expected extracted text capped at %d runes, got %d", maxExtractedRunes, len([]rune(text)))
	}
}
