package feed

import (
	"strings"
	"testing"
)

func TestExtractContent(t *testing.T) {
	htmlData := `<!DOCTYPE html>
<html>
<head><title>Test Article</title></head>
<body>
  <nav>Navigation links here</nav>
  <article>
    <h1>Test Article</h1>
    <p>This is the first paragraph of the article. It contains enough text to
    look like real body copy and not boilerplate around the edges of the page.</p>
    <p>This is the second paragraph, also reasonably long so the readability
    heuristics treat the article element as the main content of the document.</p>
  </article>
  <footer>Copyright notice and footer links</footer>
</body>
</html>`

	content, err := NewContentExtractor().Run([]byte(htmlData), "https://example.com/article")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if !strings.Contains(content, "first paragraph of the article") {
		t.Error("Expected extracted content to include article body")
	}
}

func TestExtractContentEmptyData(t *testing.T) {
	_, err := NewContentExtractor().Run(nil, "https://example.com/article")
	if err == nil {
		t.Error("Expected error for empty HTML data")
	}
}

func TestExtractContentEmptyURL(t *testing.T) {
	htmlData := `<html><body><article>
    <p>A standalone page fetched without a known source address. The extractor
    still needs to produce the article body even when it cannot resolve
    relative links against a base URL.</p>
    <p>Second paragraph keeping the content block substantial enough for the
    extraction heuristics to pick it as the main content.</p>
  </article></body></html>`

	content, err := NewContentExtractor().Run([]byte(htmlData), "")
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if content == "" {
		t.Error("Expected non-empty extracted content")
	}
}
