package extract

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// HTMLExtractor extracts visible text from HTML files
type HTMLExtractor struct{}

// NewHTMLExtractor creates a new HTML extractor
func NewHTMLExtractor() *HTMLExtractor {
	return &HTMLExtractor{}
}

// Extensions lists the file extensions this extractor handles
func (e *HTMLExtractor) Extensions() []string {
	return []string{".html", ".htm"}
}

// Extract parses the file and returns its visible text
func (e *HTMLExtractor) Extract(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open html: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	text := strings.TrimSpace(visibleText(doc))
	if text == "" {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}
	return &Document{Text: text}, nil
}

// visibleText collects text nodes, skipping scripts/styles. Block
// elements contribute line breaks so the segmenter sees headings on
// their own lines.
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr":
				buf.WriteString("\n")
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}
