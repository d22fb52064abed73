package extract

import (
	"fmt"
	"os"
	"strings"
)

// TextExtractor reads plain text files as-is
type TextExtractor struct{}

// NewTextExtractor creates a new plain text extractor
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extensions lists the file extensions this extractor handles
func (e *TextExtractor) Extensions() []string {
	return []string{".txt", ".md"}
}

// Extract reads the file contents
func (e *TextExtractor) Extract(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}
	return &Document{Text: text}, nil
}
