package extract

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Document is the raw text pulled out of one input file.
type Document struct {
	// Text is the extracted plain text, whitespace-sanitized
	Text string

	// PageCount is set for paginated formats (PDF), zero otherwise
	PageCount int
}

// Extractor defines the interface for pulling text out of one file format
type Extractor interface {
	// Extract reads the file and returns its plain text
	Extract(path string) (*Document, error)

	// Extensions lists the file extensions this extractor handles
	Extensions() []string
}

// Registry maps file extensions to extractors
type Registry struct {
	byExt map[string]Extractor
}

// NewRegistry creates a registry with the default extractors: PDF,
// HTML and plain text.
func NewRegistry() *Registry {
	r := &Registry{byExt: make(map[string]Extractor)}
	r.Register(NewPDFExtractor())
	r.Register(NewHTMLExtractor())
	r.Register(NewTextExtractor())
	return r
}

// Register adds an extractor for its declared extensions
func (r *Registry) Register(e Extractor) {
	for _, ext := range e.Extensions() {
		r.byExt[ext] = e
	}
}

// Supported reports whether the file's extension has an extractor
func (r *Registry) Supported(path string) bool {
	_, ok := r.byExt[normalizeExt(path)]
	return ok
}

// Extract dispatches to the extractor for the file's extension
func (r *Registry) Extract(path string) (*Document, error) {
	e, ok := r.byExt[normalizeExt(path)]
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	return e.Extract(path)
}

func normalizeExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
