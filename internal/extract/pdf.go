package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor extracts plain text from PDF files
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extensions lists the file extensions this extractor handles
func (e *PDFExtractor) Extensions() []string {
	return []string{".pdf"}
}

// Extract reads the whole PDF as plain text
func (e *PDFExtractor) Extract(path string) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	buf := new(strings.Builder)
	if _, err := io.Copy(buf, reader); err != nil {
		return nil, fmt.Errorf("read extracted text: %w", err)
	}

	text := strings.TrimSpace(buf.String())
	if text == "" {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}

	return &Document{
		Text:      text,
		PageCount: r.NumPage(),
	}, nil
}
