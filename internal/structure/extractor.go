package structure

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/specdex/specdex/internal/document"
)

// Extractor converts raw document bytes into a flat, document-ordered
// stream of structural elements. The upstream normalisation step guarantees
// contributions arrive in one of these formats; DOCX is the primary one.
type Extractor interface {
	Extract(r io.Reader, filename string) (*document.Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".docx": true,
	".md":   true,
	".txt":  true,
	".csv":  true,
	".html": true,
	".htm":  true,
	".pdf":  true,
}

// Options adjusts extractor construction for formats with more than one
// extraction backend.
type Options struct {
	// PDFFallbackPdftotext shells out to pdftotext when the Go PDF
	// library cannot read a file.
	PDFFallbackPdftotext bool
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string, opts Options) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".docx":
		return &DOCXExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".txt":
		return &TextExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{FallbackPdftotext: opts.PDFFallbackPdftotext}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// titleFromElements is the fallback when a format carries no title
// metadata: the first non-empty Title or Heading1 element.
func titleFromElements(elements []document.StructureElement) string {
	for _, e := range elements {
		if e.HeadingLevel == 0 || e.HeadingLevel == 1 {
			return e.Content
		}
	}
	return ""
}
