package structure

import "testing"

func TestForFilePDFFallbackOption(t *testing.T) {
	ex, err := ForFile("contrib.pdf", Options{PDFFallbackPdftotext: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, ok := ex.(*PDFExtractor)
	if !ok {
		t.Fatalf("expected PDFExtractor, got %T", ex)
	}
	if !p.FallbackPdftotext {
		t.Error("expected pdftotext fallback enabled")
	}

	ex, err = ForFile("contrib.pdf", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ex.(*PDFExtractor).FallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
}

func TestForFileUnsupportedExtension(t *testing.T) {
	if _, err := ForFile("contrib.xyz", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
