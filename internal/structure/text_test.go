package structure

import (
	"strings"
	"testing"

	"github.com/specdex/specdex/internal/document"
)

func TestTextExtractorParagraphs(t *testing.T) {
	input := "First paragraph line one.\nStill first paragraph.\n\nSecond paragraph.\n\n\nThird paragraph."

	e := &TextExtractor{}
	doc, err := e.Extract(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(doc.Elements) != 3 {
		t.Fatalf("expected 3 paragraphs, got %d", len(doc.Elements))
	}
	if doc.Elements[0].Content != "First paragraph line one.\nStill first paragraph." {
		t.Errorf("unexpected first paragraph: %q", doc.Elements[0].Content)
	}
	for i, el := range doc.Elements {
		if el.Type != document.TypeParagraph {
			t.Errorf("element %d: expected paragraph type, got %q", i, el.Type)
		}
		if el.IsHeading() {
			t.Errorf("element %d: plain text must not produce headings", i)
		}
	}
}

func TestTextExtractorClauseNumbers(t *testing.T) {
	input := "5.2.1 Handover shall be initiated by the network.\n\nNo clause here."

	e := &TextExtractor{}
	doc, err := e.Extract(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Elements) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(doc.Elements))
	}
	if doc.Elements[0].ClauseNumber != "5.2.1" {
		t.Errorf("expected clause number 5.2.1, got %q", doc.Elements[0].ClauseNumber)
	}
	if doc.Elements[1].ClauseNumber != "" {
		t.Errorf("expected no clause number, got %q", doc.Elements[1].ClauseNumber)
	}
}

func TestTextExtractorEmptyInput(t *testing.T) {
	e := &TextExtractor{}
	doc, err := e.Extract(strings.NewReader("   \n\n  \n"), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Elements) != 0 {
		t.Errorf("expected no elements for whitespace input, got %d", len(doc.Elements))
	}
}
