package chunker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specdex/specdex/internal/document"
	"github.com/specdex/specdex/internal/structure"
)

func heading(level int, text string, parents ...string) document.StructureElement {
	return document.StructureElement{
		Content:        text,
		Type:           document.HeadingType(level),
		HeadingLevel:   level,
		ClauseNumber:   structure.ClauseNumber(text),
		ParentHeadings: parents,
	}
}

func para(text string, parents ...string) document.StructureElement {
	return document.StructureElement{
		Content:        text,
		Type:           document.TypeParagraph,
		HeadingLevel:   -1,
		ParentHeadings: parents,
	}
}

func TestChunksFromSectionWholeSectionFits(t *testing.T) {
	section := structure.Section{
		heading(2, "5.2 Handover", "5 Procedures"),
		para("The handover shall be initiated.", "5 Procedures", "5.2 Handover"),
	}

	c := NewHeadingChunker(DefaultConfig())
	chunks := c.ChunksFromSection(section, "doc-1", "R1-2501234", "RAN1#120")

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	ch := chunks[0]
	if !strings.Contains(ch.Content, "5.2 Handover") || !strings.Contains(ch.Content, "shall be initiated") {
		t.Errorf("expected chunk to contain heading and body, got %q", ch.Content)
	}
	if ch.Metadata.ClauseNumber != "5.2" {
		t.Errorf("expected clause 5.2, got %q", ch.Metadata.ClauseNumber)
	}
	if ch.Metadata.ClauseTitle != "5.2 Handover" {
		t.Errorf("expected clause title from heading, got %q", ch.Metadata.ClauseTitle)
	}
	wantHier := []string{"5 Procedures", "5.2 Handover"}
	if len(ch.Metadata.HeadingHierarchy) != len(wantHier) {
		t.Fatalf("expected hierarchy %v, got %v", wantHier, ch.Metadata.HeadingHierarchy)
	}
	if ch.Metadata.StructureType != document.TypeHeading2 {
		t.Errorf("expected heading2 type for whole-section chunk, got %q", ch.Metadata.StructureType)
	}
	if ch.Metadata.DocumentID != "doc-1" || ch.Metadata.ContributionNumber != "R1-2501234" || ch.Metadata.MeetingID != "RAN1#120" {
		t.Errorf("identity metadata not propagated: %+v", ch.Metadata)
	}
}

func TestChunksFromSectionSharedMetadataAcrossSplits(t *testing.T) {
	// Budget of 10 tokens = 40 chars forces element-level packing.
	section := structure.Section{
		heading(1, "3 Analysis"),
		para("First observation paragraph text."),
		para("Second observation paragraph text."),
		para("Third observation paragraph text."),
	}

	c := NewHeadingChunker(Config{MaxTokens: 10})
	chunks := c.ChunksFromSection(section, "doc-1", "R1-1", "")

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks under tight budget, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if ch.Metadata.ClauseNumber != "3" {
			t.Errorf("chunk %d: expected clause 3, got %q", i, ch.Metadata.ClauseNumber)
		}
		if ch.Metadata.ClauseTitle != "3 Analysis" {
			t.Errorf("chunk %d: expected clause title 3 Analysis, got %q", i, ch.Metadata.ClauseTitle)
		}
		if len(ch.Metadata.HeadingHierarchy) != 1 || ch.Metadata.HeadingHierarchy[0] != "3 Analysis" {
			t.Errorf("chunk %d: expected hierarchy [3 Analysis], got %v", i, ch.Metadata.HeadingHierarchy)
		}
	}
}

func TestChunksFromSectionBudgetRespected(t *testing.T) {
	var section structure.Section
	section = append(section, heading(1, "4 Discussion"))
	for i := 0; i < 20; i++ {
		section = append(section, para("A proposal sentence of modest size."))
	}

	cfg := Config{MaxTokens: 25} // 100 chars
	c := NewHeadingChunker(cfg)
	chunks := c.ChunksFromSection(section, "d", "n", "")

	for i, ch := range chunks {
		if len(ch.Content) > cfg.MaxChars() {
			t.Errorf("chunk %d: %d chars exceeds budget %d", i, len(ch.Content), cfg.MaxChars())
		}
	}
}

func TestChunksFromSectionOrderPreserved(t *testing.T) {
	section := structure.Section{
		heading(1, "2 Background"),
		para("alpha content block"),
		para("bravo content block"),
		para("charlie content block"),
	}

	c := NewHeadingChunker(Config{MaxTokens: 12})
	chunks := c.ChunksFromSection(section, "d", "n", "")

	var joined strings.Builder
	for _, ch := range chunks {
		joined.WriteString(ch.Content)
		joined.WriteString("\n")
	}
	text := joined.String()
	posA := strings.Index(text, "alpha")
	posB := strings.Index(text, "bravo")
	posC := strings.Index(text, "charlie")
	if posA < 0 || posB < 0 || posC < 0 {
		t.Fatalf("missing content in chunks: %q", text)
	}
	if !(posA < posB && posB < posC) {
		t.Errorf("element order not preserved: alpha=%d bravo=%d charlie=%d", posA, posB, posC)
	}
}

func TestChunksFromSectionSingleElementKeepsType(t *testing.T) {
	table := document.StructureElement{
		Content:      "Parameter | Value\nperiodicity | 20ms",
		Type:         document.TypeTable,
		HeadingLevel: -1,
	}
	section := structure.Section{
		heading(1, "6 Parameters"),
		para(strings.Repeat("padding text. ", 10)),
		table,
	}

	// Budget sized so the table lands in its own chunk.
	c := NewHeadingChunker(Config{MaxTokens: 40})
	chunks := c.ChunksFromSection(section, "d", "n", "")

	var tableChunk *document.Chunk
	for i := range chunks {
		if strings.Contains(chunks[i].Content, "periodicity") && !strings.Contains(chunks[i].Content, "padding") {
			tableChunk = &chunks[i]
		}
	}
	if tableChunk == nil {
		t.Fatal("expected the table to land in its own chunk")
	}
	if tableChunk.Metadata.StructureType != document.TypeTable {
		t.Errorf("expected table type preserved, got %q", tableChunk.Metadata.StructureType)
	}
}

func TestChunksFromSectionMultiElementFlushIsParagraph(t *testing.T) {
	section := structure.Section{
		heading(1, "7 Mixed"),
		para("one two three four five"),
		document.StructureElement{
			Content:      "- list entry here",
			Type:         document.TypeListItem,
			HeadingLevel: -1,
		},
		para(strings.Repeat("long tail content ", 20)),
	}

	c := NewHeadingChunker(Config{MaxTokens: 20}) // 80 chars
	chunks := c.ChunksFromSection(section, "d", "n", "")

	for _, ch := range chunks {
		if strings.Contains(ch.Content, "7 Mixed") && strings.Contains(ch.Content, "one two") {
			if ch.Metadata.StructureType != document.TypeParagraph {
				t.Errorf("expected multi-element chunk typed paragraph, got %q", ch.Metadata.StructureType)
			}
			return
		}
	}
	t.Fatal("expected a chunk combining heading and first paragraph")
}

func TestChunksFromSectionOversizedElementSentenceSplit(t *testing.T) {
	long := strings.Repeat("This is a sentence about scheduling. ", 30)
	section := structure.Section{
		heading(1, "8 Scheduling"),
		para(strings.TrimSpace(long)),
	}

	cfg := Config{MaxTokens: 30} // 120 chars, far below the element size
	c := NewHeadingChunker(cfg)
	chunks := c.ChunksFromSection(section, "d", "n", "")

	if len(chunks) < 3 {
		t.Fatalf("expected several chunks from oversized element, got %d", len(chunks))
	}
	for i, ch := range chunks {
		if len(ch.Content) > cfg.MaxChars() {
			t.Errorf("chunk %d: %d chars exceeds budget %d", i, len(ch.Content), cfg.MaxChars())
		}
		if ch.Metadata.ClauseNumber != "8" {
			t.Errorf("chunk %d: section metadata lost on split piece", i)
		}
	}
}

func TestSplitOversizedLoneLongLineEmittedWhole(t *testing.T) {
	// No sentence boundaries at all: the line cannot be split further.
	long := strings.Repeat("x", 500)
	pieces := splitOversized(long, 100)
	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece for unbreakable text, got %d", len(pieces))
	}
	if pieces[0] != long {
		t.Error("expected unbreakable text emitted unmodified")
	}
}

func TestSplitOversizedRepacksUnderBudget(t *testing.T) {
	text := "Alpha one. Beta two. Gamma three. Delta four. Epsilon five."
	pieces := splitOversized(text, 25)
	if len(pieces) < 2 {
		t.Fatalf("expected multiple pieces, got %d", len(pieces))
	}
	for i, p := range pieces {
		if len(p) > 25 {
			t.Errorf("piece %d: %d chars exceeds budget", i, len(p))
		}
	}
	joined := strings.Join(pieces, "\n")
	for _, word := range []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"} {
		if !strings.Contains(joined, word) {
			t.Errorf("content %q lost during split", word)
		}
	}
}

func TestChunksFromSectionHeadingOnly(t *testing.T) {
	section := structure.Section{heading(2, "9.1 Void")}

	c := NewHeadingChunker(DefaultConfig())
	chunks := c.ChunksFromSection(section, "d", "n", "")

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk for heading-only section, got %d", len(chunks))
	}
	if chunks[0].Content != "9.1 Void" {
		t.Errorf("unexpected content %q", chunks[0].Content)
	}
	if chunks[0].Metadata.StructureType != document.TypeHeading2 {
		t.Errorf("expected heading2 type, got %q", chunks[0].Metadata.StructureType)
	}
}

func TestChunksFromSectionLeadingContentNoHeading(t *testing.T) {
	section := structure.Section{
		para("Front matter before any heading.", "Doc Title"),
		para("Second front paragraph.", "Doc Title"),
	}

	c := NewHeadingChunker(DefaultConfig())
	chunks := c.ChunksFromSection(section, "d", "n", "")

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	m := chunks[0].Metadata
	if m.ClauseNumber != "" || m.ClauseTitle != "" {
		t.Errorf("expected no clause metadata for heading-less section, got %q/%q", m.ClauseNumber, m.ClauseTitle)
	}
	if len(m.HeadingHierarchy) != 1 || m.HeadingHierarchy[0] != "Doc Title" {
		t.Errorf("expected hierarchy from parents only, got %v", m.HeadingHierarchy)
	}
	if m.StructureType != document.TypeParagraph {
		t.Errorf("expected majority paragraph type, got %q", m.StructureType)
	}
}

func TestMajorityTypeTieBreaksOnFirstSeen(t *testing.T) {
	section := structure.Section{
		para("a"),
		{Content: "t", Type: document.TypeTable, HeadingLevel: -1},
	}
	if got := majorityType(section); got != document.TypeParagraph {
		t.Errorf("expected tie to keep first-seen type paragraph, got %q", got)
	}
}

func TestChunkIDsUnique(t *testing.T) {
	section := structure.Section{
		heading(1, "1 Repeat"),
		para("identical text"),
		para("identical text"),
		para("identical text"),
	}
	c := NewHeadingChunker(Config{MaxTokens: 5})
	chunks := c.ChunksFromSection(section, "d", "n", "")

	seen := map[string]bool{}
	for _, ch := range chunks {
		if seen[ch.ID] {
			t.Fatalf("duplicate chunk ID %q", ch.ID)
		}
		seen[ch.ID] = true
	}
}

func TestChunkDocumentEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contrib.txt")
	content := "Background paragraph before sections.\n\nAnother paragraph with details.\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewHeadingChunker(DefaultConfig())
	chunks, err := c.ChunkDocument(context.Background(), path, "doc-9", "R2-2409876", "RAN2#127")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) == 0 {
		t.Fatal("expected chunks from non-empty document")
	}
	for i, ch := range chunks {
		if ch.Metadata.DocumentID != "doc-9" {
			t.Errorf("chunk %d: wrong document id %q", i, ch.Metadata.DocumentID)
		}
		if ch.Metadata.ContributionNumber != "R2-2409876" {
			t.Errorf("chunk %d: wrong contribution %q", i, ch.Metadata.ContributionNumber)
		}
		if ch.Metadata.MeetingID != "RAN2#127" {
			t.Errorf("chunk %d: wrong meeting %q", i, ch.Metadata.MeetingID)
		}
		if ch.TokenCount != EstimateTokenCount(ch.Content) {
			t.Errorf("chunk %d: token count mismatch", i)
		}
	}
}

func TestChunkDocumentEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(path, []byte("\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewHeadingChunker(DefaultConfig())
	chunks, err := c.ChunkDocument(context.Background(), path, "d", "n", "")
	if err != nil {
		t.Fatalf("empty document must not error: %v", err)
	}
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
}

func TestChunkDocumentUnsupportedExtension(t *testing.T) {
	c := NewHeadingChunker(DefaultConfig())
	if _, err := c.ChunkDocument(context.Background(), "contrib.xyz", "d", "n", ""); err == nil {
		t.Error("expected error for unsupported extension")
	}
}
