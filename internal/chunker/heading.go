package chunker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specdex/specdex/internal/document"
	"github.com/specdex/specdex/internal/structure"
)

// elementSeparator joins element contents inside one chunk.
const elementSeparator = "\n\n"

// HeadingChunker is the default strategy: one chunk per heading-delimited
// section when it fits the budget, greedy element packing when it does not,
// and sentence-level splitting for single elements that alone exceed the
// budget. Section metadata (clause number, clause title, heading hierarchy)
// is identical on every chunk cut from the same section.
type HeadingChunker struct {
	cfg Config
}

func NewHeadingChunker(cfg Config) *HeadingChunker {
	return &HeadingChunker{cfg: cfg.withDefaults()}
}

func (h *HeadingChunker) EstimateTokenCount(text string) int {
	return EstimateTokenCount(text)
}

// ChunkDocument runs extraction, section grouping, and per-section splitting
// over the file at path. Zero extractable elements is a valid empty result,
// not an error. A document that cannot be parsed fails loudly with no
// partial chunk list.
func (h *HeadingChunker) ChunkDocument(ctx context.Context, path, documentID, contributionNumber, meetingID string) ([]document.Chunk, error) {
	extractor, err := structure.ForFile(path, structure.Options{
		PDFFallbackPdftotext: h.cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	doc, err := extractor.Extract(f, filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("extract structure: %w", err)
	}

	var chunks []document.Chunk
	for _, section := range structure.GroupBySections(doc.Elements) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		chunks = append(chunks, h.ChunksFromSection(section, documentID, contributionNumber, meetingID)...)
	}
	return chunks, nil
}

// ChunksFromSection splits one section into chunks under the character
// budget. A section led by a heading donates its clause number, its text as
// clause title, and itself as the last entry of the heading hierarchy; a
// heading-only section still yields one chunk.
func (h *HeadingChunker) ChunksFromSection(section structure.Section, documentID, contributionNumber, meetingID string) []document.Chunk {
	if len(section) == 0 {
		return nil
	}

	first := section[0]
	meta := document.ChunkMetadata{
		DocumentID:         documentID,
		ContributionNumber: contributionNumber,
		MeetingID:          meetingID,
	}
	if first.IsHeading() {
		meta.ClauseNumber = first.ClauseNumber
		meta.ClauseTitle = first.Content
		meta.HeadingHierarchy = append(append([]string{}, first.ParentHeadings...), first.Content)
	} else {
		meta.HeadingHierarchy = append([]string{}, first.ParentHeadings...)
	}
	if first.Page > 0 {
		meta.PageNumber = first.Page
	}

	maxChars := h.cfg.MaxChars()

	// Whole section in one chunk when it fits.
	full := joinElements(section)
	if len(full) <= maxChars {
		m := meta
		if first.IsHeading() {
			m.StructureType = first.Type
		} else {
			m.StructureType = majorityType(section)
		}
		return []document.Chunk{newChunk(full, m)}
	}

	// Greedy packing: accumulate elements while they fit, flush when the
	// next one would overflow, and split any element that alone exceeds
	// the budget.
	var out []document.Chunk
	var buf structure.Section
	bufLen := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		m := meta
		if len(buf) == 1 {
			m.StructureType = buf[0].Type
		} else {
			m.StructureType = document.TypeParagraph
		}
		out = append(out, newChunk(joinElements(buf), m))
		buf = nil
		bufLen = 0
	}

	for _, elem := range section {
		n := len(elem.Content)
		if n > maxChars {
			flush()
			for _, piece := range splitOversized(elem.Content, maxChars) {
				m := meta
				m.StructureType = elem.Type
				out = append(out, newChunk(piece, m))
			}
			continue
		}
		sep := 0
		if len(buf) > 0 {
			sep = len(elementSeparator)
		}
		if bufLen+sep+n > maxChars {
			flush()
			sep = 0
		}
		buf = append(buf, elem)
		bufLen += sep + n
	}
	flush()

	return out
}

// splitOversized breaks a single element's text at sentence-like boundaries
// and greedily repacks the pieces under the budget. The literal ". " rule
// mishandles abbreviations and decimal numbers; that behavior is kept
// deliberately so chunk boundaries stay stable across reindexing. A lone
// sentence longer than the budget is emitted whole rather than cut mid-text.
func splitOversized(text string, maxChars int) []string {
	lines := strings.Split(strings.ReplaceAll(text, ". ", ".\n"), "\n")

	var pieces []string
	var buf []string
	bufLen := 0

	flush := func() {
		if len(buf) == 0 {
			return
		}
		pieces = append(pieces, strings.Join(buf, "\n"))
		buf = nil
		bufLen = 0
	}

	for _, line := range lines {
		if line == "" {
			continue
		}
		sep := 0
		if len(buf) > 0 {
			sep = 1
		}
		if bufLen+sep+len(line) > maxChars {
			flush()
			sep = 0
		}
		buf = append(buf, line)
		bufLen += sep + len(line)
	}
	flush()

	return pieces
}

// majorityType picks the most frequent element type in the section. Ties go
// to the type encountered first, which keeps the choice deterministic.
func majorityType(section structure.Section) document.StructureType {
	counts := make(map[document.StructureType]int, 4)
	var order []document.StructureType
	for _, e := range section {
		if counts[e.Type] == 0 {
			order = append(order, e.Type)
		}
		counts[e.Type]++
	}
	best := order[0]
	for _, t := range order[1:] {
		if counts[t] > counts[best] {
			best = t
		}
	}
	return best
}

func joinElements(section structure.Section) string {
	parts := make([]string, len(section))
	for i, e := range section {
		parts[i] = e.Content
	}
	return strings.Join(parts, elementSeparator)
}

func newChunk(content string, meta document.ChunkMetadata) document.Chunk {
	return document.Chunk{
		ID:         document.NewID(),
		Content:    content,
		Metadata:   meta,
		TokenCount: EstimateTokenCount(content),
	}
}
