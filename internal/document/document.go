package document

// StructureType classifies a structural element or chunk.
type StructureType string

const (
	TypeTitle     StructureType = "title"
	TypeHeading1  StructureType = "heading1"
	TypeHeading2  StructureType = "heading2"
	TypeHeading3  StructureType = "heading3"
	TypeHeading4  StructureType = "heading4"
	TypeHeading5  StructureType = "heading5"
	TypeHeading6  StructureType = "heading6"
	TypeParagraph StructureType = "paragraph"
	TypeListItem  StructureType = "list_item"
	TypeTable     StructureType = "table"
	TypeFigure    StructureType = "figure"
)

var headingTypes = [...]StructureType{
	TypeTitle, TypeHeading1, TypeHeading2, TypeHeading3,
	TypeHeading4, TypeHeading5, TypeHeading6,
}

// HeadingType maps a heading level (0 = title, 1..6) to its StructureType.
func HeadingType(level int) StructureType {
	if level < 0 || level >= len(headingTypes) {
		return TypeParagraph
	}
	return headingTypes[level]
}

// StructureElement is one paragraph- or table-level unit extracted from a
// contribution document, in document order.
type StructureElement struct {
	Content string
	Type    StructureType

	// HeadingLevel is 0 for the document title, 1..6 for headings,
	// and -1 for everything else.
	HeadingLevel int

	// ClauseNumber is the leading clause label ("5.2.1") when the
	// element text starts with one, otherwise empty.
	ClauseNumber string

	// ParentHeadings holds the ancestor heading texts active when this
	// element was encountered, outermost first. For a heading it never
	// includes headings at its own or a deeper level.
	ParentHeadings []string

	// Page is the source page when the extractor knows it (PDF), else 0.
	Page int
}

// IsHeading reports whether the element opens a section.
func (e StructureElement) IsHeading() bool {
	return e.HeadingLevel >= 0
}

// Document is the extractor's view of one parsed contribution: a title (may
// be empty) and the flat, document-ordered element stream.
type Document struct {
	Title    string
	Elements []StructureElement
}

// ChunkMetadata travels with every chunk into the index. Search filtering
// and citation rendering depend on these exact field names.
type ChunkMetadata struct {
	DocumentID         string        `json:"document_id"`
	ContributionNumber string        `json:"contribution_number"`
	MeetingID          string        `json:"meeting_id,omitempty"`
	ClauseNumber       string        `json:"clause_number,omitempty"`
	ClauseTitle        string        `json:"clause_title,omitempty"`
	PageNumber         int           `json:"page_number,omitempty"`
	StructureType      StructureType `json:"structure_type"`
	HeadingHierarchy   []string      `json:"heading_hierarchy"`
}

// Chunk is a bounded-size unit of document text, the unit of retrieval.
// Embedding stays nil until the indexing stage fills it in.
type Chunk struct {
	ID         string        `json:"id"`
	Content    string        `json:"content"`
	Metadata   ChunkMetadata `json:"metadata"`
	Embedding  []float32     `json:"-"`
	TokenCount int           `json:"token_count"`
}

// Evidence is a read-only projection of a chunk plus the relevance score
// the search stage assigned to it.
type Evidence struct {
	Content        string        `json:"content"`
	Metadata       ChunkMetadata `json:"metadata"`
	RelevanceScore float64       `json:"relevance_score"`
}
