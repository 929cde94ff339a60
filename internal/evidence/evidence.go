package evidence

import (
	"context"

	"github.com/specdex/specdex/internal/document"
)

// Filters narrow a search or lookup by chunk metadata. Zero values mean
// "no constraint". MeetingID and MeetingIDs are mutually exclusive; when
// both are set, MeetingIDs wins.
type Filters struct {
	MeetingID          string
	MeetingIDs         []string
	ContributionNumber string
	DocumentID         string
	ClauseNumber       string
}

// Provider answers retrieval questions over the indexed chunk corpus.
type Provider interface {
	// Search runs semantic retrieval for the query, applies the filters,
	// deduplicates by content, and returns at most topK results ordered
	// by descending relevance score.
	Search(ctx context.Context, query string, topK int, filters Filters) ([]document.Evidence, error)

	// GetByDocument returns one document's chunks in insertion order
	// with positional relevance scores. topK <= 0 returns all of them.
	GetByDocument(ctx context.Context, documentID string, topK int) ([]document.Evidence, error)

	// GetByContribution is GetByDocument keyed by contribution number,
	// which may span several uploaded revisions of the same paper.
	GetByContribution(ctx context.Context, contributionNumber string, topK int) ([]document.Evidence, error)
}
