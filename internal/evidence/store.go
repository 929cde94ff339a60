package evidence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/specdex/specdex/internal/document"
)

const (
	collectionName     = "chunks"
	hierarchySeparator = " > "
)

// Store indexes chunks in an in-process chromem-go collection and keeps
// side maps for ordered per-document and per-contribution listing, which
// the vector index cannot answer on its own.
type Store struct {
	db   *chromem.DB
	coll *chromem.Collection

	mu             sync.RWMutex
	byDoc          map[string][]document.Chunk
	byContribution map[string][]document.Chunk
}

// NewStore creates an empty in-memory store. The embedding function is
// used by chromem to embed search queries; chunks arrive pre-embedded.
func NewStore(embed chromem.EmbeddingFunc) (*Store, error) {
	db := chromem.NewDB()
	coll, err := db.CreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Store{
		db:             db,
		coll:           coll,
		byDoc:          make(map[string][]document.Chunk),
		byContribution: make(map[string][]document.Chunk),
	}, nil
}

// Add indexes a batch of chunks. Every chunk must carry its embedding;
// the pipeline publishes a document only after all embeddings succeeded,
// so a nil embedding here is a programming error.
func (s *Store) Add(ctx context.Context, chunks []document.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %s has no embedding", c.ID)
		}
		docs = append(docs, chromem.Document{
			ID:        c.ID,
			Content:   c.Content,
			Metadata:  metadataMap(c),
			Embedding: c.Embedding,
		})
	}

	if err := s.coll.AddDocuments(ctx, docs, 1); err != nil {
		return fmt.Errorf("index chunks: %w", err)
	}

	s.mu.Lock()
	for _, c := range chunks {
		s.byDoc[c.Metadata.DocumentID] = append(s.byDoc[c.Metadata.DocumentID], c)
		if c.Metadata.ContributionNumber != "" {
			s.byContribution[c.Metadata.ContributionNumber] = append(s.byContribution[c.Metadata.ContributionNumber], c)
		}
	}
	s.mu.Unlock()

	return nil
}

// Search runs semantic retrieval with metadata filtering. The meeting
// in-list filter is applied after the vector query because the index only
// supports equality matching, so the query over-fetches to compensate.
func (s *Store) Search(ctx context.Context, query string, topK int, filters Filters) ([]document.Evidence, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("search query is empty")
	}
	if topK <= 0 {
		topK = 10
	}

	where := map[string]string{}
	if filters.DocumentID != "" {
		where["document_id"] = filters.DocumentID
	}
	if filters.ContributionNumber != "" {
		where["contribution_number"] = filters.ContributionNumber
	}
	if filters.ClauseNumber != "" {
		where["clause_number"] = filters.ClauseNumber
	}
	if len(filters.MeetingIDs) == 0 && filters.MeetingID != "" {
		where["meeting_id"] = filters.MeetingID
	}
	if len(where) == 0 {
		where = nil
	}

	fetch := topK
	if len(filters.MeetingIDs) > 0 {
		fetch = topK * 4
	}
	if count := s.coll.Count(); fetch > count {
		fetch = count
	}
	if fetch == 0 {
		return nil, nil
	}

	results, err := s.coll.Query(ctx, query, fetch, where, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}

	allowed := map[string]bool{}
	for _, id := range filters.MeetingIDs {
		allowed[id] = true
	}

	out := make([]document.Evidence, 0, len(results))
	for _, r := range results {
		meta := metadataFromMap(r.Metadata)
		if len(allowed) > 0 && !allowed[meta.MeetingID] {
			continue
		}
		distance := float64(1 - r.Similarity)
		out = append(out, document.Evidence{
			Content:        r.Content,
			Metadata:       meta,
			RelevanceScore: ScoreFromDistance(distance),
		})
	}

	out = Dedupe(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

// GetByDocument lists a document's chunks in the order they were indexed.
func (s *Store) GetByDocument(ctx context.Context, documentID string, topK int) ([]document.Evidence, error) {
	s.mu.RLock()
	chunks := s.byDoc[documentID]
	s.mu.RUnlock()
	return positional(chunks, topK), nil
}

// GetByContribution lists all chunks sharing one contribution number.
func (s *Store) GetByContribution(ctx context.Context, contributionNumber string, topK int) ([]document.Evidence, error) {
	s.mu.RLock()
	chunks := s.byContribution[contributionNumber]
	s.mu.RUnlock()
	return positional(chunks, topK), nil
}

// Delete removes every chunk of one document from the index and the side
// maps. Deleting an unknown document is a no-op.
func (s *Store) Delete(ctx context.Context, documentID string) error {
	s.mu.Lock()
	chunks := s.byDoc[documentID]
	delete(s.byDoc, documentID)
	for _, c := range chunks {
		num := c.Metadata.ContributionNumber
		if num == "" {
			continue
		}
		kept := s.byContribution[num][:0]
		for _, cc := range s.byContribution[num] {
			if cc.Metadata.DocumentID != documentID {
				kept = append(kept, cc)
			}
		}
		if len(kept) == 0 {
			delete(s.byContribution, num)
		} else {
			s.byContribution[num] = kept
		}
	}
	s.mu.Unlock()

	if len(chunks) == 0 {
		return nil
	}
	if err := s.coll.Delete(ctx, map[string]string{"document_id": documentID}, nil); err != nil {
		return fmt.Errorf("delete document %s: %w", documentID, err)
	}
	return nil
}

// ChunkCount reports how many chunks one document has indexed.
func (s *Store) ChunkCount(documentID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byDoc[documentID])
}

func positional(chunks []document.Chunk, topK int) []document.Evidence {
	if topK > 0 && topK < len(chunks) {
		chunks = chunks[:topK]
	}
	if len(chunks) == 0 {
		return nil
	}
	out := make([]document.Evidence, len(chunks))
	for i, c := range chunks {
		out[i] = document.Evidence{
			Content:        c.Content,
			Metadata:       c.Metadata,
			RelevanceScore: PositionalScore(i, len(chunks)),
		}
	}
	return out
}

// metadataMap flattens chunk metadata for the index, which only stores
// string values. Empty fields are omitted so equality filters never match
// on "".
func metadataMap(c document.Chunk) map[string]string {
	m := map[string]string{
		"document_id":    c.Metadata.DocumentID,
		"structure_type": string(c.Metadata.StructureType),
	}
	if c.Metadata.ContributionNumber != "" {
		m["contribution_number"] = c.Metadata.ContributionNumber
	}
	if c.Metadata.MeetingID != "" {
		m["meeting_id"] = c.Metadata.MeetingID
	}
	if c.Metadata.ClauseNumber != "" {
		m["clause_number"] = c.Metadata.ClauseNumber
	}
	if c.Metadata.ClauseTitle != "" {
		m["clause_title"] = c.Metadata.ClauseTitle
	}
	if c.Metadata.PageNumber > 0 {
		m["page_number"] = strconv.Itoa(c.Metadata.PageNumber)
	}
	if len(c.Metadata.HeadingHierarchy) > 0 {
		m["heading_hierarchy"] = strings.Join(c.Metadata.HeadingHierarchy, hierarchySeparator)
	}
	return m
}

func metadataFromMap(m map[string]string) document.ChunkMetadata {
	meta := document.ChunkMetadata{
		DocumentID:         m["document_id"],
		ContributionNumber: m["contribution_number"],
		MeetingID:          m["meeting_id"],
		ClauseNumber:       m["clause_number"],
		ClauseTitle:        m["clause_title"],
		StructureType:      document.StructureType(m["structure_type"]),
	}
	if v := m["page_number"]; v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			meta.PageNumber = n
		}
	}
	if v := m["heading_hierarchy"]; v != "" {
		meta.HeadingHierarchy = strings.Split(v, hierarchySeparator)
	}
	return meta
}
