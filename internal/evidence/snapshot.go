package evidence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/specdex/specdex/internal/document"
)

// snapshotChunk is the on-disk form of an indexed chunk. Unlike the API
// representation it carries the embedding, so importing never calls the
// embedding provider.
type snapshotChunk struct {
	ID         string                 `json:"id"`
	Content    string                 `json:"content"`
	Metadata   document.ChunkMetadata `json:"metadata"`
	Embedding  []float32              `json:"embedding"`
	TokenCount int                    `json:"token_count"`
}

// Export writes every indexed chunk as line-delimited JSON. Chunk order
// within a document is preserved; document order is not significant.
func (s *Store) Export(w io.Writer) (int, error) {
	s.mu.RLock()
	var chunks []document.Chunk
	for _, docChunks := range s.byDoc {
		chunks = append(chunks, docChunks...)
	}
	s.mu.RUnlock()

	enc := json.NewEncoder(w)
	for _, c := range chunks {
		sc := snapshotChunk{
			ID:         c.ID,
			Content:    c.Content,
			Metadata:   c.Metadata,
			Embedding:  c.Embedding,
			TokenCount: c.TokenCount,
		}
		if err := enc.Encode(sc); err != nil {
			return 0, fmt.Errorf("encode chunk %s: %w", c.ID, err)
		}
	}
	return len(chunks), nil
}

// Import reads a snapshot produced by Export and indexes its chunks.
func (s *Store) Import(ctx context.Context, r io.Reader) (int, error) {
	dec := json.NewDecoder(r)
	var chunks []document.Chunk
	for {
		var sc snapshotChunk
		if err := dec.Decode(&sc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, fmt.Errorf("decode snapshot: %w", err)
		}
		chunks = append(chunks, document.Chunk{
			ID:         sc.ID,
			Content:    sc.Content,
			Metadata:   sc.Metadata,
			Embedding:  sc.Embedding,
			TokenCount: sc.TokenCount,
		})
	}
	if len(chunks) == 0 {
		return 0, nil
	}
	if err := s.Add(ctx, chunks); err != nil {
		return 0, err
	}
	return len(chunks), nil
}
