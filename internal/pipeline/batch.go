package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/specdex/specdex/internal/chunker"
	"github.com/specdex/specdex/internal/embedder"
)

// Doc identifies one on-disk document in a batch run.
type Doc struct {
	Path               string
	DocumentID         string
	ContributionNumber string
	MeetingID          string
}

// Result reports the outcome for one document of a batch.
type Result struct {
	Chunks int
	Err    error
}

// ChunkBatch processes several documents concurrently, keyed by document
// ID in the returned map. A failure in one document never aborts the
// others; callers inspect per-document results.
func ChunkBatch(ctx context.Context, strategy chunker.Strategy, emb embedder.Embedder, sink ChunkSink, docs []Doc, maxConcurrent int, log *slog.Logger) map[string]Result {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	results := make(map[string]Result, len(docs))
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrent)

	for _, d := range docs {
		wg.Add(1)
		sem <- struct{}{}
		go func(d Doc) {
			defer wg.Done()
			defer func() { <-sem }()

			n, err := processOne(ctx, strategy, emb, sink, d, log)
			mu.Lock()
			results[d.DocumentID] = Result{Chunks: n, Err: err}
			mu.Unlock()
		}(d)
	}
	wg.Wait()

	return results
}

func processOne(ctx context.Context, strategy chunker.Strategy, emb embedder.Embedder, sink ChunkSink, d Doc, log *slog.Logger) (int, error) {
	chunks, err := strategy.ChunkDocument(ctx, d.Path, d.DocumentID, d.ContributionNumber, d.MeetingID)
	if err != nil {
		return 0, fmt.Errorf("chunk %s: %w", d.Path, err)
	}
	if len(chunks) == 0 {
		log.Warn("no extractable content", "path", d.Path)
		return 0, nil
	}
	if err := embedChunks(ctx, emb, chunks, 1, nil, log.With("doc_id", d.DocumentID)); err != nil {
		return 0, fmt.Errorf("embed %s: %w", d.Path, err)
	}
	if err := sink.Add(ctx, chunks); err != nil {
		return 0, fmt.Errorf("index %s: %w", d.Path, err)
	}
	return len(chunks), nil
}
