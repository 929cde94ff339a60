package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/specdex/specdex/internal/chunker"
	"github.com/specdex/specdex/internal/document"
	"github.com/specdex/specdex/internal/embedder"
)

// ChunkSink receives fully embedded chunks for indexing.
type ChunkSink interface {
	Add(ctx context.Context, chunks []document.Chunk) error
}

// Worker processes a single document job: chunk, embed, index.
type Worker struct {
	strategy chunker.Strategy
	emb      embedder.Embedder
	sink     ChunkSink
	hashes   *HashIndex
	log      *slog.Logger

	maxConcurrentEmbed int
}

func NewWorker(strategy chunker.Strategy, emb embedder.Embedder, sink ChunkSink, hashes *HashIndex, log *slog.Logger, maxConcurrentEmbed int) *Worker {
	if maxConcurrentEmbed < 1 {
		maxConcurrentEmbed = 1
	}
	return &Worker{
		strategy:           strategy,
		emb:                emb,
		sink:               sink,
		hashes:             hashes,
		log:                log,
		maxConcurrentEmbed: maxConcurrentEmbed,
	}
}

// Process runs the full ingest pipeline for a job. Chunks reach the index
// only when every embedding succeeded, so search never sees a half-indexed
// document.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "doc_id", job.DocID, "contribution", job.ContributionNumber)

	data := job.FileData()
	job.ContentHash = ContentHashHex(data)

	if existingDocID, ok := w.hashes.Seen(job.ContentHash); ok {
		log.Info("duplicate document, skipping", "existing_doc_id", existingDocID)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	// Phase 1: Chunk. The chunker reads from disk, so spill the upload to
	// a temp file keeping the original extension for format detection.
	job.SetStatus(StatusChunking, "chunking")
	path, cleanup, err := spillToTemp(data, job.Filename)
	if err != nil {
		log.Error("temp file failed", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	defer cleanup()

	chunks, err := w.strategy.ChunkDocument(ctx, path, job.DocID, job.ContributionNumber, job.MeetingID)
	if err != nil {
		log.Error("chunking failed", "error", err)
		job.AddError(fmt.Sprintf("chunk: %s", err))
		job.SetStatus(StatusFailed, "chunking")
		return
	}
	job.SetTotalChunks(len(chunks))
	log.Info("chunked document", "chunks", len(chunks))

	if len(chunks) == 0 {
		// An empty but parseable document is not a failure.
		log.Warn("no extractable content")
		w.hashes.Record(job.ContentHash, job.DocID)
		job.SetStatus(StatusCompleted, "done")
		return
	}

	// Phase 2: Embed with bounded concurrency.
	job.SetStatus(StatusEmbedding, "embedding")
	if err := embedChunks(ctx, w.emb, chunks, w.maxConcurrentEmbed, job.IncrChunksEmbedded, log); err != nil {
		log.Error("embedding failed", "error", err)
		job.AddError(fmt.Sprintf("embed: %s", err))
		job.SetStatus(StatusFailed, "embedding")
		return
	}

	// Phase 3: Index.
	job.SetStatus(StatusIndexing, "indexing")
	if err := w.sink.Add(ctx, chunks); err != nil {
		log.Error("indexing failed", "error", err)
		job.AddError(fmt.Sprintf("index: %s", err))
		job.SetStatus(StatusFailed, "indexing")
		return
	}
	job.SetChunksIndexed(len(chunks))

	w.hashes.Record(job.ContentHash, job.DocID)
	log.Info("ingestion complete", "chunks", len(chunks))
	job.SetStatus(StatusCompleted, "done")
}

// embedChunks fills in chunk embeddings in place with bounded concurrency
// and per-chunk retry on transient failures. Any permanent failure aborts
// the whole batch.
func embedChunks(ctx context.Context, emb embedder.Embedder, chunks []document.Chunk, maxConcurrent int, onEmbedded func(), log *slog.Logger) error {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	type result struct {
		idx int
		err error
	}
	results := make(chan result, len(chunks))
	sem := make(chan struct{}, maxConcurrent)

	for i := range chunks {
		sem <- struct{}{}
		go func(i int) {
			defer func() { <-sem }()
			var vec []float32
			var lastErr error
			for attempt := 0; attempt < MaxRetries; attempt++ {
				vec, lastErr = emb.Embed(ctx, chunks[i].Content)
				if lastErr == nil || !IsRetryable(lastErr) {
					break
				}
				log.Warn("retryable embedding error", "chunk", i, "attempt", attempt, "error", lastErr)
				select {
				case <-time.After(Backoff(attempt)):
				case <-ctx.Done():
					results <- result{idx: i, err: ctx.Err()}
					return
				}
			}
			if lastErr != nil {
				results <- result{idx: i, err: lastErr}
				return
			}
			chunks[i].Embedding = vec
			results <- result{idx: i}
		}(i)
	}

	var firstErr error
	for range chunks {
		r := <-results
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("chunk %d: %w", r.idx, r.err)
			}
			continue
		}
		if onEmbedded != nil {
			onEmbedded()
		}
	}
	return firstErr
}

// spillToTemp writes data to a temp file whose name keeps the original
// extension. The returned cleanup removes the file.
func spillToTemp(data []byte, filename string) (string, func(), error) {
	ext := filepath.Ext(filename)
	f, err := os.CreateTemp("", "ingest-*"+ext)
	if err != nil {
		return "", nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", nil, fmt.Errorf("close temp file: %w", err)
	}
	return path, func() { os.Remove(path) }, nil
}
