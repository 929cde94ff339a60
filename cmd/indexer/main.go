package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/specdex/specdex/internal/chunker"
	"github.com/specdex/specdex/internal/config"
	"github.com/specdex/specdex/internal/embedder"
	"github.com/specdex/specdex/internal/evidence"
	"github.com/specdex/specdex/internal/pipeline"
	"github.com/specdex/specdex/internal/structure"
)

// Offline bulk loader: chunks and embeds every supported document under a
// directory, then writes the resulting index as a snapshot the server can
// load at startup via SNAPSHOT_PATH.
func main() {
	var (
		dir         = flag.String("dir", "", "directory of contribution documents to index")
		meetingID   = flag.String("meeting", "", "meeting identifier stamped on every chunk")
		out         = flag.String("out", "index.ndjson", "snapshot output path")
		concurrency = flag.Int("concurrency", 4, "documents processed in parallel")
		maxTokens   = flag.Int("max-tokens", 0, "chunk budget in tokens (0 = configured default)")
	)
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	if *dir == "" {
		log.Error("-dir is required")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if cfg.OpenAIAPIKey == "" {
		log.Error("OPENAI_API_KEY is required")
		os.Exit(1)
	}
	if *maxTokens <= 0 {
		*maxTokens = cfg.MaxTokens
	}

	docs, err := collectDocs(*dir, *meetingID)
	if err != nil {
		log.Error("failed to scan directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		log.Error("no supported documents found", "dir", *dir)
		os.Exit(1)
	}
	log.Info("indexing corpus", "dir", *dir, "documents", len(docs))

	emb, err := embedder.NewOpenAI(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	if err != nil {
		log.Error("failed to create embedder", "error", err)
		os.Exit(1)
	}
	store, err := evidence.NewStore(emb.Embed)
	if err != nil {
		log.Error("failed to create evidence store", "error", err)
		os.Exit(1)
	}
	strategy, err := chunker.ForMethod("heading", chunker.Config{
		MaxTokens:            *maxTokens,
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		log.Error("failed to create chunker", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	results := pipeline.ChunkBatch(ctx, strategy, emb, store, docs, *concurrency, log)

	failed := printResults(docs, results)

	f, err := os.Create(*out)
	if err != nil {
		log.Error("failed to create snapshot", "path", *out, "error", err)
		os.Exit(1)
	}
	n, err := store.Export(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Error("failed to write snapshot", "path", *out, "error", err)
		os.Exit(1)
	}
	log.Info("snapshot written", "path", *out, "chunks", n, "failed_documents", failed)

	if failed > 0 {
		os.Exit(1)
	}
}

// collectDocs walks the directory and turns every supported file into a
// batch entry. The document ID is derived from file content so reruns are
// stable; the contribution number is the filename stem.
func collectDocs(dir, meetingID string) ([]pipeline.Doc, error) {
	var docs []pipeline.Doc
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !structure.IsSupportedExtension(path) {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		name := filepath.Base(path)
		docs = append(docs, pipeline.Doc{
			Path:               path,
			DocumentID:         pipeline.ContentHashHex(data)[:16],
			ContributionNumber: strings.TrimSuffix(name, filepath.Ext(name)),
			MeetingID:          meetingID,
		})
		return nil
	})
	return docs, err
}

func printResults(docs []pipeline.Doc, results map[string]pipeline.Result) int {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	failed := 0
	for _, d := range docs {
		r := results[d.DocumentID]
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stdout, "FAIL  %s  %v\n", d.Path, r.Err)
			continue
		}
		fmt.Fprintf(os.Stdout, "OK    %s  chunks=%d\n", d.Path, r.Chunks)
	}
	return failed
}
