package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/specdex/specdex/internal/api"
	"github.com/specdex/specdex/internal/chunker"
	"github.com/specdex/specdex/internal/config"
	"github.com/specdex/specdex/internal/embedder"
	"github.com/specdex/specdex/internal/evidence"
	"github.com/specdex/specdex/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	if cfg.SnapshotPath != "" {
		if err := loadSnapshot(ctx, store, cfg.SnapshotPath, log); err != nil {
			log.Error("failed to load index snapshot", "path", cfg.SnapshotPath, "error", err)
			os.Exit(1)
		}
	}

	strategy, err := chunker.ForMethod("heading", chunker.Config{
		MaxTokens:            cfg.MaxTokens,
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	})
	if err != nil {
		log.Error("failed to create chunker", "error", err)
		os.Exit(1)
	}

	orch := pipeline.NewOrchestrator(cfg, strategy, emb, store, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, store, emb, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting specdex", "port", cfg.Port, "embedding_model", cfg.EmbeddingModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// loadSnapshot imports a pre-built index produced by cmd/indexer. A
// missing file is not an error so the same configuration works before the
// first batch run.
func loadSnapshot(ctx context.Context, store *evidence.Store, path string, log *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("index snapshot not found, starting empty", "path", path)
			return nil
		}
		return err
	}
	defer f.Close()

	n, err := store.Import(ctx, f)
	if err != nil {
		return err
	}
	log.Info("loaded index snapshot", "path", path, "chunks", n)
	return nil
}
