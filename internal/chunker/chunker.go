package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/specdex/specdex/internal/document"
)

// Strategy turns one document file into an ordered list of retrieval
// chunks. The pipeline is coded against this interface so alternative
// strategies (fixed-size, semantic) can be dropped in without touching the
// orchestrator.
type Strategy interface {
	ChunkDocument(ctx context.Context, path, documentID, contributionNumber, meetingID string) ([]document.Chunk, error)
	EstimateTokenCount(text string) int
}

// Config controls chunk sizing and extraction backends.
type Config struct {
	MaxTokens     int // Chunk budget in estimated tokens.
	CharsPerToken int // Character-per-token ratio for the estimate.

	// PDFFallbackPdftotext enables the pdftotext fallback for PDFs the
	// Go library cannot read.
	PDFFallbackPdftotext bool
}

// DefaultConfig returns the defaults used across the service.
func DefaultConfig() Config {
	return Config{
		MaxTokens:            1000,
		CharsPerToken:        4,
		PDFFallbackPdftotext: true,
	}
}

func (c Config) withDefaults() Config {
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1000
	}
	if c.CharsPerToken <= 0 {
		c.CharsPerToken = 4
	}
	return c
}

// MaxChars is the chunk budget in characters.
func (c Config) MaxChars() int {
	c = c.withDefaults()
	return c.MaxTokens * c.CharsPerToken
}

// ForMethod returns the strategy registered under the given name.
// "heading" (or empty) is the default.
func ForMethod(method string, cfg Config) (Strategy, error) {
	switch strings.ToLower(method) {
	case "", "heading":
		return NewHeadingChunker(cfg), nil
	default:
		return nil, fmt.Errorf("unknown chunking strategy: %s", method)
	}
}
