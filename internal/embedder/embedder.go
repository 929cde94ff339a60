package embedder

import "context"

// Embedder turns chunk text into a vector. Implementations must return
// L2-normalized vectors so cosine math downstream stays cheap.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
	ModelInfo() string
}
