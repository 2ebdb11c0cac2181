package retrieval

import (
	"context"

	"github.com/docsage/docsage/internal/domain"
)

// Index defines the vector index contract for retrieval.
type Index interface {
	Search(ctx context.Context, collection string, vector []float32, topK int) ([]domain.ScoredPassage, error)
	Scroll(ctx context.Context, collection, cursor string, limit int) ([]domain.Passage, string, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
