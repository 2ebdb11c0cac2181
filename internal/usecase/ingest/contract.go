package ingest

import (
	"context"

	"github.com/docsage/docsage/internal/domain"
)

// Chunker splits extracted pages into embeddable chunks.
type Chunker interface {
	Chunk(ctx context.Context, source string, pages []domain.RawDocument) ([]domain.Chunk, error)
}

// Embedder vectorizes chunk texts in batches.
type Embedder interface {
	BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error)
}

// Index manages collections and point storage.
type Index interface {
	EnsureCollection(ctx context.Context, name string, vectorDim int) error
	Upsert(ctx context.Context, collection string, points []domain.Point) error
}
