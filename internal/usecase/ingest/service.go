package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/domain"
)

// Receipt reports what a processed document produced.
type Receipt struct {
	Collection     string
	PointsInserted int
	TokensUsed     int
}

// Service runs the ingestion pipeline: chunk, embed, ensure the collection
// exists, upsert points. No internal retries; hard failures propagate.
type Service struct {
	chunker Chunker
	embed   Embedder
	index   Index
	logger  *zap.Logger
}

// New creates an ingest service.
func New(chunker Chunker, embed Embedder, index Index, logger *zap.Logger) *Service {
	return &Service{chunker: chunker, embed: embed, index: index, logger: logger}
}

// Process indexes one document's extracted pages into its own collection.
// A document with no usable text (even after OCR) produces an empty receipt,
// not an error.
func (s *Service) Process(ctx context.Context, source string, pages []domain.RawDocument) (Receipt, error) {
	collection := domain.CollectionNameFor(source)

	chunks, err := s.chunker.Chunk(ctx, source, pages)
	if err != nil {
		return Receipt{}, fmt.Errorf("chunk %s: %w", source, err)
	}
	if len(chunks) == 0 {
		s.logger.Warn("Document yielded no chunks", zap.String("source", source))
		return Receipt{Collection: collection}, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	batch, err := s.embed.BatchEmbed(ctx, texts)
	if err != nil {
		return Receipt{}, fmt.Errorf("embed %d chunks of %s: %w", len(chunks), source, err)
	}
	if len(batch.Embeddings) != len(chunks) {
		return Receipt{}, fmt.Errorf("embedded %d of %d chunks of %s: %w",
			len(batch.Embeddings), len(chunks), source, domain.ErrEmbeddingProviderError)
	}

	// Dimension comes from the data itself, so a model swap surfaces as
	// ErrVectorDimMismatch instead of corrupting the index.
	dim := len(batch.Embeddings[0])
	if err := s.index.EnsureCollection(ctx, collection, dim); err != nil {
		return Receipt{}, fmt.Errorf("ensure collection %s: %w", collection, err)
	}

	points := make([]domain.Point, len(chunks))
	for i, c := range chunks {
		points[i] = domain.Point{
			ID:     uuid.NewString(),
			Vector: batch.Embeddings[i],
			Payload: domain.Passage{
				Content:  c.Text,
				Metadata: c.Metadata,
			},
		}
	}

	if err := s.index.Upsert(ctx, collection, points); err != nil {
		return Receipt{}, fmt.Errorf("upsert %d points into %s: %w", len(points), collection, err)
	}

	s.logger.Info("Document indexed",
		zap.String("source", source),
		zap.String("collection", collection),
		zap.Int("points", len(points)),
		zap.Int("tokens", batch.TotalTokens),
	)

	return Receipt{
		Collection:     collection,
		PointsInserted: len(points),
		TokensUsed:     batch.TotalTokens,
	}, nil
}
