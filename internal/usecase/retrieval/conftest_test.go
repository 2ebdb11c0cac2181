package retrieval

import (
	"context"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/domain"
	"github.com/docsage/docsage/internal/metrics"
)

func init() {
	metrics.RegisterGenerationMetrics()
}

type mockIndex struct {
	searchFn func(ctx context.Context, collection string, vector []float32, topK int) ([]domain.ScoredPassage, error)
	scrollFn func(ctx context.Context, collection, cursor string, limit int) ([]domain.Passage, string, error)
}

func (m *mockIndex) Search(
	ctx context.Context, collection string, vector []float32, topK int,
) ([]domain.ScoredPassage, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, collection, vector, topK)
	}
	return nil, nil
}

func (m *mockIndex) Scroll(
	ctx context.Context, collection, cursor string, limit int,
) ([]domain.Passage, string, error) {
	if m.scrollFn != nil {
		return m.scrollFn(ctx, collection, cursor, limit)
	}
	return nil, "", nil
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.embedFn != nil {
		return m.embedFn(ctx, text)
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2}}, nil
}

func newTestService(t *testing.T, opts Options) (*Service, *mockIndex, *mockEmbedder) {
	t.Helper()
	idx := &mockIndex{}
	emb := &mockEmbedder{}
	return New(idx, emb, opts, zap.NewNop()), idx, emb
}

// scoredPassages builds n passages of chars characters each, descending score.
func scoredPassages(n, chars int) []domain.ScoredPassage {
	out := make([]domain.ScoredPassage, n)
	for i := range out {
		text := make([]byte, chars)
		for j := range text {
			text[j] = 'a'
		}
		out[i] = domain.ScoredPassage{
			Passage: domain.Passage{
				Content:  string(text),
				Metadata: map[string]string{domain.MetaPage: strconv.Itoa(n - i)},
			},
			Score: 0.9 - float64(i)*0.01,
		}
	}
	return out
}
