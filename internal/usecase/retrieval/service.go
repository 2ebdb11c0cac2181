package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/domain"
	"github.com/docsage/docsage/internal/metrics"
)

// Default retrieval parameters.
const (
	DefaultTopK                = 20
	DefaultSimilarityThreshold = 0.2
	DefaultMaxTokens           = 10000
	DefaultScanLimit           = 30
	DefaultScrollPageSize      = 10
)

// Options tune the retrieval algorithm.
type Options struct {
	// TopK is how many candidates the ranked search asks for.
	TopK int
	// SimilarityThreshold is the minimum top score; below it the ranked
	// results are considered noise and a full scan runs instead.
	SimilarityThreshold float64
	// MaxTokens is the estimated token budget for the returned passages.
	MaxTokens int
	// ScanLimit caps how many passages the fallback scan collects.
	ScanLimit int
	// ScrollPageSize is the page size used by the fallback scan.
	ScrollPageSize int
}

// ApplyDefaults fills zero values with defaults.
func (o *Options) ApplyDefaults() {
	if o.TopK <= 0 {
		o.TopK = DefaultTopK
	}
	if o.SimilarityThreshold <= 0 {
		o.SimilarityThreshold = DefaultSimilarityThreshold
	}
	if o.MaxTokens <= 0 {
		o.MaxTokens = DefaultMaxTokens
	}
	if o.ScanLimit <= 0 {
		o.ScanLimit = DefaultScanLimit
	}
	if o.ScrollPageSize <= 0 {
		o.ScrollPageSize = DefaultScrollPageSize
	}
}

// Service retrieves the passages most relevant to a query, within a token
// budget, falling back to a bounded full scan when similarity search finds
// nothing convincing.
type Service struct {
	index  Index
	embed  Embedder
	opts   Options
	logger *zap.Logger
}

// New creates a retrieval service.
func New(index Index, embed Embedder, opts Options, logger *zap.Logger) *Service {
	opts.ApplyDefaults()
	return &Service{index: index, embed: embed, opts: opts, logger: logger}
}

// Retrieve embeds the query, runs a ranked search, and falls back to a
// capped full scan when the best score is below the similarity threshold.
// Selected passages fit the token budget as whole units and come back
// sorted by ascending page number. Returns domain.ErrNoRelevantPassages
// when nothing usable is found.
func (s *Service) Retrieve(ctx context.Context, collection, query string) ([]domain.Passage, error) {
	return s.RetrieveWithBudget(ctx, collection, query, s.opts.MaxTokens)
}

// RetrieveWithBudget is Retrieve with an explicit token budget, used by
// multi-document fusion to hand each document its own sub-budget.
func (s *Service) RetrieveWithBudget(
	ctx context.Context, collection, query string, maxTokens int,
) ([]domain.Passage, error) {
	if maxTokens <= 0 {
		maxTokens = s.opts.MaxTokens
	}
	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	scored, err := s.index.Search(ctx, collection, embResult.Embedding, s.opts.TopK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	var candidates []domain.Passage
	if len(scored) == 0 || scored[0].Score < s.opts.SimilarityThreshold {
		topScore := 0.0
		if len(scored) > 0 {
			topScore = scored[0].Score
		}
		s.logger.Info("Top similarity below threshold, scanning collection",
			zap.String("collection", collection),
			zap.Float64("top_score", topScore),
			zap.Float64("threshold", s.opts.SimilarityThreshold),
		)
		metrics.RetrievalFallbackTotal.Inc()

		candidates, err = s.scanAll(ctx, collection)
		if err != nil {
			return nil, err
		}
	} else {
		candidates = make([]domain.Passage, 0, len(scored))
		for _, sp := range scored {
			candidates = append(candidates, sp.Passage)
		}
	}

	selected := selectWithinBudget(candidates, maxTokens)
	if len(selected) == 0 {
		return nil, domain.ErrNoRelevantPassages
	}

	domain.SortByPage(selected)
	return selected, nil
}

// Scan collects passages from the collection without a query, up to the
// scan limit, in ascending page order. Used by summarization and question
// extraction, which work over the document itself rather than a match set.
func (s *Service) Scan(ctx context.Context, collection string) ([]domain.Passage, error) {
	collected, err := s.scanAll(ctx, collection)
	if err != nil {
		return nil, err
	}

	passages := make([]domain.Passage, 0, len(collected))
	for _, p := range collected {
		if p.Content == "" {
			continue
		}
		passages = append(passages, p)
	}
	if len(passages) == 0 {
		return nil, domain.ErrNoRelevantPassages
	}

	domain.SortByPage(passages)
	return passages, nil
}

// scanAll pages through the collection up to the scan limit.
func (s *Service) scanAll(ctx context.Context, collection string) ([]domain.Passage, error) {
	var collected []domain.Passage
	cursor := ""

	for len(collected) < s.opts.ScanLimit {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}

		page, next, err := s.index.Scroll(ctx, collection, cursor, s.opts.ScrollPageSize)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}

		collected = append(collected, page...)
		if next == "" {
			break
		}
		cursor = next
	}

	if len(collected) > s.opts.ScanLimit {
		collected = collected[:s.opts.ScanLimit]
	}
	return collected, nil
}

// selectWithinBudget takes candidates in order until the next whole passage
// no longer fits the budget. Passages are never truncated and empty ones
// are skipped without consuming budget.
func selectWithinBudget(candidates []domain.Passage, maxTokens int) []domain.Passage {
	var selected []domain.Passage
	used := 0

	for _, p := range candidates {
		if p.Content == "" {
			continue
		}
		t := p.Tokens()
		if used+t > maxTokens {
			break
		}
		selected = append(selected, p)
		used += t
	}

	return selected
}
