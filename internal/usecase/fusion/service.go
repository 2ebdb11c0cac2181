package fusion

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/domain"
)

// MinDocBudget is the floor for a single document's token sub-budget, so
// one document in a large set still contributes something meaningful.
const MinDocBudget = 1000

// Retriever retrieves budgeted passages for one collection.
type Retriever interface {
	RetrieveWithBudget(ctx context.Context, collection, query string, maxTokens int) ([]domain.Passage, error)
}

// DocumentRef names one document taking part in a multi-document query.
type DocumentRef struct {
	// Label is the human-readable name shown in the fused context.
	Label string
	// Collection is the vector collection holding the document's chunks.
	Collection string
}

// FusedContext is the combined context with the labels of the documents
// that actually contributed.
type FusedContext struct {
	Context string
	Labels  []string
}

// Service builds a single fused context out of several documents, giving
// each document an equal share of the overall token budget.
type Service struct {
	retriever Retriever
	maxTokens int
	logger    *zap.Logger
}

// New creates a fusion service. maxTokens is the overall budget shared
// across all documents of a request.
func New(retriever Retriever, maxTokens int, logger *zap.Logger) *Service {
	return &Service{retriever: retriever, maxTokens: maxTokens, logger: logger}
}

// Fuse retrieves passages from every referenced document and concatenates
// them under per-document headings. A document that fails or yields nothing
// is skipped; the call errors only when no document contributed at all.
func (s *Service) Fuse(ctx context.Context, refs []DocumentRef, query string) (FusedContext, error) {
	if len(refs) == 0 {
		return FusedContext{}, fmt.Errorf("no documents given: %w", domain.ErrNoDocumentsFused)
	}

	budget := s.maxTokens / len(refs)
	if budget < MinDocBudget {
		budget = MinDocBudget
	}

	var sections []string
	var labels []string
	for _, ref := range refs {
		// A cancelled request is not "no documents contributed".
		if err := ctx.Err(); err != nil {
			return FusedContext{}, err
		}

		passages, err := s.retriever.RetrieveWithBudget(ctx, ref.Collection, query, budget)
		if err != nil {
			s.logger.Warn("Document contributed nothing to fused context",
				zap.String("label", ref.Label),
				zap.String("collection", ref.Collection),
				zap.Error(err),
			)
			continue
		}
		if len(passages) == 0 {
			continue
		}

		texts := make([]string, 0, len(passages))
		for _, p := range passages {
			texts = append(texts, p.Content)
		}

		sections = append(sections, fmt.Sprintf("--- From %s ---\n%s", ref.Label, strings.Join(texts, "\n\n")))
		labels = append(labels, ref.Label)
	}

	if len(sections) == 0 {
		return FusedContext{}, domain.ErrNoDocumentsFused
	}

	return FusedContext{Context: strings.Join(sections, "\n\n"), Labels: labels}, nil
}
