package chi

import (
	"context"

	"github.com/docsage/docsage/internal/domain"
	"github.com/docsage/docsage/internal/usecase/fusion"
	"github.com/docsage/docsage/internal/usecase/generation"
	"github.com/docsage/docsage/internal/usecase/health"
	"github.com/docsage/docsage/internal/usecase/ingest"
)

// Ingestor indexes an uploaded document.
type Ingestor interface {
	Process(ctx context.Context, source string, pages []domain.RawDocument) (ingest.Receipt, error)
}

// Retriever finds relevant passages in a collection.
type Retriever interface {
	Retrieve(ctx context.Context, collection, query string) ([]domain.Passage, error)
	Scan(ctx context.Context, collection string) ([]domain.Passage, error)
}

// Fuser combines passages from several documents into one context.
type Fuser interface {
	Fuse(ctx context.Context, refs []fusion.DocumentRef, query string) (fusion.FusedContext, error)
}

// Generator produces answers, summaries and question sets.
type Generator interface {
	Answer(ctx context.Context, question string, passages []domain.Passage,
		memory []domain.Turn, language string) (string, error)
	Summarize(ctx context.Context, passages []domain.Passage, language string) (string, error)
	ExtractQuestions(ctx context.Context, passages []domain.Passage, language string) (generation.QuestionResult, error)
	AnswerMulti(ctx context.Context, question, fusedContext string, labels []string,
		memory []domain.Turn, language string) (string, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}
