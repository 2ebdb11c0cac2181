package generation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/domain"
)

const (
	// chunkThresholdTokens is the estimated size above which a context is
	// processed in chunks with a second reduction pass.
	chunkThresholdTokens = 15000
	// passagesPerChunk is the map-phase group size.
	passagesPerChunk = 10
	// maxMemoryTurns bounds how much conversation history enters a prompt.
	maxMemoryTurns = 5
)

// UnavailableMessage is returned by every operation when no completion
// backend is configured.
const UnavailableMessage = "The language model backend is not configured, so generated answers are unavailable. Document search and retrieval still work."

// Service generates answers, summaries and question sets over retrieved
// passages. The completion backend may be nil; generation then degrades to
// a fixed advisory message instead of failing.
type Service struct {
	completer Completer
	logger    *zap.Logger
}

// New creates a generation service.
func New(completer Completer, logger *zap.Logger) *Service {
	return &Service{completer: completer, logger: logger}
}

// Answer generates an HTML answer to a question over the given passages.
func (s *Service) Answer(
	ctx context.Context, question string, passages []domain.Passage,
	memory []domain.Turn, language string,
) (string, error) {
	if s.completer == nil {
		return UnavailableMessage, nil
	}

	lang := resolveLanguage(language, passages)
	prompt := answerPrompt(lang, joinPassages(passages), domain.FormatHistory(memory, maxMemoryTurns), question)

	out, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return cleanHTMLAnswer(out), nil
}

// Summarize produces a plain-text summary. Oversized contexts are summarized
// per chunk and then reduced in a second pass.
func (s *Service) Summarize(ctx context.Context, passages []domain.Passage, language string) (string, error) {
	if s.completer == nil {
		return UnavailableMessage, nil
	}

	lang := resolveLanguage(language, passages)

	// Part numbering only makes sense with several parts; a single group,
	// even over the size threshold, gets the standard prompt.
	if domain.TotalTokens(passages) <= chunkThresholdTokens || len(passages) <= passagesPerChunk {
		out, err := s.completer.Complete(ctx, summaryPrompt(lang, joinPassages(passages)))
		if err != nil {
			return "", fmt.Errorf("generate summary: %w", err)
		}
		return cleanText(out), nil
	}

	groups := groupPassages(passages, passagesPerChunk)
	s.logger.Info("Context exceeds single-pass limit, summarizing in chunks",
		zap.Int("passages", len(passages)), zap.Int("chunks", len(groups)))

	partials := make([]string, 0, len(groups))
	for i, group := range groups {
		out, err := s.completer.Complete(ctx, partSummaryPrompt(lang, joinPassages(group), i+1, len(groups)))
		if err != nil {
			return "", fmt.Errorf("summarize part %d of %d: %w", i+1, len(groups), err)
		}
		partials = append(partials, cleanText(out))
	}

	if len(partials) == 1 {
		return partials[0], nil
	}

	out, err := s.completer.Complete(ctx, reduceSummaryPrompt(lang, strings.Join(partials, "\n\n")))
	if err != nil {
		return "", fmt.Errorf("reduce summaries: %w", err)
	}
	return cleanText(out), nil
}

// ExtractQuestions asks the model for a question set over the passages.
// Oversized contexts are processed per chunk, deduplicating first-seen.
func (s *Service) ExtractQuestions(
	ctx context.Context, passages []domain.Passage, language string,
) (QuestionResult, error) {
	if s.completer == nil {
		return QuestionResult{Raw: UnavailableMessage}, nil
	}

	lang := resolveLanguage(language, passages)

	if domain.TotalTokens(passages) <= chunkThresholdTokens || len(passages) <= passagesPerChunk {
		out, err := s.completer.Complete(ctx, questionsPrompt(lang, joinPassages(passages)))
		if err != nil {
			return QuestionResult{}, fmt.Errorf("generate questions: %w", err)
		}
		return parseQuestions(out), nil
	}

	groups := groupPassages(passages, passagesPerChunk)
	s.logger.Info("Context exceeds single-pass limit, extracting questions in chunks",
		zap.Int("passages", len(passages)), zap.Int("chunks", len(groups)))

	results := make([]QuestionResult, 0, len(groups))
	for i, group := range groups {
		out, err := s.completer.Complete(ctx, partQuestionsPrompt(lang, joinPassages(group), i+1, len(groups)))
		if err != nil {
			return QuestionResult{}, fmt.Errorf("questions part %d of %d: %w", i+1, len(groups), err)
		}
		results = append(results, parseQuestions(out))
	}

	return mergeQuestionResults(results), nil
}

// AnswerMulti generates an HTML answer over a fused multi-document context.
func (s *Service) AnswerMulti(
	ctx context.Context, question, fusedContext string, labels []string,
	memory []domain.Turn, language string,
) (string, error) {
	if s.completer == nil {
		return UnavailableMessage, nil
	}

	lang := resolveLanguage(language, []domain.Passage{{Content: fusedContext}})
	prompt := multiDocPrompt(lang, labels, fusedContext, domain.FormatHistory(memory, maxMemoryTurns), question)

	out, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate multi-document answer: %w", err)
	}
	return cleanHTMLAnswer(out), nil
}

func joinPassages(passages []domain.Passage) string {
	texts := make([]string, 0, len(passages))
	for _, p := range passages {
		if p.Content == "" {
			continue
		}
		texts = append(texts, p.Content)
	}
	return strings.Join(texts, "\n\n")
}

func groupPassages(passages []domain.Passage, size int) [][]domain.Passage {
	var groups [][]domain.Passage
	for start := 0; start < len(passages); start += size {
		end := min(start+size, len(passages))
		groups = append(groups, passages[start:end])
	}
	return groups
}
