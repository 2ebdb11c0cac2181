package chunker

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/domain"
)

const (
	DefaultChunkSize = 1000
	// Overlap is 20% of the chunk size so a sentence cut at a boundary
	// still appears whole in one of the two neighboring chunks.
	DefaultChunkOverlap = 200
)

// ObjectStore fetches the original uploaded file, needed when the text
// extraction produced nothing and the document must go through OCR.
type ObjectStore interface {
	Fetch(ctx context.Context, source string) ([]byte, error)
}

// OCR extracts text from scanned documents.
type OCR interface {
	ExtractText(ctx context.Context, data []byte, filename string) ([]domain.RawDocument, error)
}

// Config holds splitting parameters.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
}

func (c *Config) applyDefaults() {
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.ChunkOverlap <= 0 {
		c.ChunkOverlap = DefaultChunkOverlap
	}
}

// Service splits extracted document pages into overlapping chunks ready for
// embedding. When regular extraction yields no text at all it escalates to
// OCR and re-chunks the OCR output.
type Service struct {
	splitter textsplitter.RecursiveCharacter
	objects  ObjectStore
	ocr      OCR
	logger   *zap.Logger
}

// New creates a chunker. objects and ocr may be nil; without them the OCR
// escalation path is skipped.
func New(cfg Config, objects ObjectStore, ocr OCR, logger *zap.Logger) *Service {
	cfg.applyDefaults()

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " ", ""}),
	)

	return &Service{
		splitter: splitter,
		objects:  objects,
		ocr:      ocr,
		logger:   logger,
	}
}

// Chunk splits per-page extracted text into chunks. If the pages carry no
// text at all (a scanned PDF), the source file is fetched and run through
// OCR; chunks produced that way are tagged with extraction_method "ocr".
// An empty result with a nil error means the document has no usable text;
// an unavailable object store or OCR collaborator counts as no text.
func (s *Service) Chunk(ctx context.Context, source string, pages []domain.RawDocument) ([]domain.Chunk, error) {
	if hasContent(pages) {
		return s.chunkPages(source, pages, domain.ExtractionText)
	}

	s.logger.Info("No text extracted, escalating to OCR", zap.String("source", source))

	ocrPages, err := s.runOCR(ctx, source)
	if err != nil {
		// OCR failure is a per-document condition, not a pipeline failure.
		s.logger.Warn("OCR escalation failed, treating document as empty",
			zap.String("source", source), zap.Error(err))
		return nil, nil
	}
	if !hasContent(ocrPages) {
		s.logger.Warn("OCR produced no text", zap.String("source", source))
		return nil, nil
	}

	return s.chunkPages(source, ocrPages, domain.ExtractionOCR)
}

func (s *Service) chunkPages(source string, pages []domain.RawDocument, method string) ([]domain.Chunk, error) {
	var chunks []domain.Chunk

	for _, page := range pages {
		text := strings.TrimSpace(page.Text)
		if text == "" {
			continue
		}

		parts, err := s.splitter.SplitText(text)
		if err != nil {
			return nil, fmt.Errorf("split page %d of %s: %w", page.Page, source, err)
		}

		for _, part := range parts {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			chunks = append(chunks, domain.Chunk{
				Text: part,
				Metadata: map[string]string{
					domain.MetaSource:           source,
					domain.MetaPage:             strconv.Itoa(page.Page),
					domain.MetaExtractionMethod: method,
				},
			})
		}
	}

	return chunks, nil
}

func (s *Service) runOCR(ctx context.Context, source string) ([]domain.RawDocument, error) {
	if s.objects == nil || s.ocr == nil {
		return nil, nil
	}

	data, err := s.objects.Fetch(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("fetch %s for ocr: %w", source, err)
	}

	pages, err := s.ocr.ExtractText(ctx, data, source)
	if err != nil {
		return nil, fmt.Errorf("ocr %s: %w", source, err)
	}
	return pages, nil
}

func hasContent(pages []domain.RawDocument) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}
