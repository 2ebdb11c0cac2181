package generation

import (
	"sync"

	"github.com/pemistahl/lingua-go"

	"github.com/docsage/docsage/internal/domain"
)

// LanguageAuto asks for language auto-detection from the document content.
const LanguageAuto = "Auto-detect"

const defaultLanguage = "English"

var (
	detectorOnce sync.Once
	detector     lingua.LanguageDetector
)

// languageDetector is built lazily; the lingua models are memory-heavy and
// only needed when a request actually asks for auto-detection.
func languageDetector() lingua.LanguageDetector {
	detectorOnce.Do(func() {
		detector = lingua.NewLanguageDetectorBuilder().
			FromLanguages(lingua.English, lingua.French, lingua.Arabic).
			Build()
	})
	return detector
}

// resolveLanguage picks the response language: an explicit choice wins,
// auto-detection samples the first passage, and anything inconclusive
// falls back to English.
func resolveLanguage(explicit string, passages []domain.Passage) string {
	if explicit != "" && explicit != LanguageAuto {
		return explicit
	}

	if len(passages) == 0 || passages[0].Content == "" {
		return defaultLanguage
	}

	lang, ok := languageDetector().DetectLanguageOf(passages[0].Content)
	if !ok {
		return defaultLanguage
	}

	switch lang {
	case lingua.French:
		return "French"
	case lingua.Arabic:
		return "Arabic"
	default:
		return defaultLanguage
	}
}
