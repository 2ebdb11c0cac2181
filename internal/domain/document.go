package domain

import (
	"path/filepath"
	"strings"
)

// KeyPrefix namespaces every docsage key in the vector store.
const KeyPrefix = "docsage:"

// DefaultCollection is used when no source identity can be derived.
const DefaultCollection = "default_collection"

// Metadata keys shared between chunking, indexing and retrieval.
const (
	MetaSource           = "source"
	MetaPage             = "page"
	MetaExtractionMethod = "extraction_method"
)

// Extraction method values recorded in chunk metadata.
const (
	ExtractionText = "text"
	ExtractionOCR  = "ocr"
)

// RawDocument is one unit of extracted document text before chunking,
// typically a single page.
type RawDocument struct {
	Source string
	Page   int
	Text   string
}

// Chunk is a bounded, overlapping slice of document text, the unit of
// embedding and indexing. Immutable once produced.
type Chunk struct {
	Text     string
	Metadata map[string]string
}

// CollectionNameFor derives a deterministic collection name from a document
// source path: base name without extension, sanitized to the identifier
// charset the index layer accepts. Empty input falls back to DefaultCollection.
func CollectionNameFor(source string) string {
	base := filepath.Base(strings.ReplaceAll(source, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))

	var b strings.Builder
	for _, r := range base {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if isAlpha || isDigit || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	name := strings.Trim(b.String(), "_")
	if name == "" {
		return DefaultCollection
	}
	return name
}
