package loader

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/docsage/docsage/internal/domain"
)

// Load extracts per-page text from an uploaded document. PDFs are read page
// by page; everything else is treated as plain text on a single page.
// Pages that yield no text come back with empty Text so the chunker can
// decide whether the whole document needs OCR.
func Load(source string, data []byte) ([]domain.RawDocument, error) {
	switch strings.ToLower(filepath.Ext(source)) {
	case ".pdf":
		return loadPDF(source, data)
	default:
		return []domain.RawDocument{{Source: source, Page: 1, Text: string(data)}}, nil
	}
}

func loadPDF(source string, data []byte) ([]domain.RawDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", source, err)
	}

	numPages := reader.NumPage()
	pages := make([]domain.RawDocument, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, domain.RawDocument{Source: source, Page: i})
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Broken content streams are common in scanned PDFs; an empty
			// page lets the OCR escalation handle it.
			pages = append(pages, domain.RawDocument{Source: source, Page: i})
			continue
		}

		pages = append(pages, domain.RawDocument{Source: source, Page: i, Text: text})
	}

	return pages, nil
}
