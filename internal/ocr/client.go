package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/docsage/docsage/internal/domain"
)

const defaultTimeout = 2 * time.Minute

// Config holds OCR sidecar connection parameters.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls an OCR sidecar service over HTTP. The sidecar accepts a
// multipart file upload on /ocr and returns per-page recognized text.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates an OCR client. Returns nil when no base URL is configured,
// which disables the OCR escalation path.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

type ocrResponse struct {
	Pages []struct {
		Page int    `json:"page"`
		Text string `json:"text"`
	} `json:"pages"`
}

// ExtractText uploads the document and returns the recognized pages.
func (c *Client) ExtractText(ctx context.Context, data []byte, filename string) ([]domain.RawDocument, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ocr", &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("ocr service returned %d: %s", resp.StatusCode, msg)
	}

	var parsed ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}

	pages := make([]domain.RawDocument, 0, len(parsed.Pages))
	for _, p := range parsed.Pages {
		pages = append(pages, domain.RawDocument{Source: filename, Page: p.Page, Text: p.Text})
	}
	return pages, nil
}
