package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 3 * time.Minute

// Client calls the docsage HTTP API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the Bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a docsage API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ProcessFile uploads a document and indexes it into its own collection.
func (c *Client) ProcessFile(ctx context.Context, filename string, data []byte) (Receipt, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return Receipt{}, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return Receipt{}, fmt.Errorf("write upload form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Receipt{}, fmt.Errorf("close upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents/process", &buf)
	if err != nil {
		return Receipt{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var receipt Receipt
	if err := c.do(req, &receipt); err != nil {
		return Receipt{}, err
	}
	return receipt, nil
}

// Retrieve returns the passages most relevant to a query.
func (c *Client) Retrieve(ctx context.Context, collection, query string) ([]Passage, error) {
	var resp struct {
		Passages []Passage `json:"passages"`
	}
	err := c.postJSON(ctx, "/retrieve", map[string]string{
		"collection": collection,
		"query":      query,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Passages, nil
}

// Ask generates an answer to a question over one document.
func (c *Client) Ask(ctx context.Context, req AskRequest) (Answer, error) {
	var answer Answer
	if err := c.postJSON(ctx, "/chat/answer", req, &answer); err != nil {
		return Answer{}, err
	}
	return answer, nil
}

// Summary generates a summary of one document.
func (c *Client) Summary(ctx context.Context, collection, language string) (string, error) {
	var resp struct {
		Summary string `json:"summary"`
	}
	err := c.postJSON(ctx, "/chat/summary", map[string]string{
		"collection": collection,
		"language":   language,
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Summary, nil
}

// Questions extracts a question set from one document.
func (c *Client) Questions(ctx context.Context, collection, language string) (QuestionSet, error) {
	var qs QuestionSet
	err := c.postJSON(ctx, "/chat/questions", map[string]string{
		"collection": collection,
		"language":   language,
	}, &qs)
	if err != nil {
		return QuestionSet{}, err
	}
	return qs, nil
}

// AskMulti generates an answer to one question across several documents.
func (c *Client) AskMulti(ctx context.Context, req MultiAskRequest) (MultiAnswer, error) {
	var answer MultiAnswer
	if err := c.postJSON(ctx, "/chat/multi-document", req, &answer); err != nil {
		return MultiAnswer{}, err
	}
	return answer, nil
}

// Health reports service health. A degraded service returns the report and
// no error; only transport failures error.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return Health{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Health{}, fmt.Errorf("call /health: %w", err)
	}
	defer resp.Body.Close()

	var h Health
	if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
		return Health{}, fmt.Errorf("decode health response: %w", err)
	}
	return h, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", req.URL.Path, err)
	}
	return nil
}

func parseAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		apiErr.Message = "unreadable error body"
		return apiErr
	}

	var parsed struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || parsed.Code == "" {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}

	apiErr.Code = parsed.Code
	apiErr.Message = parsed.Message
	return apiErr
}
