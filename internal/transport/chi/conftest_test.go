package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/domain"
	"github.com/docsage/docsage/internal/usecase/fusion"
	"github.com/docsage/docsage/internal/usecase/generation"
	"github.com/docsage/docsage/internal/usecase/health"
	"github.com/docsage/docsage/internal/usecase/ingest"
)

// --- Mocks ---

type mockIngestor struct {
	processFn func(ctx context.Context, source string, pages []domain.RawDocument) (ingest.Receipt, error)
}

func (m *mockIngestor) Process(
	ctx context.Context, source string, pages []domain.RawDocument,
) (ingest.Receipt, error) {
	if m.processFn != nil {
		return m.processFn(ctx, source, pages)
	}
	return ingest.Receipt{}, nil
}

type mockRetriever struct {
	retrieveFn func(ctx context.Context, collection, query string) ([]domain.Passage, error)
	scanFn     func(ctx context.Context, collection string) ([]domain.Passage, error)
}

func (m *mockRetriever) Retrieve(ctx context.Context, collection, query string) ([]domain.Passage, error) {
	if m.retrieveFn != nil {
		return m.retrieveFn(ctx, collection, query)
	}
	return nil, nil
}

func (m *mockRetriever) Scan(ctx context.Context, collection string) ([]domain.Passage, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, collection)
	}
	return nil, nil
}

type mockFuser struct {
	fuseFn func(ctx context.Context, refs []fusion.DocumentRef, query string) (fusion.FusedContext, error)
}

func (m *mockFuser) Fuse(
	ctx context.Context, refs []fusion.DocumentRef, query string,
) (fusion.FusedContext, error) {
	if m.fuseFn != nil {
		return m.fuseFn(ctx, refs, query)
	}
	return fusion.FusedContext{}, nil
}

type mockGenerator struct {
	answerFn      func(ctx context.Context, question string, passages []domain.Passage, memory []domain.Turn, language string) (string, error)
	summarizeFn   func(ctx context.Context, passages []domain.Passage, language string) (string, error)
	questionsFn   func(ctx context.Context, passages []domain.Passage, language string) (generation.QuestionResult, error)
	answerMultiFn func(ctx context.Context, question, fusedContext string, labels []string, memory []domain.Turn, language string) (string, error)
}

func (m *mockGenerator) Answer(
	ctx context.Context, question string, passages []domain.Passage,
	memory []domain.Turn, language string,
) (string, error) {
	if m.answerFn != nil {
		return m.answerFn(ctx, question, passages, memory, language)
	}
	return "", nil
}

func (m *mockGenerator) Summarize(
	ctx context.Context, passages []domain.Passage, language string,
) (string, error) {
	if m.summarizeFn != nil {
		return m.summarizeFn(ctx, passages, language)
	}
	return "", nil
}

func (m *mockGenerator) ExtractQuestions(
	ctx context.Context, passages []domain.Passage, language string,
) (generation.QuestionResult, error) {
	if m.questionsFn != nil {
		return m.questionsFn(ctx, passages, language)
	}
	return generation.QuestionResult{}, nil
}

func (m *mockGenerator) AnswerMulti(
	ctx context.Context, question, fusedContext string, labels []string,
	memory []domain.Turn, language string,
) (string, error) {
	if m.answerMultiFn != nil {
		return m.answerMultiFn(ctx, question, fusedContext, labels, memory, language)
	}
	return "", nil
}

type mockHealth struct {
	checkFn func(ctx context.Context) health.Report
}

func (m *mockHealth) Check(ctx context.Context) health.Report {
	if m.checkFn != nil {
		return m.checkFn(ctx)
	}
	return health.Report{Status: health.Healthy, Checks: map[string]health.CheckResult{}}
}

// --- Harness ---

type testServer struct {
	ingest    *mockIngestor
	retriever *mockRetriever
	fuser     *mockFuser
	generator *mockGenerator
	health    *mockHealth
	handler   http.Handler
}

func newTestServer(t *testing.T, apiKeys ...string) *testServer {
	t.Helper()
	ts := &testServer{
		ingest:    &mockIngestor{},
		retriever: &mockRetriever{},
		fuser:     &mockFuser{},
		generator: &mockGenerator{},
		health:    &mockHealth{},
	}
	srv := NewServer(ts.ingest, ts.retriever, ts.fuser, ts.generator, ts.health, zap.NewNop())
	ts.handler = srv.Router(apiKeys)
	return ts
}

func (ts *testServer) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) uploadFile(t *testing.T, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/documents/process", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(io.LimitReader(rec.Body, 1<<20)).Decode(&out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
	return out
}
