package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/domain"
	"github.com/docsage/docsage/internal/loader"
	"github.com/docsage/docsage/internal/usecase/fusion"
	"github.com/docsage/docsage/internal/usecase/health"
)

// maxUploadBytes bounds the size of an uploaded document.
const maxUploadBytes = 50 << 20

// noPassagesAnswer is returned with 200 on chat routes when retrieval finds
// nothing, so a conversational client gets an answer instead of an error.
const noPassagesAnswer = "No relevant documents were found to answer this question."

type turnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func turnsFromDTO(dtos []turnDTO) []domain.Turn {
	turns := make([]domain.Turn, 0, len(dtos))
	for _, d := range dtos {
		turns = append(turns, domain.Turn{Role: d.Role, Content: d.Content})
	}
	return turns
}

type passageDTO struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

func passagesToDTO(passages []domain.Passage) []passageDTO {
	out := make([]passageDTO, len(passages))
	for i, p := range passages {
		out[i] = passageDTO{Content: p.Content, Metadata: p.Metadata}
	}
	return out
}

// ProcessDocument handles POST /documents/process. Accepts a multipart form
// with a "file" field, extracts per-page text and indexes the document.
func (s *Server) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "failed to read upload")
		return
	}

	pages, err := loader.Load(header.Filename, data)
	if err != nil {
		s.logger.Warn("failed to load document", zap.String("filename", header.Filename), zap.Error(err))
		writeError(w, http.StatusBadRequest, codeValidationFailed, "unreadable document")
		return
	}

	receipt, err := s.ingest.Process(r.Context(), header.Filename, pages)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"collection":      receipt.Collection,
		"points_inserted": receipt.PointsInserted,
		"tokens_used":     receipt.TokensUsed,
	})
}

// Retrieve handles POST /retrieve.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collection string `json:"collection"`
		Query      string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Collection == "" || req.Query == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "collection and query are required")
		return
	}

	passages, err := s.retrieval.Retrieve(r.Context(), req.Collection, req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"passages": passagesToDTO(passages),
		"count":    len(passages),
	})
}

// ChatAnswer handles POST /chat/answer.
func (s *Server) ChatAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collection string    `json:"collection"`
		Question   string    `json:"question"`
		History    []turnDTO `json:"history"`
		Language   string    `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Collection == "" || req.Question == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "collection and question are required")
		return
	}

	passages, err := s.retrieval.Retrieve(r.Context(), req.Collection, req.Question)
	if errors.Is(err, domain.ErrNoRelevantPassages) {
		writeJSON(w, http.StatusOK, map[string]any{"answer": noPassagesAnswer, "passages_used": 0})
		return
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	answer, err := s.generation.Answer(r.Context(), req.Question, passages, turnsFromDTO(req.History), req.Language)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":        answer,
		"passages_used": len(passages),
	})
}

// ChatSummary handles POST /chat/summary.
func (s *Server) ChatSummary(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collection string `json:"collection"`
		Language   string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Collection == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "collection is required")
		return
	}

	passages, err := s.retrieval.Scan(r.Context(), req.Collection)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	summary, err := s.generation.Summarize(r.Context(), passages, req.Language)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}

// ChatQuestions handles POST /chat/questions.
func (s *Server) ChatQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Collection string `json:"collection"`
		Language   string `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Collection == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "collection is required")
		return
	}

	passages, err := s.retrieval.Scan(r.Context(), req.Collection)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	result, err := s.generation.ExtractQuestions(r.Context(), passages, req.Language)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"questions": result.Questions,
		"raw":       result.Raw,
		"parsed":    result.Parsed,
	})
}

// ChatMultiDocument handles POST /chat/multi-document.
func (s *Server) ChatMultiDocument(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Documents []struct {
			Label      string `json:"label"`
			Collection string `json:"collection"`
		} `json:"documents"`
		Question string    `json:"question"`
		History  []turnDTO `json:"history"`
		Language string    `json:"language"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 || req.Question == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "documents and question are required")
		return
	}

	refs := make([]fusion.DocumentRef, 0, len(req.Documents))
	for _, d := range req.Documents {
		if d.Collection == "" {
			writeError(w, http.StatusBadRequest, codeValidationFailed, "every document needs a collection")
			return
		}
		label := d.Label
		if label == "" {
			label = d.Collection
		}
		refs = append(refs, fusion.DocumentRef{Label: label, Collection: d.Collection})
	}

	fused, err := s.fusion.Fuse(r.Context(), refs, req.Question)
	if errors.Is(err, domain.ErrNoDocumentsFused) {
		writeJSON(w, http.StatusOK, map[string]any{"answer": noPassagesAnswer, "sources": []string{}})
		return
	}
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	answer, err := s.generation.AnswerMulti(
		r.Context(), req.Question, fused.Context, fused.Labels, turnsFromDTO(req.History), req.Language)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"answer":  answer,
		"sources": fused.Labels,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != health.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}
