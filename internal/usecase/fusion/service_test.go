package fusion

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/docsage/docsage/internal/domain"
)

type mockRetriever struct {
	fn func(ctx context.Context, collection, query string, maxTokens int) ([]domain.Passage, error)
}

func (m *mockRetriever) RetrieveWithBudget(
	ctx context.Context, collection, query string, maxTokens int,
) ([]domain.Passage, error) {
	return m.fn(ctx, collection, query, maxTokens)
}

func TestFuse_LabelsEachDocumentSection(t *testing.T) {
	r := &mockRetriever{fn: func(_ context.Context, collection, _ string, _ int) ([]domain.Passage, error) {
		return []domain.Passage{{Content: "passage from " + collection}}, nil
	}}
	svc := New(r, 10000, zap.NewNop())

	refs := []DocumentRef{
		{Label: "Annual Report", Collection: "annual_report"},
		{Label: "User Manual", Collection: "user_manual"},
	}

	fused, err := svc.Fuse(context.Background(), refs, "q")
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	out := fused.Context
	if !strings.Contains(out, "--- From Annual Report ---") {
		t.Errorf("missing first heading: %q", out)
	}
	if !strings.Contains(out, "--- From User Manual ---") {
		t.Errorf("missing second heading: %q", out)
	}
	if !strings.Contains(out, "passage from annual_report") {
		t.Errorf("missing first passage: %q", out)
	}
}

func TestFuse_SplitsBudgetEvenly(t *testing.T) {
	var budgets []int
	r := &mockRetriever{fn: func(_ context.Context, _, _ string, maxTokens int) ([]domain.Passage, error) {
		budgets = append(budgets, maxTokens)
		return []domain.Passage{{Content: "x"}}, nil
	}}
	svc := New(r, 10000, zap.NewNop())

	refs := []DocumentRef{
		{Label: "a", Collection: "a"},
		{Label: "b", Collection: "b"},
		{Label: "c", Collection: "c"},
		{Label: "d", Collection: "d"},
	}
	if _, err := svc.Fuse(context.Background(), refs, "q"); err != nil {
		t.Fatalf("Fuse: %v", err)
	}

	for _, b := range budgets {
		if b != 2500 {
			t.Errorf("budget = %d, want 2500", b)
		}
	}
}

func TestFuse_BudgetFloor(t *testing.T) {
	var budget int
	r := &mockRetriever{fn: func(_ context.Context, _, _ string, maxTokens int) ([]domain.Passage, error) {
		budget = maxTokens
		return []domain.Passage{{Content: "x"}}, nil
	}}
	// 20 docs over 10000 tokens would be 500 each; the floor lifts it to 1000.
	svc := New(r, 10000, zap.NewNop())

	refs := make([]DocumentRef, 20)
	for i := range refs {
		refs[i] = DocumentRef{Label: "d", Collection: "d"}
	}
	if _, err := svc.Fuse(context.Background(), refs, "q"); err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	if budget != MinDocBudget {
		t.Errorf("budget = %d, want %d", budget, MinDocBudget)
	}
}

func TestFuse_SkipsFailingDocuments(t *testing.T) {
	r := &mockRetriever{fn: func(_ context.Context, collection, _ string, _ int) ([]domain.Passage, error) {
		if collection == "broken" {
			return nil, errors.New("index unavailable")
		}
		return []domain.Passage{{Content: "ok"}}, nil
	}}
	svc := New(r, 10000, zap.NewNop())

	refs := []DocumentRef{
		{Label: "Broken", Collection: "broken"},
		{Label: "Fine", Collection: "fine"},
	}
	fused, err := svc.Fuse(context.Background(), refs, "q")
	if err != nil {
		t.Fatalf("Fuse: %v", err)
	}
	out := fused.Context
	if strings.Contains(out, "Broken") {
		t.Errorf("failed document should not appear: %q", out)
	}
	if !strings.Contains(out, "--- From Fine ---") {
		t.Errorf("surviving document missing: %q", out)
	}
	if len(fused.Labels) != 1 || fused.Labels[0] != "Fine" {
		t.Errorf("labels = %v", fused.Labels)
	}
}

func TestFuse_AllDocumentsFail(t *testing.T) {
	r := &mockRetriever{fn: func(_ context.Context, _, _ string, _ int) ([]domain.Passage, error) {
		return nil, domain.ErrNoRelevantPassages
	}}
	svc := New(r, 10000, zap.NewNop())

	refs := []DocumentRef{{Label: "a", Collection: "a"}, {Label: "b", Collection: "b"}}
	_, err := svc.Fuse(context.Background(), refs, "q")
	if !errors.Is(err, domain.ErrNoDocumentsFused) {
		t.Fatalf("expected ErrNoDocumentsFused, got %v", err)
	}
}

func TestFuse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &mockRetriever{fn: func(ctx context.Context, _, _ string, _ int) ([]domain.Passage, error) {
		return nil, ctx.Err()
	}}
	svc := New(r, 10000, zap.NewNop())

	refs := []DocumentRef{{Label: "a", Collection: "a"}, {Label: "b", Collection: "b"}}
	_, err := svc.Fuse(ctx, refs, "q")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFuse_NoRefs(t *testing.T) {
	svc := New(&mockRetriever{fn: nil}, 10000, zap.NewNop())

	_, err := svc.Fuse(context.Background(), nil, "q")
	if !errors.Is(err, domain.ErrNoDocumentsFused) {
		t.Fatalf("expected ErrNoDocumentsFused, got %v", err)
	}
}
