package domain

import "testing"

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty text: got %d, want 0", got)
	}
	if got := EstimateTokens("abcd"); got != 1 {
		t.Errorf("4 chars: got %d, want 1", got)
	}
	if got := EstimateTokens("abcdefg"); got != 1 {
		t.Errorf("7 chars: got %d, want 1 (integer division)", got)
	}
}

func TestPassagePage(t *testing.T) {
	cases := []struct {
		name string
		meta map[string]string
		want int
	}{
		{"numeric", map[string]string{MetaPage: "12"}, 12},
		{"missing", map[string]string{}, 0},
		{"nil meta", nil, 0},
		{"non-numeric", map[string]string{MetaPage: "ii"}, 0},
		{"negative", map[string]string{MetaPage: "-3"}, 0},
	}
	for _, tc := range cases {
		p := Passage{Content: "x", Metadata: tc.meta}
		if got := p.Page(); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, got, tc.want)
		}
	}
}

func TestSortByPage_StableAscending(t *testing.T) {
	passages := []Passage{
		{Content: "c", Metadata: map[string]string{MetaPage: "3"}},
		{Content: "a1", Metadata: map[string]string{MetaPage: "1"}},
		{Content: "b", Metadata: map[string]string{MetaPage: "oops"}},
		{Content: "a2", Metadata: map[string]string{MetaPage: "1"}},
	}

	SortByPage(passages)

	want := []string{"b", "a1", "a2", "c"}
	for i, w := range want {
		if passages[i].Content != w {
			t.Fatalf("position %d: got %q, want %q", i, passages[i].Content, w)
		}
	}
}

func TestCollectionNameFor(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"/uploads/Annual Report 2024.pdf", "Annual_Report_2024"},
		{"notes.txt", "notes"},
		{"weird/..", DefaultCollection},
		{"", DefaultCollection},
		{"a/b/c/manual.v2.pdf", "manual_v2"},
	}
	for _, tc := range cases {
		if got := CollectionNameFor(tc.source); got != tc.want {
			t.Errorf("CollectionNameFor(%q) = %q, want %q", tc.source, got, tc.want)
		}
	}
}

func TestFormatHistory(t *testing.T) {
	if got := FormatHistory(nil, 5); got != noHistory {
		t.Errorf("empty history: got %q", got)
	}

	turns := []Turn{
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "  "},
		{Role: RoleUser, Content: "two"},
	}
	got := FormatHistory(turns, 5)
	want := "User: one\nUser: two"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// Window keeps only the most recent turns.
	many := []Turn{
		{Role: RoleUser, Content: "old"},
		{Role: RoleAssistant, Content: "mid"},
		{Role: RoleUser, Content: "new"},
	}
	got = FormatHistory(many, 2)
	want = "Assistant: mid\nUser: new"
	if got != want {
		t.Errorf("windowed: got %q, want %q", got, want)
	}
}
