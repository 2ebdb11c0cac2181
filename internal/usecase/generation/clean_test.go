package generation

import (
	"strings"
	"testing"
)

func TestCleanText_StripsReasoningRegions(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"think", "<think>internal notes</think>The answer.", "The answer."},
		{"thinking", "<THINKING>loud\nthoughts</THINKING>The answer.", "The answer."},
		{"thought", "<thought>hm</thought>The answer.", "The answer."},
		{"reasoning", "<reasoning>step 1\nstep 2</reasoning>The answer.", "The answer."},
		{"multiline", "<think>line one\nline two</think>\n\nThe answer.", "The answer."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanText(tc.in); got != tc.want {
				t.Errorf("cleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanText_StripsCodeFencesScriptStyle(t *testing.T) {
	in := "Before\n```python\nprint('hi')\n```\n<script>alert(1)</script>\n<style>p{}</style>\nAfter"
	got := cleanText(in)
	if strings.Contains(got, "print") || strings.Contains(got, "alert") || strings.Contains(got, "p{}") {
		t.Errorf("cleaning left artifacts: %q", got)
	}
	if !strings.Contains(got, "Before") || !strings.Contains(got, "After") {
		t.Errorf("cleaning removed real content: %q", got)
	}
}

func TestCleanText_CollapsesBlankRuns(t *testing.T) {
	got := cleanText("a\n\n\n\nb\n   \n\nc")
	if got != "a\n\nb\n\nc" {
		t.Errorf("got %q", got)
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	in := "<think>x</think>Hello\n\n\n```go\ncode\n```\nWorld"
	once := cleanText(in)
	twice := cleanText(once)
	if once != twice {
		t.Errorf("cleaning is not idempotent: %q vs %q", once, twice)
	}
}

func TestCleanHTMLAnswer_WrapsInArticle(t *testing.T) {
	got := cleanHTMLAnswer("<p>content</p>")
	if !strings.HasPrefix(got, "<article>") || !strings.HasSuffix(got, "</article>") {
		t.Errorf("got %q", got)
	}
}

func TestCleanHTMLAnswer_DoesNotDoubleWrap(t *testing.T) {
	in := "<article>\n<p>content</p>\n</article>"
	once := cleanHTMLAnswer(in)
	twice := cleanHTMLAnswer(once)
	if strings.Count(twice, "<article") != 1 {
		t.Errorf("double wrapped: %q", twice)
	}
	if once != twice {
		t.Errorf("not idempotent: %q vs %q", once, twice)
	}
}

func TestCleanHTMLAnswer_EmptyStaysEmpty(t *testing.T) {
	if got := cleanHTMLAnswer("<think>only thoughts</think>"); got != "" {
		t.Errorf("got %q", got)
	}
}
