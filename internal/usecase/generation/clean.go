package generation

import (
	"regexp"
	"strings"
)

// Models with visible chain-of-thought leak reasoning regions and fenced
// blocks into the output; cleaning strips them before the text reaches the
// client. All passes are idempotent.
var (
	reasoningTags = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<think>.*?</think>`),
		regexp.MustCompile(`(?is)<thinking>.*?</thinking>`),
		regexp.MustCompile(`(?is)<thought>.*?</thought>`),
		regexp.MustCompile(`(?is)<reasoning>.*?</reasoning>`),
	}
	codeFence  = regexp.MustCompile("(?s)```[a-zA-Z]*\\n?.*?```")
	scriptTag  = regexp.MustCompile(`(?is)<script.*?</script>`)
	styleTag   = regexp.MustCompile(`(?is)<style.*?</style>`)
	blankLines = regexp.MustCompile(`\n\s*\n+`)
)

// cleanText strips reasoning regions, fenced code blocks, script and style
// tags, and collapses runs of blank lines.
func cleanText(s string) string {
	for _, re := range reasoningTags {
		s = re.ReplaceAllString(s, "")
	}
	s = codeFence.ReplaceAllString(s, "")
	s = scriptTag.ReplaceAllString(s, "")
	s = styleTag.ReplaceAllString(s, "")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// cleanHTMLAnswer cleans the text and guarantees a single top-level
// <article> container.
func cleanHTMLAnswer(s string) string {
	s = cleanText(s)
	if s == "" {
		return s
	}
	if !strings.HasPrefix(s, "<article") {
		s = "<article>\n" + s + "\n</article>"
	}
	return s
}
