package generation

import (
	"encoding/json"
	"regexp"
	"strings"
)

// MaxQuestions caps how many questions a single extraction returns.
const MaxQuestions = 10

// QuestionResult is the tagged outcome of question extraction. When Parsed
// is false the model output did not contain a JSON array and Raw carries the
// cleaned text instead.
type QuestionResult struct {
	Questions []string
	Raw       string
	Parsed    bool
}

// jsonArray locates the first JSON string array in free-form model output.
var jsonArray = regexp.MustCompile(`(?s)\[\s*".*?"\s*(?:,\s*".*?"\s*)*\]`)

// parseQuestions extracts a question list from raw model output. Duplicates
// keep their first occurrence; the list is capped at MaxQuestions.
func parseQuestions(raw string) QuestionResult {
	cleaned := cleanText(raw)

	match := jsonArray.FindString(raw)
	if match == "" {
		return QuestionResult{Raw: cleaned}
	}

	var questions []string
	if err := json.Unmarshal([]byte(match), &questions); err != nil {
		return QuestionResult{Raw: cleaned}
	}

	return QuestionResult{
		Questions: dedupeQuestions(questions),
		Raw:       cleaned,
		Parsed:    true,
	}
}

// mergeQuestionResults combines per-chunk extractions, deduplicating
// first-seen across chunks. Parsed is true when any chunk parsed.
func mergeQuestionResults(results []QuestionResult) QuestionResult {
	var all []string
	var raws []string
	parsed := false

	for _, r := range results {
		if r.Parsed {
			parsed = true
			all = append(all, r.Questions...)
		}
		if r.Raw != "" {
			raws = append(raws, r.Raw)
		}
	}

	return QuestionResult{
		Questions: dedupeQuestions(all),
		Raw:       strings.Join(raws, "\n"),
		Parsed:    parsed,
	}
}

func dedupeQuestions(questions []string) []string {
	seen := make(map[string]struct{}, len(questions))
	out := make([]string, 0, len(questions))

	for _, q := range questions {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		key := strings.ToLower(q)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, q)
		if len(out) == MaxQuestions {
			break
		}
	}
	return out
}
