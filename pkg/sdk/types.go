package sdk

// Receipt reports what an uploaded document produced.
type Receipt struct {
	Collection     string `json:"collection"`
	PointsInserted int    `json:"points_inserted"`
	TokensUsed     int    `json:"tokens_used"`
}

// Passage is one retrieved slice of document text.
type Passage struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Turn is one message of conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AskRequest asks a question against one indexed document.
type AskRequest struct {
	Collection string `json:"collection"`
	Question   string `json:"question"`
	History    []Turn `json:"history,omitempty"`
	Language   string `json:"language,omitempty"`
}

// Answer is a generated response.
type Answer struct {
	Answer       string `json:"answer"`
	PassagesUsed int    `json:"passages_used"`
}

// DocumentRef names one document of a multi-document question.
type DocumentRef struct {
	Label      string `json:"label,omitempty"`
	Collection string `json:"collection"`
}

// MultiAskRequest asks one question across several indexed documents.
type MultiAskRequest struct {
	Documents []DocumentRef `json:"documents"`
	Question  string        `json:"question"`
	History   []Turn        `json:"history,omitempty"`
	Language  string        `json:"language,omitempty"`
}

// MultiAnswer is a generated response with the documents that contributed.
type MultiAnswer struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

// QuestionSet is the extracted question list. When Parsed is false the model
// output could not be parsed and Raw holds the cleaned text instead.
type QuestionSet struct {
	Questions []string `json:"questions"`
	Raw       string   `json:"raw"`
	Parsed    bool     `json:"parsed"`
}

// Health is the service health report.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
