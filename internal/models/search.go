package models

type ResultSource string

const (
	SourceForum         ResultSource = "forum"
	SourceKnowledgeBase ResultSource = "knowledge_base"
)

// SearchResult is one retrieval hit. It lives for a single request; nothing
// persists it.
type SearchResult struct {
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	URL       string       `json:"url,omitempty"`
	Source    ResultSource `json:"source"`
	Relevance float64      `json:"relevance_score"`
}

// Reference is the caller-visible citation derived from a SearchResult.
type Reference struct {
	Title  string       `json:"title"`
	URL    string       `json:"url"`
	Source ResultSource `json:"source"`
}

type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// ConversationTurn is caller-supplied history. Only the trailing window is
// forwarded to the provider.
type ConversationTurn struct {
	Role    TurnRole `json:"role"`
	Content string   `json:"content"`
}

// CompletionResult is the normalized provider output.
type CompletionResult struct {
	Content    string
	References []Reference
	TokensUsed int
	Degraded   bool // canned fallback content, not a real completion
}
