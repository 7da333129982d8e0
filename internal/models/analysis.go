package models

// AnalysisType selects the orchestrator behavior for an analyze call.
type AnalysisType string

const (
	AnalysisSummarize AnalysisType = "summarize"
	AnalysisDiff      AnalysisType = "diff"
	AnalysisChat      AnalysisType = "chat"
)

// ChatTurn is one prior turn of a filing conversation. Role is "user" or
// "assistant"; history is client-held and replayed on each chat call.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AnalyzeRequest is the payload for the streaming analyze endpoint.
// Text is always required. Diff additionally requires PreviousText, chat
// additionally requires Question.
type AnalyzeRequest struct {
	Text         string       `json:"text"`
	AnalysisType AnalysisType `json:"analysisType"`
	SectionName  string       `json:"sectionName,omitempty"`
	PreviousText string       `json:"previousText,omitempty"`
	Question     string       `json:"question,omitempty"`
	ChatHistory  []ChatTurn   `json:"chatHistory,omitempty"`
}

// GenerationMessage is one turn of an LLM conversation in provider-neutral
// form. Role is "user" or "model".
type GenerationMessage struct {
	Role    string
	Content string
}

// GenerationRequest is a provider-neutral streaming generation call: a
// system instruction plus an ordered message sequence ending with the
// current user message.
type GenerationRequest struct {
	SystemPrompt string
	Messages     []GenerationMessage
}
