package llm

type LLMRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// LLMResponse is the text answer plus what the provider reported about it.
type LLMResponse struct {
	Content      string
	StopReason   string
	Model        string
	InputTokens  int
	OutputTokens int
}
