package gpt

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/llm"
)

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	message := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(request.Prompt),
		},
		Temperature: openai.Float(request.Temperature),
		Model:       openai.ChatModel(c.ModelID),
	}

	if request.MaxTokens > 0 {
		if c.legacyMaxTokens {
			message.MaxTokens = openai.Int(int64(request.MaxTokens))
		} else {
			message.MaxCompletionTokens = openai.Int(int64(request.MaxTokens))
		}
	}

	output, err := c.Client.Chat.Completions.New(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("unable to invoke %s model. Error: %w", c.ModelID, err)
	}

	if len(output.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	response := output.Choices[0]
	return &llm.LLMResponse{
		Content:      response.Message.Content,
		StopReason:   string(response.FinishReason),
		Model:        output.Model,
		InputTokens:  int(output.Usage.PromptTokens),
		OutputTokens: int(output.Usage.CompletionTokens),
	}, nil
}

// InvokeModelWithRetry relies on the SDK's own retry policy.
func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	return c.InvokeModel(ctx, request)
}
