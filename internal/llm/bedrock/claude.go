package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/povarna/generative-ai-agents/sql-agent/internal/llm"
)

const (
	anthropicVersion = "bedrock-2023-05-31"
	// Claude rejects requests without max_tokens.
	defaultMaxTokens = 512
)

type claudeMessageRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	Temperature      float64         `json:"temperature"`
	Messages         []claudeMessage `json:"messages"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeMessageResponse struct {
	Model      string               `json:"model"`
	Content    []claudeContentBlock `json:"content"`
	StopReason string               `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func (c *Client) InvokeModel(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	body, err := buildRequestBody(request)
	if err != nil {
		return nil, err
	}

	output, err := c.Client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.ModelID),
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to invoke %s: %w", c.ModelID, err)
	}

	response, err := parseResponseBody(output.Body)
	if err != nil {
		return nil, err
	}
	if response.Model == "" {
		response.Model = c.ModelID
	}

	return response, nil
}

func buildRequestBody(request llm.LLMRequest) ([]byte, error) {
	maxTokens := request.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	body, err := json.Marshal(claudeMessageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        maxTokens,
		Temperature:      request.Temperature,
		Messages:         []claudeMessage{{Role: "user", Content: request.Prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("unable to serialize claude request: %w", err)
	}
	return body, nil
}

func parseResponseBody(body []byte) (*llm.LLMResponse, error) {
	var response claudeMessageResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bedrock response: %w", err)
	}

	var content strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	return &llm.LLMResponse{
		Content:      content.String(),
		StopReason:   response.StopReason,
		Model:        response.Model,
		InputTokens:  response.Usage.InputTokens,
		OutputTokens: response.Usage.OutputTokens,
	}, nil
}

func (c *Client) InvokeModelWithRetry(ctx context.Context, request llm.LLMRequest) (*llm.LLMResponse, error) {
	var lastErr error

	attempts := max(c.MaxRetries, 1)
	for attempt := range attempts {
		response, err := c.InvokeModel(ctx, request)
		if err == nil {
			return response, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return nil, fmt.Errorf("non-retryable error: %w", err)
		}
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(calculateBackoff(attempt, c.InitialDelay, c.MaxDelay)):
		}
	}

	return nil, fmt.Errorf("max retries %d exceeded: %w", attempts, lastErr)
}

// isRetryableError accepts throttling, service-side and transient network
// failures. Typed Bedrock exceptions are checked first, then the message.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	var (
		throttling  *types.ThrottlingException
		internal    *types.InternalServerException
		unavailable *types.ServiceUnavailableException
		notReady    *types.ModelNotReadyException
		timeout     *types.ModelTimeoutException
	)
	if errors.As(err, &throttling) || errors.As(err, &internal) || errors.As(err, &unavailable) ||
		errors.As(err, &notReady) || errors.As(err, &timeout) {
		return true
	}

	for _, marker := range []string{
		"ThrottlingException",
		"TooManyRequestsException",
		"Rate exceeded",
		"InternalServerException",
		"ServiceUnavailableException",
		"ModelNotReadyException",
		"connection reset",
		"EOF",
		"timeout",
	} {
		if strings.Contains(err.Error(), marker) {
			return true
		}
	}

	return false
}

func calculateBackoff(attempt int, initialDelay, maxDelay time.Duration) time.Duration {
	backoff := math.Min(float64(initialDelay)*math.Pow(2, float64(attempt)), float64(maxDelay))
	jitter := backoff * 0.2 * (2*rand.Float64() - 1) // +-20%

	return time.Duration(backoff + jitter)
}
