package gpt

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GeminiBaseURL is Google's OpenAI-compatible endpoint for Gemini models.
const GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

const DefaultGeminiModel = "gemini-2.5-flash-lite"

type Client struct {
	Client  openai.Client
	ModelID string
	// legacyMaxTokens sends max_tokens instead of max_completion_tokens.
	legacyMaxTokens bool
}

func NewClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("OpenAI model ID is required")
	}

	return newClient(apiKey, model, "", false), nil
}

// NewGeminiClient talks to Gemini through its OpenAI-compatible API.
func NewGeminiClient(apiKey string, model string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Google API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	return newClient(apiKey, model, GeminiBaseURL, true), nil
}

func newClient(apiKey string, model string, baseURL string, legacyMaxTokens bool) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(3),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &Client{
		Client:          openai.NewClient(opts...),
		ModelID:         model,
		legacyMaxTokens: legacyMaxTokens,
	}
}
