package llm

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
)

const SystemInstructions = "You are a warm friendly Riverwood assistant. Use casual Hindi-English mix if appropriate."

// ErrEmptyCompletion is returned when the model answers with no choices.
var ErrEmptyCompletion = errors.New("openai returned no choices")

type OpenAIClient struct {
	Client             *openai.Client
	SystemInstructions string
	Model              string
}

func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("API key is required")
	}
	return NewOpenAIClientWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewOpenAIClientWithConfig allows pointing the client at a different base URL.
func NewOpenAIClientWithConfig(cfg openai.ClientConfig, model string) (*OpenAIClient, error) {
	if model == "" {
		return nil, errors.New("model is required")
	}
	return &OpenAIClient{
		Client:             openai.NewClientWithConfig(cfg),
		SystemInstructions: SystemInstructions,
		Model:              model,
	}, nil
}

// Reply answers a single user message. No history is kept between calls.
func (c *OpenAIClient) Reply(ctx context.Context, message string) (string, error) {
	resp, err := c.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.SystemInstructions},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
