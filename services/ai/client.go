package aiService

import (
	"context"
	"fmt"
	"time"

	"herbgene/api/models"

	openai "github.com/sashabaranov/go-openai"
)

// GenerativeClient abstracts the external generative-text service so the
// coordinator's retry policy can be exercised against stubs in tests
type GenerativeClient interface {
	Complete(ctx context.Context, prompt string, jsonMode bool) (string, error)
}

type OpenAiClient struct {
	Config *models.Config
	client *openai.Client
}

func NewOpenAiClient(cfg *models.Config) *OpenAiClient {
	return &OpenAiClient{
		Config: cfg,
		client: openai.NewClient(cfg.Llm.ApiKey),
	}
}

func (c *OpenAiClient) Complete(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	requestCtx, cancel := context.WithTimeout(ctx, time.Duration(c.Config.Llm.RequestTimeoutSeconds)*time.Second)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       c.Config.Llm.Model,
		Temperature: float32(c.Config.Llm.Temperature),
		MaxTokens:   c.Config.Llm.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(requestCtx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
