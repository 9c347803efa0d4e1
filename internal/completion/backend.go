package completion

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend issues single attempts against any OpenAI-compatible
// chat-completion endpoint (Groq, OpenRouter, OpenAI itself).
type OpenAIBackend struct {
	baseURL        string
	model          string
	maxTokens      int
	attemptTimeout time.Duration
}

func NewOpenAIBackend(baseURL, model string, maxTokens int, attemptTimeout time.Duration) *OpenAIBackend {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if attemptTimeout <= 0 {
		attemptTimeout = DefaultAttemptTimeout
	}
	return &OpenAIBackend{
		baseURL:        baseURL,
		model:          model,
		maxTokens:      maxTokens,
		attemptTimeout: attemptTimeout,
	}
}

// Complete issues one chat-completion request with a single user-role
// message. The credential is supplied per call: the operator may override
// the server-configured key per request.
func (b *OpenAIBackend) Complete(ctx context.Context, credential, prompt string) (string, error) {
	cfg := openai.DefaultConfig(credential)
	if b.baseURL != "" {
		cfg.BaseURL = b.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	ctx, cancel := context.WithTimeout(ctx, b.attemptTimeout)
	defer cancel()

	resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     b.model,
		MaxTokens: b.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}
