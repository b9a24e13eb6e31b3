package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICompat answers queries through any OpenAI-compatible chat endpoint,
// for example a local server. Such backends have no server-side search, so
// results carry no grounding metadata and the citation pipeline degrades to
// a pass-through of the answer text.
type OpenAICompat struct {
	client *openai.Client
}

// NewOpenAICompat builds a provider for the given base URL. An empty base
// URL keeps the library default (the hosted OpenAI API).
func NewOpenAICompat(baseURL, apiKey string) *OpenAICompat {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAICompat{client: openai.NewClientWithConfig(cfg)}
}

func (p *OpenAICompat) Name() string { return "openai-compat" }

func (p *OpenAICompat) GroundedQuery(ctx context.Context, req Request) (Result, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.SystemHint != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemHint,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	})
	if err != nil {
		return Result{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Result{}, fmt.Errorf("chat completion returned no choices")
	}
	return Result{Text: resp.Choices[0].Message.Content}, nil
}
