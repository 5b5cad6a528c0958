package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// openAIClient implements LLMClient against an OpenAI-compatible chat
// completion endpoint through langchaingo.
type openAIClient struct {
	cfg      LLMConfig
	model    llms.Model
	observer Observer
}

// placeholderAPIKey is sent to compatible servers that do not check keys.
const placeholderAPIKey = "unused"

// NewOpenAIClient creates an LLMClient for cfg.Endpoint (the API base URL,
// e.g. https://api.openai.com/v1).
func NewOpenAIClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	if observer == nil {
		observer = NoopObserver{}
	}
	cfg.Provider = ProviderOpenAI
	token := cfg.APIKey
	if token == "" {
		token = placeholderAPIKey
	}
	model, err := openai.New(
		openai.WithToken(token),
		openai.WithBaseURL(cfg.Endpoint),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}
	return &openAIClient{cfg: cfg, model: model, observer: observer}, nil
}

func (c *openAIClient) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	temp, maxTok := c.cfg.taskParams(req)
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, req.UserPrompt),
	}
	opts := []llms.CallOption{llms.WithTemperature(temp)}
	if maxTok > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTok))
	}

	return generate(ctx, c.cfg, c.observer, req.Task, func(ctx context.Context) (string, string, error) {
		resp, err := c.model.GenerateContent(ctx, messages, opts...)
		if err != nil {
			return "", "", err
		}
		if len(resp.Choices) == 0 {
			return "", "", errors.New("no choices in completion")
		}
		return resp.Choices[0].Content, c.cfg.Model, nil
	})
}

// Available reports whether a client could be built; compatible servers
// expose no common health endpoint.
func (c *openAIClient) Available(context.Context) bool {
	return c.model != nil
}
