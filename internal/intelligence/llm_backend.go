package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/tasker/internal/llm"
)

type llmBackend struct {
	client llm.LLMClient
}

// NewLLMBackend creates a SuggestionBackend that prompts a language model.
func NewLLMBackend(client llm.LLMClient) SuggestionBackend {
	return &llmBackend{client: client}
}

func (b *llmBackend) Suggest(ctx context.Context, req SuggestionRequest) (*SuggestionResponse, error) {
	resp, err := b.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSubtasks,
		SystemPrompt: subtaskSystemPrompt,
		UserPrompt:   buildSubtaskPrompt(req),
	})
	if err != nil {
		return nil, err
	}

	out, err := llm.ExtractJSON(resp.Text, func(r SuggestionResponse) error {
		if r.Subtasks == nil && r.Error == "" {
			return fmt.Errorf("missing subtasks list")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func buildSubtaskPrompt(req SuggestionRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Task: %s\n", req.Title)
	if req.Description != nil && strings.TrimSpace(*req.Description) != "" {
		fmt.Fprintf(&b, "Details: %s\n", strings.TrimSpace(*req.Description))
	}
	if len(req.ExistingSubtasks) > 0 {
		b.WriteString("Existing subtasks:\n")
		for _, s := range req.ExistingSubtasks {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	return b.String()
}
