// Package intelligence produces subtask suggestions for a task title and
// filters them against the subtasks the task already has.
package intelligence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/service"
)

// SuggestionRequest is the payload sent to a suggestion backend.
type SuggestionRequest struct {
	Title            string   `json:"title"`
	Description      *string  `json:"description,omitempty"`
	ExistingSubtasks []string `json:"existingSubtasks,omitempty"`
}

// SuggestionResponse is a backend reply. A nil Subtasks slice means the list
// was missing; an empty non-nil slice is an explicit "no suggestions".
type SuggestionResponse struct {
	Subtasks []string `json:"subtasks,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// SuggestionBackend generates raw subtask suggestions.
type SuggestionBackend interface {
	Suggest(ctx context.Context, req SuggestionRequest) (*SuggestionResponse, error)
}

// SuggestionService returns filtered subtask suggestions.
type SuggestionService interface {
	// SuggestSubtasks calls the backend once. Suggestions matching an
	// existing title, ignoring case and surrounding whitespace, are dropped.
	SuggestSubtasks(ctx context.Context, title string, description *string, existing []string) ([]string, error)
}

type suggestionService struct {
	backend  SuggestionBackend
	observer service.UseCaseObserver
}

// NewSuggestionService creates a SuggestionService over backend.
func NewSuggestionService(backend SuggestionBackend, observers ...service.UseCaseObserver) SuggestionService {
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if len(observers) > 0 && observers[0] != nil {
		observer = observers[0]
	}
	return &suggestionService{backend: backend, observer: observer}
}

func (s *suggestionService) SuggestSubtasks(ctx context.Context, title string, description *string, existing []string) (result []string, err error) {
	startedAt := time.Now().UTC()
	defer func() {
		s.observer.ObserveUseCase(ctx, service.UseCaseEvent{
			Name:      "suggest-subtasks",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"existing": len(existing), "returned": len(result)},
		})
	}()

	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}

	req := SuggestionRequest{Title: title, Description: description}
	if len(existing) > 0 {
		req.ExistingSubtasks = existing
	}

	resp, err := s.backend.Suggest(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSuggestionFailed, err)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: empty response", domain.ErrSuggestionFailed)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrSuggestionFailed, resp.Error)
	}
	if resp.Subtasks == nil {
		return nil, fmt.Errorf("%w: response has no subtasks", domain.ErrSuggestionFailed)
	}
	return FilterSuggestions(resp.Subtasks, existing), nil
}

// FilterSuggestions trims suggestions, drops blank ones, collapses duplicates
// within the batch to their first occurrence and drops any whose normalized
// form matches an existing title. The result is never nil.
func FilterSuggestions(suggestions, existing []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(suggestions))
	for _, title := range existing {
		seen[normalizeTitle(title)] = struct{}{}
	}

	out := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

func normalizeTitle(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
