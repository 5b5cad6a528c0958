package intelligence

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBackend struct {
	resp *SuggestionResponse
	err  error

	calls int
	last  SuggestionRequest
}

func (b *stubBackend) Suggest(_ context.Context, req SuggestionRequest) (*SuggestionResponse, error) {
	b.calls++
	b.last = req
	return b.resp, b.err
}

type recordingObserver struct {
	events []service.UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e service.UseCaseEvent) {
	o.events = append(o.events, e)
}

func TestFilterSuggestions_CollapsesAgainstExistingAndEachOther(t *testing.T) {
	got := FilterSuggestions(
		[]string{"Buy Milk", "Call Sam", "call sam"},
		[]string{"Buy milk", " buy MILK "},
	)
	assert.Equal(t, []string{"Call Sam"}, got)
}

func TestFilterSuggestions_TrimsAndDropsBlank(t *testing.T) {
	got := FilterSuggestions([]string{"  Pack bag ", "", "   ", "\tBook train\n"}, nil)
	assert.Equal(t, []string{"Pack bag", "Book train"}, got)
}

func TestFilterSuggestions_NeverNil(t *testing.T) {
	got := FilterSuggestions(nil, []string{"a"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestSubtasks_FiltersBackendResult(t *testing.T) {
	backend := &stubBackend{resp: &SuggestionResponse{Subtasks: []string{"Buy Milk", "Call Sam", "call sam"}}}
	svc := NewSuggestionService(backend)

	desc := "weekly errands"
	got, err := svc.SuggestSubtasks(context.Background(), "Errands", &desc, []string{"Buy milk", " buy MILK "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Call Sam"}, got)

	assert.Equal(t, 1, backend.calls)
	assert.Equal(t, "Errands", backend.last.Title)
	require.NotNil(t, backend.last.Description)
	assert.Equal(t, "weekly errands", *backend.last.Description)
	assert.Len(t, backend.last.ExistingSubtasks, 2)
}

func TestSuggestSubtasks_OmitsEmptyExisting(t *testing.T) {
	backend := &stubBackend{resp: &SuggestionResponse{Subtasks: []string{"a"}}}
	svc := NewSuggestionService(backend)

	_, err := svc.SuggestSubtasks(context.Background(), "Plan trip", nil, []string{})
	require.NoError(t, err)
	assert.Nil(t, backend.last.ExistingSubtasks)
}

func TestSuggestSubtasks_ExplicitEmptyList(t *testing.T) {
	svc := NewSuggestionService(&stubBackend{resp: &SuggestionResponse{Subtasks: []string{}}})

	got, err := svc.SuggestSubtasks(context.Background(), "Sleep", nil, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSuggestSubtasks_Failures(t *testing.T) {
	tests := []struct {
		name    string
		backend *stubBackend
	}{
		{"backend error", &stubBackend{err: errors.New("boom")}},
		{"error payload", &stubBackend{resp: &SuggestionResponse{Error: "quota exceeded"}}},
		{"missing list", &stubBackend{resp: &SuggestionResponse{}}},
		{"nil response", &stubBackend{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewSuggestionService(tt.backend)
			_, err := svc.SuggestSubtasks(context.Background(), "Plan trip", nil, nil)
			assert.ErrorIs(t, err, domain.ErrSuggestionFailed)
			assert.Equal(t, 1, tt.backend.calls, "no retries")
		})
	}
}

func TestSuggestSubtasks_BlankTitle(t *testing.T) {
	backend := &stubBackend{resp: &SuggestionResponse{Subtasks: []string{}}}
	svc := NewSuggestionService(backend)

	_, err := svc.SuggestSubtasks(context.Background(), "  ", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, backend.calls)
}

func TestSuggestSubtasks_ObservesUseCase(t *testing.T) {
	obs := &recordingObserver{}
	svc := NewSuggestionService(&stubBackend{err: errors.New("down")}, obs)

	_, err := svc.SuggestSubtasks(context.Background(), "Plan trip", nil, nil)
	require.Error(t, err)
	require.Len(t, obs.events, 1)
	assert.Equal(t, "suggest-subtasks", obs.events[0].Name)
	assert.False(t, obs.events[0].Success)
	assert.ErrorIs(t, obs.events[0].Err, domain.ErrSuggestionFailed)
}
