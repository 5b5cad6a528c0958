package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/identity"
	"github.com/alexanderramin/tasker/internal/intelligence"
	"github.com/alexanderramin/tasker/internal/repository"
	"github.com/alexanderramin/tasker/internal/service"
	"github.com/alexanderramin/tasker/internal/testutil"
)

type stubBackend struct {
	resp *intelligence.SuggestionResponse
	err  error
	last intelligence.SuggestionRequest
}

func (b *stubBackend) Suggest(_ context.Context, req intelligence.SuggestionRequest) (*intelligence.SuggestionResponse, error) {
	b.last = req
	return b.resp, b.err
}

type harness struct {
	t       *testing.T
	app     *fiber.App
	backend *stubBackend
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	database := testutil.NewTestDB(t)

	cfg := identity.DefaultConfig()
	cfg.BcryptCost = bcrypt.MinCost
	ids, err := identity.NewService(cfg,
		repository.NewSQLUserRepo(database),
		repository.NewSQLPasswordResetRepo(database),
		testutil.NewTestUoW(database),
		identity.NewSQLRevocationStore(repository.NewSQLRevokedTokenRepo(database)),
		identity.NewLogResetNotifier(nil),
		nil,
	)
	require.NoError(t, err)

	tasks := repository.NewSQLTaskRepo(database)
	categories := repository.NewSQLCategoryRepo(database)
	backend := &stubBackend{resp: &intelligence.SuggestionResponse{Subtasks: []string{}}}
	app := NewApp(Services{
		Identity:    ids,
		Tasks:       service.NewTaskService(tasks, categories),
		Categories:  service.NewCategoryService(categories),
		Commitments: service.NewCommitmentService(repository.NewSQLCommitmentRepo(database), tasks),
		Suggestions: intelligence.NewSuggestionService(backend),
	}, nil)
	return &harness{t: t, app: app, backend: backend}
}

func (h *harness) do(method, path, token string, body any) (int, []byte) {
	h.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(h.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return resp.StatusCode, data
}

func (h *harness) signUp(email string) string {
	h.t.Helper()
	status, body := h.do(http.MethodPost, "/auth/signup", "", map[string]string{"email": email, "password": "correct horse"})
	require.Equal(h.t, http.StatusCreated, status, string(body))
	var sess identity.Session
	require.NoError(h.t, json.Unmarshal(body, &sess))
	return sess.AccessToken
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func TestHealth_NoAuth(t *testing.T) {
	h := newHarness(t)
	status, body := h.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestAuth_RequiredOnRecordRoutes(t *testing.T) {
	h := newHarness(t)

	status, body := h.do(http.MethodGet, "/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "auth_failure", decode[ErrorResponse](t, body).Error)

	status, _ = h.do(http.MethodGet, "/tasks", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_SignInAndSignOut(t *testing.T) {
	h := newHarness(t)
	h.signUp("ada@example.com")

	status, _ := h.do(http.MethodPost, "/auth/signin", "", map[string]string{"email": "ada@example.com", "password": "wrong password"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := h.do(http.MethodPost, "/auth/signin", "", map[string]string{"email": "ADA@example.com", "password": "correct horse"})
	require.Equal(t, http.StatusOK, status)
	token := decode[identity.Session](t, body).AccessToken

	status, _ = h.do(http.MethodGet, "/tasks", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = h.do(http.MethodPost, "/auth/signout", token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = h.do(http.MethodGet, "/tasks", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuth_DuplicateSignUpConflicts(t *testing.T) {
	h := newHarness(t)
	h.signUp("ada@example.com")

	status, body := h.do(http.MethodPost, "/auth/signup", "", map[string]string{"email": "ada@example.com", "password": "another one"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "constraint_violation", decode[ErrorResponse](t, body).Error)
}

func TestAuth_PasswordResetRequestAlwaysAccepted(t *testing.T) {
	h := newHarness(t)
	h.signUp("ada@example.com")

	for _, email := range []string{"ada@example.com", "nobody@example.com"} {
		status, body := h.do(http.MethodPost, "/auth/reset", "", map[string]string{"email": email})
		assert.Equal(t, http.StatusAccepted, status)
		assert.Empty(t, body)
	}

	status, _ := h.do(http.MethodPost, "/auth/reset/confirm", "", map[string]string{"token": "bogus", "password": "new password"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTasks_CreateListAndOwnership(t *testing.T) {
	h := newHarness(t)
	ada := h.signUp("ada@example.com")
	bob := h.signUp("bob@example.com")

	status, body := h.do(http.MethodPost, "/tasks", ada, map[string]any{"title": "Write report", "priority": "high"})
	require.Equal(t, http.StatusCreated, status, string(body))
	first := decode[taskResponse](t, body)
	assert.Equal(t, "task", first.Type)
	assert.Equal(t, "high", first.Priority)
	assert.Equal(t, 0, first.SortOrder)

	status, body = h.do(http.MethodPost, "/tasks", ada, map[string]any{"title": "Review report"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 1, decode[taskResponse](t, body).SortOrder)

	status, body = h.do(http.MethodGet, "/tasks?parent_id=null", ada, nil)
	require.Equal(t, http.StatusOK, status)
	listed := decode[[]taskResponse](t, body)
	require.Len(t, listed, 2)
	assert.Equal(t, "Write report", listed[0].Title)

	status, _ = h.do(http.MethodGet, "/tasks/"+first.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = h.do(http.MethodGet, "/tasks", bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decode[[]taskResponse](t, body))
}

func TestTasks_ForeignReferencesAreNotFound(t *testing.T) {
	h := newHarness(t)
	ada := h.signUp("ada@example.com")
	bob := h.signUp("bob@example.com")

	_, body := h.do(http.MethodPost, "/tasks", ada, map[string]any{"title": "Ada's plan", "type": "project"})
	adaTask := decode[taskResponse](t, body)
	_, body = h.do(http.MethodPost, "/categories", ada, map[string]any{"name": "Work"})
	adaCategory := decode[categoryResponse](t, body)

	for _, key := range []string{"parent_task_id", "project_id"} {
		status, _ := h.do(http.MethodPost, "/tasks", bob, map[string]any{"title": "Sneaky", key: adaTask.ID})
		assert.Equal(t, http.StatusNotFound, status, key)
	}
	status, _ := h.do(http.MethodPost, "/tasks", bob, map[string]any{"title": "Sneaky", "category_id": adaCategory.ID})
	assert.Equal(t, http.StatusNotFound, status)

	_, body = h.do(http.MethodPost, "/tasks", bob, map[string]any{"title": "Bob's task"})
	bobTask := decode[taskResponse](t, body)
	status, _ = h.do(http.MethodPatch, "/tasks/"+bobTask.ID, bob, map[string]any{"parent_task_id": adaTask.ID})
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = h.do(http.MethodPatch, "/tasks/"+bobTask.ID, bob, map[string]any{"category_id": adaCategory.ID})
	assert.Equal(t, http.StatusNotFound, status)

	// Deleting Ada's task must not reach into Bob's rows.
	status, _ = h.do(http.MethodDelete, "/tasks/"+adaTask.ID, ada, nil)
	require.Equal(t, http.StatusNoContent, status)
	status, _ = h.do(http.MethodGet, "/tasks/"+bobTask.ID, bob, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestTasks_ValidationErrors(t *testing.T) {
	h := newHarness(t)
	token := h.signUp("ada@example.com")

	tests := []struct {
		name string
		body any
	}{
		{"blank title", map[string]any{"title": "  "}},
		{"unknown type", map[string]any{"title": "x", "type": "epic"}},
		{"unknown priority", map[string]any{"title": "x", "priority": "urgent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := h.do(http.MethodPost, "/tasks", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "invalid_input", decode[ErrorResponse](t, body).Error)
		})
	}

	status, _ := h.do(http.MethodGet, "/tasks?completed=maybe", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTasks_PatchPartialAndNullClears(t *testing.T) {
	h := newHarness(t)
	token := h.signUp("ada@example.com")

	_, body := h.do(http.MethodPost, "/tasks", token, map[string]any{"title": "Plan", "description": "details"})
	task := decode[taskResponse](t, body)

	status, body := h.do(http.MethodPatch, "/tasks/"+task.ID, token, map[string]any{"priority": "low", "description": nil})
	require.Equal(t, http.StatusOK, status, string(body))
	updated := decode[taskResponse](t, body)
	assert.Equal(t, "Plan", updated.Title)
	assert.Equal(t, "low", updated.Priority)
	assert.Nil(t, updated.Description)
	assert.False(t, updated.ModifiedDate.Before(updated.CreatedDate))

	status, body = h.do(http.MethodPatch, "/tasks/"+task.ID, token, map[string]any{"colour": "red"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, decode[ErrorResponse](t, body).Message, "colour")

	status, _ = h.do(http.MethodPatch, "/tasks/"+task.ID, token, map[string]any{"completed_date": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestTasks_CompletionCascadeAndUndo(t *testing.T) {
	h := newHarness(t)
	token := h.signUp("ada@example.com")

	_, body := h.do(http.MethodPost, "/tasks", token, map[string]any{"title": "Trip"})
	parent := decode[taskResponse](t, body)
	for _, title := range []string{"Book", "Pack"} {
		status, _ := h.do(http.MethodPost, "/tasks/"+parent.ID+"/subtasks", token, map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, status)
	}

	_, body = h.do(http.MethodGet, "/tasks/"+parent.ID+"/subtasks", token, nil)
	subs := decode[[]taskResponse](t, body)
	require.Len(t, subs, 2)
	status, _ := h.do(http.MethodPost, "/tasks/"+subs[0].ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, body = h.do(http.MethodPost, "/tasks/"+parent.ID+"/complete", token, nil)
	require.Equal(t, http.StatusOK, status)
	done := decode[taskResponse](t, body)
	assert.True(t, done.IsCompleted)
	assert.NotNil(t, done.CompletedDate)
	assert.Equal(t, []bool{true, false}, done.SubtaskSnapshot)

	_, body = h.do(http.MethodGet, "/tasks/"+parent.ID+"/subtasks", token, nil)
	for _, s := range decode[[]taskResponse](t, body) {
		assert.True(t, s.IsCompleted)
	}

	status, body = h.do(http.MethodPost, "/tasks/"+parent.ID+"/undo", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.False(t, decode[taskResponse](t, body).IsCompleted)

	_, body = h.do(http.MethodGet, "/tasks/"+parent.ID+"/subtasks", token, nil)
	subs = decode[[]taskResponse](t, body)
	assert.True(t, subs[0].IsCompleted)
	assert.False(t, subs[1].IsCompleted)

	status, _ = h.do(http.MethodPost, "/tasks/"+parent.ID+"/subtasks/restore", token, map[string]any{"states": []bool{false, true}})
	require.Equal(t, http.StatusNoContent, status)
	_, body = h.do(http.MethodGet, "/tasks/"+parent.ID+"/subtasks", token, nil)
	subs = decode[[]taskResponse](t, body)
	assert.False(t, subs[0].IsCompleted)
	assert.True(t, subs[1].IsCompleted)
}

func TestTasks_DeleteAndReorder(t *testing.T) {
	h := newHarness(t)
	token := h.signUp("ada@example.com")

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		_, body := h.do(http.MethodPost, "/tasks", token, map[string]any{"title": title})
		ids = append(ids, decode[taskResponse](t, body).ID)
	}

	status, _ := h.do(http.MethodPost, "/tasks/reorder", token, map[string]any{"ids": []string{ids[2], ids[0], ids[1]}})
	require.Equal(t, http.StatusNoContent, status)
	_, body := h.do(http.MethodGet, "/tasks", token, nil)
	listed := decode[[]taskResponse](t, body)
	assert.Equal(t, []string{"c", "a", "b"}, []string{listed[0].Title, listed[1].Title, listed[2].Title})

	status, _ = h.do(http.MethodDelete, "/tasks/"+ids[0], token, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = h.do(http.MethodDelete, "/tasks/"+ids[0], token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCategories_UniquePerOwner(t *testing.T) {
	h := newHarness(t)
	ada := h.signUp("ada@example.com")
	bob := h.signUp("bob@example.com")

	status, body := h.do(http.MethodPost, "/categories", ada, map[string]any{"name": "Work"})
	require.Equal(t, http.StatusCreated, status)
	cat := decode[categoryResponse](t, body)

	status, _ = h.do(http.MethodPost, "/categories", ada, map[string]any{"name": "Work"})
	assert.Equal(t, http.StatusConflict, status)

	status, _ = h.do(http.MethodPost, "/categories", bob, map[string]any{"name": "Work"})
	assert.Equal(t, http.StatusCreated, status)

	status, body = h.do(http.MethodPatch, "/categories/"+cat.ID, ada, map[string]any{"name": " Deep work "})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Deep work", decode[categoryResponse](t, body).Name)

	status, _ = h.do(http.MethodDelete, "/categories/"+cat.ID, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestCommitments_CommitBreakdownAndSchedule(t *testing.T) {
	h := newHarness(t)
	token := h.signUp("ada@example.com")

	_, body := h.do(http.MethodPost, "/tasks", token, map[string]any{"title": "Launch"})
	task := decode[taskResponse](t, body)

	status, body := h.do(http.MethodPost, "/commitments", token, map[string]any{
		"task_id": task.ID, "timeframe": "weekly", "section": "focus", "date": "2026-03-12",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	weekly := decode[commitmentResponse](t, body)
	assert.Equal(t, "2026-03-09", weekly.CommitmentDate)
	assert.Equal(t, "target", weekly.Section)

	status, body = h.do(http.MethodPost, "/commitments/"+weekly.ID+"/breakdown", token, map[string]any{
		"timeframe": "daily", "date": "2026-03-11",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	daily := decode[commitmentResponse](t, body)
	require.NotNil(t, daily.ParentCommitmentID)
	assert.Equal(t, weekly.ID, *daily.ParentCommitmentID)

	status, _ = h.do(http.MethodPost, "/commitments/"+weekly.ID+"/breakdown", token, map[string]any{
		"timeframe": "daily", "date": "2026-03-20",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = h.do(http.MethodGet, "/commitments/"+weekly.ID+"/children", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]commitmentResponse](t, body), 1)

	status, body = h.do(http.MethodPost, "/commitments/"+daily.ID+"/schedule", token, map[string]any{
		"time": "09:30", "duration_minutes": 45,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	scheduled := decode[commitmentResponse](t, body)
	require.NotNil(t, scheduled.ScheduledTime)
	assert.Equal(t, "09:30", *scheduled.ScheduledTime)

	status, body = h.do(http.MethodGet, "/commitments?timeframe=daily&date=2026-03-11", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]commitmentResponse](t, body), 1)

	status, _ = h.do(http.MethodPost, "/commitments", token, map[string]any{"task_id": "missing", "timeframe": "daily"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSuggestions_FromStoredTask(t *testing.T) {
	h := newHarness(t)
	token := h.signUp("ada@example.com")

	_, body := h.do(http.MethodPost, "/tasks", token, map[string]any{"title": "Errands"})
	parent := decode[taskResponse](t, body)
	h.do(http.MethodPost, "/tasks/"+parent.ID+"/subtasks", token, map[string]any{"title": "Buy milk"})

	h.backend.resp = &intelligence.SuggestionResponse{Subtasks: []string{"Buy Milk", "Call Sam", "call sam"}}
	status, body := h.do(http.MethodPost, "/suggestions/subtasks", token, map[string]any{"task_id": parent.ID})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.JSONEq(t, `{"subtasks":["Call Sam"]}`, string(body))
	assert.Equal(t, "Errands", h.backend.last.Title)
	assert.Equal(t, []string{"Buy milk"}, h.backend.last.ExistingSubtasks)
}

func TestSuggestions_BackendFailureIsBadGateway(t *testing.T) {
	h := newHarness(t)
	token := h.signUp("ada@example.com")

	h.backend.err = errors.New("model offline")
	status, body := h.do(http.MethodPost, "/suggestions/subtasks", token, map[string]any{"title": "Move house"})
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "suggestion_failed", decode[ErrorResponse](t, body).Error)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("listing: %w", domain.ErrTransportFailure), http.StatusServiceUnavailable, "backend_unavailable"},
		{testutil.NewFailOnNthExec(nil, 1).Err, http.StatusServiceUnavailable, "backend_unavailable"},
		{domain.ErrSuggestionFailed, http.StatusBadGateway, "suggestion_failed"},
		{fiber.ErrMethodNotAllowed, http.StatusMethodNotAllowed, "method_not_allowed"},
		{errors.New("boom"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		status, code := statusFor(tt.err)
		assert.Equal(t, tt.status, status, tt.err.Error())
		assert.Equal(t, tt.code, code)
	}
}
