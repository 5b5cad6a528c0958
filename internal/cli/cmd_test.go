package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

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
	subtasks []string
	last     intelligence.SuggestionRequest
}

func (b *stubBackend) Suggest(_ context.Context, req intelligence.SuggestionRequest) (*intelligence.SuggestionResponse, error) {
	b.last = req
	return &intelligence.SuggestionResponse{Subtasks: b.subtasks}, nil
}

// testApp wires a full App backed by an in-memory DB for CLI integration tests.
func testApp(t *testing.T) (*App, *stubBackend) {
	t.Helper()
	t.Setenv(TokenEnv, "")
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
	backend := &stubBackend{}
	return &App{
		Identity:    ids,
		Tasks:       service.NewTaskService(tasks, categories),
		Categories:  service.NewCategoryService(categories),
		Commitments: service.NewCommitmentService(repository.NewSQLCommitmentRepo(database), tasks),
		Suggestions: intelligence.NewSuggestionService(backend),
		SessionFile: filepath.Join(t.TempDir(), "session"),
		Now:         func() time.Time { return time.Date(2026, 3, 11, 15, 0, 0, 0, time.UTC) },
	}, backend
}

// executeCmd runs a cobra command and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

// signedIn creates an account through the CLI and returns the owner id.
func signedIn(t *testing.T, app *App) string {
	t.Helper()
	_, err := executeCmd(t, app, "auth", "signup", "--email", "sam@example.com", "--password", "correct horse")
	require.NoError(t, err)
	owner, err := app.owner(context.Background())
	require.NoError(t, err)
	return owner
}

func onlyTask(t *testing.T, app *App, owner, title string) *domain.Task {
	t.Helper()
	tasks, err := app.Tasks.List(context.Background(), owner, domain.TaskFilter{})
	require.NoError(t, err)
	for _, task := range tasks {
		if task.Title == title {
			return task
		}
	}
	t.Fatalf("task %q not found", title)
	return nil
}

// --- Root ---

func TestRootCmd_NoArgs_ShowsHelp(t *testing.T) {
	app, _ := testApp(t)

	output, err := executeCmd(t, app)
	require.NoError(t, err)
	assert.Contains(t, output, "tasker")
}

func TestRootCmd_BootstrapRunsWithConfigPath(t *testing.T) {
	app, _ := testApp(t)
	var got string
	app.Bootstrap = func(path string) error {
		got = path
		return nil
	}

	_, err := executeCmd(t, app, "--config", "/tmp/tasker.yaml", "auth", "signup", "--email", "a@example.com", "--password", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tasker.yaml", got)
}

// --- auth ---

func TestAuth_RequiresSession(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "task", "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthFailure)
}

func TestAuth_SignUpPersistsSession(t *testing.T) {
	app, _ := testApp(t)
	owner := signedIn(t, app)

	data, err := os.ReadFile(app.SessionFile)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	output, err := executeCmd(t, app, "auth", "whoami")
	require.NoError(t, err)
	assert.Contains(t, output, owner)
}

func TestAuth_PasswordRequiredWhenNotInteractive(t *testing.T) {
	app, _ := testApp(t)

	_, err := executeCmd(t, app, "auth", "signin", "--email", "sam@example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuth_SignOutRevokesAndClears(t *testing.T) {
	app, _ := testApp(t)
	signedIn(t, app)
	token := app.accessToken()

	_, err := executeCmd(t, app, "auth", "signout")
	require.NoError(t, err)
	assert.NoFileExists(t, app.SessionFile)

	_, err = executeCmd(t, app, "--token", token, "task", "list")
	assert.ErrorIs(t, err, domain.ErrAuthFailure)
}

func TestAuth_TokenFlagOverridesSession(t *testing.T) {
	app, _ := testApp(t)
	signedIn(t, app)

	_, err := executeCmd(t, app, "--token", "garbage", "task", "list")
	assert.ErrorIs(t, err, domain.ErrAuthFailure)
}

// --- task ---

func TestTaskCmd_AddListShow(t *testing.T) {
	app, _ := testApp(t)
	owner := signedIn(t, app)

	_, err := executeCmd(t, app, "task", "add", "Plan", "trip", "--priority", "high", "--type", "project", "--notes", "pack light")
	require.NoError(t, err)
	trip := onlyTask(t, app, owner, "Plan trip")
	assert.Equal(t, domain.PriorityHigh, trip.Priority)
	assert.Equal(t, domain.TaskTypeProject, trip.Type)

	_, err = executeCmd(t, app, "task", "subtask", trip.ID[:8], "Book flights")
	require.NoError(t, err)

	output, err := executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Plan trip")
	assert.NotContains(t, output, "Book flights")

	output, err = executeCmd(t, app, "task", "show", trip.ID[:8])
	require.NoError(t, err)
	assert.Contains(t, output, "pack light")
	assert.Contains(t, output, "Book flights")
}

func TestTaskCmd_InvalidPriorityFlag(t *testing.T) {
	app, _ := testApp(t)
	signedIn(t, app)

	_, err := executeCmd(t, app, "task", "add", "x", "--priority", "urgent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--priority")
}

func TestTaskCmd_UpdateClearsNotes(t *testing.T) {
	app, _ := testApp(t)
	owner := signedIn(t, app)

	_, err := executeCmd(t, app, "task", "add", "Write", "--notes", "draft")
	require.NoError(t, err)
	task := onlyTask(t, app, owner, "Write")

	_, err = executeCmd(t, app, "task", "update", task.ID, "--notes", "", "--title", "Write report")
	require.NoError(t, err)

	got, err := app.Tasks.Get(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Write report", got.Title)
	assert.Nil(t, got.Description)

	_, err = executeCmd(t, app, "task", "update", task.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTaskCmd_CompleteCascadesAndUndoRestores(t *testing.T) {
	app, _ := testApp(t)
	owner := signedIn(t, app)
	ctx := context.Background()

	_, err := executeCmd(t, app, "task", "add", "Trip")
	require.NoError(t, err)
	trip := onlyTask(t, app, owner, "Trip")
	for _, title := range []string{"Flights", "Hotel"} {
		_, err = executeCmd(t, app, "task", "subtask", trip.ID, title)
		require.NoError(t, err)
	}
	_, err = executeCmd(t, app, "task", "complete", onlyTask(t, app, owner, "Flights").ID)
	require.NoError(t, err)

	_, err = executeCmd(t, app, "task", "complete", trip.ID)
	require.NoError(t, err)
	subs, err := app.Tasks.ListSubtasks(ctx, owner, trip.ID)
	require.NoError(t, err)
	for _, s := range subs {
		assert.True(t, s.IsCompleted, s.Title)
	}

	_, err = executeCmd(t, app, "task", "undo", trip.ID)
	require.NoError(t, err)
	subs, err = app.Tasks.ListSubtasks(ctx, owner, trip.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.True(t, subs[0].IsCompleted)
	assert.False(t, subs[1].IsCompleted)
}

func TestTaskCmd_RestoreParsesStates(t *testing.T) {
	app, _ := testApp(t)
	owner := signedIn(t, app)

	_, err := executeCmd(t, app, "task", "add", "List")
	require.NoError(t, err)
	parent := onlyTask(t, app, owner, "List")
	_, err = executeCmd(t, app, "task", "subtask", parent.ID, "one")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "task", "restore", parent.ID, "maybe")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCmd(t, app, "task", "restore", parent.ID, "true")
	require.NoError(t, err)
	assert.True(t, onlyTask(t, app, owner, "one").IsCompleted)
}

func TestTaskCmd_RemoveNeedsConfirmation(t *testing.T) {
	app, _ := testApp(t)
	owner := signedIn(t, app)

	_, err := executeCmd(t, app, "task", "add", "Temp")
	require.NoError(t, err)
	task := onlyTask(t, app, owner, "Temp")

	_, err = executeCmd(t, app, "task", "rm", task.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCmd(t, app, "task", "rm", task.ID, "--yes")
	require.NoError(t, err)
	_, err = app.Tasks.Get(context.Background(), owner, task.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTaskCmd_LibraryMovesOutOfActiveList(t *testing.T) {
	app, _ := testApp(t)
	owner := signedIn(t, app)

	_, err := executeCmd(t, app, "task", "add", "Someday")
	require.NoError(t, err)
	task := onlyTask(t, app, owner, "Someday")

	_, err = executeCmd(t, app, "task", "library", task.ID)
	require.NoError(t, err)

	output, err := executeCmd(t, app, "task", "list")
	require.NoError(t, err)
	assert.NotContains(t, output, "Someday")

	output, err = executeCmd(t, app, "task", "list", "--library")
	require.NoError(t, err)
	assert.Contains(t, output, "Someday")
}

// --- category ---

func TestCategoryCmd_AddRenameAndTag(t *testing.T) {
	app, _ := testApp(t)
	owner := signedIn(t, app)

	_, err := executeCmd(t, app, "category", "add", "Work")
	require.NoError(t, err)
	_, err = executeCmd(t, app, "category", "add", "Work")
	assert.ErrorIs(t, err, domain.ErrConstraintViolation)

	_, err = executeCmd(t, app, "category", "rename", "work", "Office")
	require.NoError(t, err)

	_, err = executeCmd(t, app, "task", "add", "Report", "--category", "Office")
	require.NoError(t, err)
	task := onlyTask(t, app, owner, "Report")
	require.NotNil(t, task.CategoryID)

	output, err := executeCmd(t, app, "category", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "Office")
}

// --- commit ---

func TestCommitCmd_AddBreakdownSchedule(t *testing.T) {
	app, _ := testApp(t)
	owner := signedIn(t, app)
	ctx := context.Background()

	_, err := executeCmd(t, app, "task", "add", "Exercise")
	require.NoError(t, err)
	task := onlyTask(t, app, owner, "Exercise")

	output, err := executeCmd(t, app, "commit", "add", task.ID, "--timeframe", "weekly", "--date", "2026-03-11", "--section", "target")
	require.NoError(t, err)
	assert.Contains(t, output, "2026-03-09")

	weekly, err := app.Commitments.List(ctx, owner, domain.CommitmentFilter{})
	require.NoError(t, err)
	require.Len(t, weekly, 1)

	_, err = executeCmd(t, app, "commit", "breakdown", weekly[0].ID, "--date", "2026-03-20")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = executeCmd(t, app, "commit", "breakdown", weekly[0].ID, "--date", "2026-03-12")
	require.NoError(t, err)
	children, err := app.Commitments.ListChildren(ctx, owner, weekly[0].ID)
	require.NoError(t, err)
	require.Len(t, children, 1)

	output, err = executeCmd(t, app, "commit", "schedule", children[0].ID, "--at", "09:30", "--duration", "45")
	require.NoError(t, err)
	assert.Contains(t, output, "09:30")

	output, err = executeCmd(t, app, "commit", "list", "--date", "2026-03-12")
	require.NoError(t, err)
	assert.Contains(t, output, "Exercise")
	assert.Contains(t, output, "45m")

	_, err = executeCmd(t, app, "commit", "schedule", children[0].ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCommitCmd_ListDefaultsToToday(t *testing.T) {
	app, _ := testApp(t)
	signedIn(t, app)

	output, err := executeCmd(t, app, "commit", "list")
	require.NoError(t, err)
	assert.Contains(t, output, "No commitments.")
}

// --- suggest ---

func TestSuggestCmd_AddsNewSuggestions(t *testing.T) {
	app, backend := testApp(t)
	owner := signedIn(t, app)

	_, err := executeCmd(t, app, "task", "add", "Move house")
	require.NoError(t, err)
	task := onlyTask(t, app, owner, "Move house")
	_, err = executeCmd(t, app, "task", "subtask", task.ID, "Pack")
	require.NoError(t, err)

	backend.subtasks = []string{"Book van", " pack ", ""}
	output, err := executeCmd(t, app, "suggest", task.ID, "--add")
	require.NoError(t, err)
	assert.Contains(t, output, "Book van")
	assert.Equal(t, []string{"Pack"}, backend.last.ExistingSubtasks)

	subs, err := app.Tasks.ListSubtasks(context.Background(), owner, task.ID)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "Book van", subs[1].Title)
}

func TestSuggestCmd_NotConfigured(t *testing.T) {
	app, _ := testApp(t)
	signedIn(t, app)
	app.Suggestions = nil

	_, err := executeCmd(t, app, "suggest", "abc")
	assert.ErrorIs(t, err, domain.ErrSuggestionFailed)
}

// --- helpers ---

func TestResolveID(t *testing.T) {
	ids := []string{"abc123", "abd456", "abc"}

	got, err := resolveID("task", "abc", ids)
	require.NoError(t, err)
	assert.Equal(t, "abc", got, "exact match wins over prefix")

	got, err = resolveID("task", "abd", ids)
	require.NoError(t, err)
	assert.Equal(t, "abd456", got)

	_, err = resolveID("task", "ab", ids)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = resolveID("task", "zz", ids)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppClose_RunsClosersOnce(t *testing.T) {
	calls := 0
	app := &App{Closers: map[string]func(context.Context) error{
		"db": func(context.Context) error { calls++; return nil },
	}}

	require.NoError(t, app.Close(context.Background()))
	require.NoError(t, app.Close(context.Background()))
	assert.Equal(t, 1, calls)
}
