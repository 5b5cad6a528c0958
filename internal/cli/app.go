package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/identity"
	"github.com/alexanderramin/tasker/internal/intelligence"
	"github.com/alexanderramin/tasker/internal/service"
)

// TokenEnv overrides the stored session token.
const TokenEnv = "TASKER_TOKEN"

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Identity    identity.Service
	Tasks       service.TaskService
	Categories  service.CategoryService
	Commitments service.CommitmentService
	// Suggestions is nil when no suggestion backend is configured.
	Suggestions intelligence.SuggestionService

	Logger *zap.Logger

	// Bootstrap wires the fields above from the config file at path. It runs
	// before every command; nil when the App is assembled directly.
	Bootstrap func(path string) error

	// Closers release storage and clients. They run once, on Close or on
	// server shutdown.
	Closers map[string]func(context.Context) error

	HTTPAddr        string
	ShutdownTimeout time.Duration

	// SessionFile stores the access token between invocations. Empty
	// disables persistence.
	SessionFile string

	IsInteractive func() bool
	Now           func() time.Time

	token  string
	closed bool
}

// DefaultSessionFile returns ~/.tasker/session.
func DefaultSessionFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tasker", "session")
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// Close runs the registered closers once.
func (a *App) Close(ctx context.Context) error {
	if a.closed {
		return nil
	}
	a.closed = true
	var errs []error
	for name, fn := range a.Closers {
		if err := fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("closing %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// accessToken resolves the session token: --token, then $TASKER_TOKEN, then
// the session file.
func (a *App) accessToken() string {
	if a.token != "" {
		return a.token
	}
	if env := os.Getenv(TokenEnv); env != "" {
		return env
	}
	if a.SessionFile == "" {
		return ""
	}
	data, err := os.ReadFile(a.SessionFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (a *App) saveSession(sess *identity.Session) error {
	a.token = sess.AccessToken
	if a.SessionFile == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(a.SessionFile), 0o700); err != nil {
		return fmt.Errorf("creating session directory: %w", err)
	}
	if err := os.WriteFile(a.SessionFile, []byte(sess.AccessToken+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

func (a *App) clearSession() error {
	a.token = ""
	if a.SessionFile == "" {
		return nil
	}
	if err := os.Remove(a.SessionFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session: %w", err)
	}
	return nil
}

// owner authenticates the current session and returns the owner id.
func (a *App) owner(ctx context.Context) (string, error) {
	token := a.accessToken()
	if token == "" {
		return "", fmt.Errorf("%w: not signed in (run 'tasker auth signin')", domain.ErrAuthFailure)
	}
	return a.Identity.Authenticate(ctx, token)
}
