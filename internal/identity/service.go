package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/alexanderramin/tasker/internal/db"
	"github.com/alexanderramin/tasker/internal/domain"
	"github.com/alexanderramin/tasker/internal/repository"
	"github.com/alexanderramin/tasker/internal/service"
	"github.com/google/uuid"
)

// Service is the identity boundary.
type Service interface {
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignInWithOAuth(ctx context.Context, provider domain.IdentityProvider, idToken string) (*Session, error)
	// RequestPasswordReset succeeds silently for unknown emails.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	// Authenticate resolves an access token to the owner id.
	Authenticate(ctx context.Context, accessToken string) (string, error)
	SignOut(ctx context.Context, accessToken string) error
}

type identityService struct {
	cfg         Config
	users       repository.UserRepo
	resets      repository.PasswordResetRepo
	uow         db.UnitOfWork
	revocations RevocationStore
	notifier    ResetNotifier
	observer    service.UseCaseObserver

	hasher   *passwordHasher
	tokens   *tokenManager
	oauth    *oauthVerifier
	newToken func() string
}

// NewService wires the identity boundary. Writes spanning several tables run
// inside uow with transaction-scoped repositories.
func NewService(
	cfg Config,
	users repository.UserRepo,
	resets repository.PasswordResetRepo,
	uow db.UnitOfWork,
	revocations RevocationStore,
	notifier ResetNotifier,
	observer service.UseCaseObserver,
) (Service, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("identity: jwt secret is required")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = DefaultConfig().AccessTTL
	}
	if cfg.ResetTTL <= 0 {
		cfg.ResetTTL = DefaultConfig().ResetTTL
	}
	verifier, err := newOAuthVerifier(cfg.Providers)
	if err != nil {
		return nil, err
	}
	gen, err := newResetTokenGenerator()
	if err != nil {
		return nil, err
	}
	if observer == nil {
		observer = service.NoopUseCaseObserver{}
	}
	return &identityService{
		cfg:         cfg,
		users:       users,
		resets:      resets,
		uow:         uow,
		revocations: revocations,
		notifier:    notifier,
		observer:    observer,
		hasher:      newPasswordHasher(cfg.BcryptCost),
		tokens:      newTokenManager(cfg),
		oauth:       verifier,
		newToken:    gen,
	}, nil
}

func (s *identityService) observe(ctx context.Context, name string, startedAt time.Time, err error) {
	s.observer.ObserveUseCase(ctx, service.UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
	})
}

func validateCredentials(email, password string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", domain.ErrInvalidInput)
	}
	return validatePassword(password)
}

func validatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, MinPasswordLength)
	}
	return nil
}

func (s *identityService) SignUp(ctx context.Context, email, password string) (sess *Session, err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "sign-up", startedAt, err) }()

	email = strings.TrimSpace(email)
	if err = validateCredentials(email, password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: &hash,
		CreatedDate:  startedAt,
	}
	if err = s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.tokens.Issue(user.ID, time.Now().UTC())
}

var errBadCredentials = fmt.Errorf("%w: invalid email or password", domain.ErrAuthFailure)

func (s *identityService) SignIn(ctx context.Context, email, password string) (sess *Session, err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "sign-in", startedAt, err) }()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}
	if user.PasswordHash == nil || !s.hasher.Verify(password, *user.PasswordHash) {
		return nil, errBadCredentials
	}
	return s.tokens.Issue(user.ID, time.Now().UTC())
}

// SignInWithOAuth resolves the provider subject to a user: an existing link
// first, then an account with the same verified email (which gets linked),
// otherwise a new password-less account. An unverified email never links and
// is not stored.
func (s *identityService) SignInWithOAuth(ctx context.Context, provider domain.IdentityProvider, idToken string) (sess *Session, err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "sign-in-oauth", startedAt, err) }()

	verified, err := s.oauth.Verify(provider, idToken)
	if err != nil {
		return nil, err
	}
	subject, email := verified.Subject, verified.Email

	var userID string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txUsers := repository.NewSQLUserRepo(tx)
		txIdentities := repository.NewSQLIdentityRepo(tx)

		link, err := txIdentities.Get(ctx, provider, subject)
		if err == nil {
			userID = link.UserID
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		var user *domain.User
		if email != "" {
			user, err = txUsers.GetByEmail(ctx, email)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
		}
		now := time.Now().UTC()
		if user == nil {
			if email == "" {
				email = fmt.Sprintf("%s@%s.invalid", subject, provider)
			}
			user = &domain.User{ID: uuid.New().String(), Email: email, CreatedDate: now}
			if err := txUsers.Create(ctx, user); err != nil {
				return err
			}
		}
		userID = user.ID
		return txIdentities.Create(ctx, &domain.Identity{
			Provider:    provider,
			Subject:     subject,
			UserID:      user.ID,
			CreatedDate: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.tokens.Issue(userID, time.Now().UTC())
}

func (s *identityService) RequestPasswordReset(ctx context.Context, email string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "request-password-reset", startedAt, err) }()

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	token := s.newToken()
	reset := &domain.PasswordReset{
		TokenHash: hashResetToken(token),
		UserID:    user.ID,
		ExpiresAt: startedAt.Add(s.cfg.ResetTTL),
	}
	if err = s.resets.Create(ctx, reset); err != nil {
		return err
	}
	return s.notifier.SendPasswordReset(ctx, user.Email, token)
}

var errBadResetToken = fmt.Errorf("%w: invalid or expired reset token", domain.ErrAuthFailure)

// ResetPassword consumes the token and sets the new password in one
// transaction.
func (s *identityService) ResetPassword(ctx context.Context, token, newPassword string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "reset-password", startedAt, err) }()

	if err = validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txResets := repository.NewSQLPasswordResetRepo(tx)
		txUsers := repository.NewSQLUserRepo(tx)

		reset, err := txResets.GetByHash(ctx, hashResetToken(token))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errBadResetToken
			}
			return err
		}
		now := time.Now().UTC()
		if reset.UsedAt != nil || !now.Before(reset.ExpiresAt) {
			return errBadResetToken
		}
		if err := txResets.MarkUsed(ctx, reset.TokenHash, now); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errBadResetToken
			}
			return err
		}
		return txUsers.UpdatePasswordHash(ctx, reset.UserID, hash)
	})
}

func (s *identityService) Authenticate(ctx context.Context, accessToken string) (string, error) {
	claims, err := s.tokens.Parse(accessToken)
	if err != nil {
		return "", err
	}
	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return "", err
	}
	if revoked {
		return "", fmt.Errorf("%w: session has been signed out", domain.ErrAuthFailure)
	}
	return claims.Subject, nil
}

func (s *identityService) SignOut(ctx context.Context, accessToken string) (err error) {
	startedAt := time.Now().UTC()
	defer func() { s.observe(ctx, "sign-out", startedAt, err) }()

	claims, err := s.tokens.Parse(accessToken)
	if err != nil {
		return err
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}
