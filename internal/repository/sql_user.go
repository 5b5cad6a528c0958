package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/tasker/internal/db"
	"github.com/alexanderramin/tasker/internal/domain"
)

// SQLUserRepo implements UserRepo. Emails are stored lowercased.
type SQLUserRepo struct {
	db db.DBTX
}

func NewSQLUserRepo(conn db.DBTX) *SQLUserRepo {
	return &SQLUserRepo{db: conn}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *SQLUserRepo) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, created_date) VALUES (?, ?, ?, ?)`,
		u.ID, normalizeEmail(u.Email), nullableString(u.PasswordHash), formatTimestamp(u.CreatedDate))
	if err != nil {
		return fmt.Errorf("inserting user: %w", db.Classify(err))
	}
	return nil
}

func (r *SQLUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_date FROM users WHERE id = ?`, id)
	return scanUser(row, id)
}

func (r *SQLUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_date FROM users WHERE email = ?`, normalizeEmail(email))
	return scanUser(row, email)
}

func (r *SQLUserRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("updating password: %w", db.Classify(err))
	}
	return requireAffected(res, "user", id)
}

func scanUser(row *sql.Row, key string) (*domain.User, error) {
	var u domain.User
	var hash sql.NullString
	var created string
	if err := row.Scan(&u.ID, &u.Email, &hash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", key, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning user: %w", db.Classify(err))
	}
	u.PasswordHash = stringFromNull(hash)
	var err error
	if u.CreatedDate, err = parseTimestamp(created); err != nil {
		return nil, fmt.Errorf("parsing created_date: %w", err)
	}
	return &u, nil
}

// SQLIdentityRepo implements IdentityRepo.
type SQLIdentityRepo struct {
	db db.DBTX
}

func NewSQLIdentityRepo(conn db.DBTX) *SQLIdentityRepo {
	return &SQLIdentityRepo{db: conn}
}

func (r *SQLIdentityRepo) Create(ctx context.Context, i *domain.Identity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_identities (provider, subject, user_id, created_date) VALUES (?, ?, ?, ?)`,
		string(i.Provider), i.Subject, i.UserID, formatTimestamp(i.CreatedDate))
	if err != nil {
		return fmt.Errorf("inserting identity: %w", db.Classify(err))
	}
	return nil
}

func (r *SQLIdentityRepo) Get(ctx context.Context, provider domain.IdentityProvider, subject string) (*domain.Identity, error) {
	var i domain.Identity
	var p, created string
	err := r.db.QueryRowContext(ctx,
		`SELECT provider, subject, user_id, created_date FROM user_identities WHERE provider = ? AND subject = ?`,
		string(provider), subject).Scan(&p, &i.Subject, &i.UserID, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("identity %s/%s: %w", provider, subject, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning identity: %w", db.Classify(err))
	}
	i.Provider = domain.IdentityProvider(p)
	if i.CreatedDate, err = parseTimestamp(created); err != nil {
		return nil, fmt.Errorf("parsing created_date: %w", err)
	}
	return &i, nil
}

// SQLPasswordResetRepo implements PasswordResetRepo.
type SQLPasswordResetRepo struct {
	db db.DBTX
}

func NewSQLPasswordResetRepo(conn db.DBTX) *SQLPasswordResetRepo {
	return &SQLPasswordResetRepo{db: conn}
}

func (r *SQLPasswordResetRepo) Create(ctx context.Context, pr *domain.PasswordReset) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_resets (token_hash, user_id, expires_at, used_at) VALUES (?, ?, ?, ?)`,
		pr.TokenHash, pr.UserID, formatTimestamp(pr.ExpiresAt), nullableTimestamp(pr.UsedAt))
	if err != nil {
		return fmt.Errorf("inserting password reset: %w", db.Classify(err))
	}
	return nil
}

func (r *SQLPasswordResetRepo) GetByHash(ctx context.Context, tokenHash string) (*domain.PasswordReset, error) {
	var pr domain.PasswordReset
	var expires string
	var used sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT token_hash, user_id, expires_at, used_at FROM password_resets WHERE token_hash = ?`,
		tokenHash).Scan(&pr.TokenHash, &pr.UserID, &expires, &used)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("password reset: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scanning password reset: %w", db.Classify(err))
	}
	if pr.ExpiresAt, err = parseTimestamp(expires); err != nil {
		return nil, fmt.Errorf("parsing expires_at: %w", err)
	}
	pr.UsedAt = parseNullableTime(used, timestampLayout)
	return &pr, nil
}

// MarkUsed consumes an unused token. A token already used matches nothing
// and yields ErrNotFound.
func (r *SQLPasswordResetRepo) MarkUsed(ctx context.Context, tokenHash string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE password_resets SET used_at = ? WHERE token_hash = ? AND used_at IS NULL`,
		formatTimestamp(at), tokenHash)
	if err != nil {
		return fmt.Errorf("consuming password reset: %w", db.Classify(err))
	}
	return requireAffected(res, "password reset", "token")
}

// SQLRevokedTokenRepo implements RevokedTokenRepo.
type SQLRevokedTokenRepo struct {
	db db.DBTX
}

func NewSQLRevokedTokenRepo(conn db.DBTX) *SQLRevokedTokenRepo {
	return &SQLRevokedTokenRepo{db: conn}
}

func (r *SQLRevokedTokenRepo) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	isRevoked, err := r.IsRevoked(ctx, tokenID, time.Time{})
	if err != nil {
		return err
	}
	if isRevoked {
		return nil
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO revoked_tokens (token_id, expires_at) VALUES (?, ?)`,
		tokenID, formatTimestamp(expiresAt))
	if err != nil {
		return fmt.Errorf("revoking token: %w", db.Classify(err))
	}
	return nil
}

// IsRevoked reports whether tokenID is revoked and its record has not yet
// expired at now.
func (r *SQLRevokedTokenRepo) IsRevoked(ctx context.Context, tokenID string, now time.Time) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM revoked_tokens WHERE token_id = ? AND expires_at > ?`,
		tokenID, formatTimestamp(now)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("checking revoked token: %w", db.Classify(err))
	}
	return n > 0, nil
}

func (r *SQLRevokedTokenRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM revoked_tokens WHERE expires_at <= ?`, formatTimestamp(now))
	if err != nil {
		return 0, fmt.Errorf("purging revoked tokens: %w", db.Classify(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return n, nil
}
