package identity

import (
	"context"

	"go.uber.org/zap"
)

// ResetNotifier delivers a password reset token to the account holder.
type ResetNotifier interface {
	SendPasswordReset(ctx context.Context, email, token string) error
}

type logResetNotifier struct {
	logger *zap.Logger
}

// NewLogResetNotifier logs reset tokens instead of mailing them. Intended for
// local development only.
func NewLogResetNotifier(logger *zap.Logger) ResetNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &logResetNotifier{logger: logger.Named("identity")}
}

func (n *logResetNotifier) SendPasswordReset(_ context.Context, email, token string) error {
	n.logger.Info("password reset requested", zap.String("email", email))
	n.logger.Debug("password reset token", zap.String("email", email), zap.String("token", token))
	return nil
}
