package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/alexanderramin/tasker/internal/identity"
)

const (
	ownerIDKey = "owner_id"
	tokenKey   = "access_token"
)

// RequireAuth resolves the bearer token to an owner id and stores it in the
// request locals.
func RequireAuth(ids identity.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "bearer token required")
		}
		ownerID, err := ids.Authenticate(c.UserContext(), token)
		if err != nil {
			return err
		}
		c.Locals(ownerIDKey, ownerID)
		c.Locals(tokenKey, token)
		return c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func ownerID(c *fiber.Ctx) string {
	id, _ := c.Locals(ownerIDKey).(string)
	return id
}

// requestLogger logs one line per request after the error handler has set
// the final status.
func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if id := ownerID(c); id != "" {
			fields = append(fields, zap.String("owner_id", id))
		}
		if status >= fiber.StatusInternalServerError {
			logger.Warn("request", fields...)
		} else {
			logger.Debug("request", fields...)
		}
		return nil
	}
}
