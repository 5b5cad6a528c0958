package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexanderramin/tasker/internal/domain"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *handlers) signUp(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sess, err := h.svcs.Identity.SignUp(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sess)
}

func (h *handlers) signIn(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sess, err := h.svcs.Identity.SignIn(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(sess)
}

func (h *handlers) signInWithOAuth(c *fiber.Ctx) error {
	provider, err := domain.ParseIdentityProvider(c.Params("provider"))
	if err != nil {
		return err
	}
	var req struct {
		IDToken string `json:"id_token"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sess, err := h.svcs.Identity.SignInWithOAuth(c.UserContext(), provider, req.IDToken)
	if err != nil {
		return err
	}
	return c.JSON(sess)
}

// requestPasswordReset always answers 202 so callers cannot probe which
// emails have accounts.
func (h *handlers) requestPasswordReset(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.svcs.Identity.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (h *handlers) resetPassword(c *fiber.Ctx) error {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.svcs.Identity.ResetPassword(c.UserContext(), req.Token, req.Password); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) signOut(c *fiber.Ctx) error {
	token, _ := c.Locals(tokenKey).(string)
	if err := h.svcs.Identity.SignOut(c.UserContext(), token); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
