package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/alexanderramin/tasker/internal/domain"
)

type suggestRequest struct {
	// TaskID, when set, supplies title, description and existing subtasks
	// from the stored task.
	TaskID           string   `json:"task_id"`
	Title            string   `json:"title"`
	Description      *string  `json:"description"`
	ExistingSubtasks []string `json:"existingSubtasks"`
}

func (h *handlers) suggestSubtasks(c *fiber.Ctx) error {
	if h.svcs.Suggestions == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "suggestions are not configured")
	}
	var req suggestRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	title, desc, existing := req.Title, req.Description, req.ExistingSubtasks
	if req.TaskID != "" {
		ctx, owner := c.UserContext(), ownerID(c)
		t, err := h.svcs.Tasks.Get(ctx, owner, req.TaskID)
		if err != nil {
			return err
		}
		subs, err := h.svcs.Tasks.ListSubtasks(ctx, owner, t.ID)
		if err != nil {
			return err
		}
		title, desc = t.Title, t.Description
		existing = make([]string, 0, len(subs))
		for _, s := range subs {
			existing = append(existing, s.Title)
		}
	}
	if title == "" {
		return fmt.Errorf("%w: title or task_id is required", domain.ErrInvalidInput)
	}

	suggestions, err := h.svcs.Suggestions.SuggestSubtasks(c.UserContext(), title, desc, existing)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"subtasks": suggestions})
}
