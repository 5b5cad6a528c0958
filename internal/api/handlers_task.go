package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/alexanderramin/tasker/internal/domain"
)

func (h *handlers) listTasks(c *fiber.Ctx) error {
	f := domain.TaskFilter{
		ParentTaskID: queryRef(c, "parent_id"),
		ProjectID:    queryRef(c, "project_id"),
		CategoryID:   queryRef(c, "category_id"),
	}
	if v := c.Query("type"); v != "" {
		tt, err := domain.ParseTaskType(v)
		if err != nil {
			return err
		}
		f.Type = &tt
	}
	var err error
	if f.IsCompleted, err = queryBool(c, "completed"); err != nil {
		return err
	}
	if f.IsInLibrary, err = queryBool(c, "library"); err != nil {
		return err
	}
	if f.CompletedAfter, err = queryTime(c, "completed_after", parseTimestamp); err != nil {
		return err
	}
	if f.CompletedBefore, err = queryTime(c, "completed_before", parseTimestamp); err != nil {
		return err
	}

	tasks, err := h.svcs.Tasks.List(c.UserContext(), ownerID(c), f)
	if err != nil {
		return err
	}
	return c.JSON(toTaskResponses(tasks))
}

func (h *handlers) createTask(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	t := &domain.Task{
		Title:        req.Title,
		Description:  req.Description,
		IsInLibrary:  req.IsInLibrary,
		CategoryID:   req.CategoryID,
		ProjectID:    req.ProjectID,
		ParentTaskID: req.ParentTaskID,
	}
	if req.Type != "" {
		tt, err := domain.ParseTaskType(req.Type)
		if err != nil {
			return err
		}
		t.Type = tt
	}
	if req.Priority != "" {
		p, err := domain.ParsePriority(req.Priority)
		if err != nil {
			return err
		}
		t.Priority = p
	}

	var err error
	if req.SortOrder != nil {
		t.SortOrder = *req.SortOrder
		err = h.svcs.Tasks.Create(c.UserContext(), ownerID(c), t)
	} else {
		err = h.svcs.Tasks.Append(c.UserContext(), ownerID(c), t)
	}
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(t))
}

func (h *handlers) getTask(c *fiber.Ctx) error {
	t, err := h.svcs.Tasks.Get(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toTaskResponse(t))
}

func (h *handlers) updateTask(c *fiber.Ctx) error {
	d, err := newPatchDecoder(c)
	if err != nil {
		return err
	}
	p := domain.TaskPatch{
		Title:           patchField[string](d, "title"),
		Description:     patchField[*string](d, "description"),
		Type:            patchParsed(d, "type", domain.ParseTaskType),
		IsCompleted:     patchField[bool](d, "is_completed"),
		CompletedDate:   patchNullableParsed(d, "completed_date", parseTimestamp),
		SortOrder:       patchField[int](d, "sort_order"),
		IsInLibrary:     patchField[bool](d, "is_in_library"),
		SubtaskSnapshot: patchField[[]bool](d, "previous_subtask_states"),
		Priority:        patchParsed(d, "priority", domain.ParsePriority),
		CategoryID:      patchField[*string](d, "category_id"),
		ProjectID:       patchField[*string](d, "project_id"),
		ParentTaskID:    patchField[*string](d, "parent_task_id"),
	}
	if err := d.finish(); err != nil {
		return err
	}
	t, err := h.svcs.Tasks.Update(c.UserContext(), ownerID(c), c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(toTaskResponse(t))
}

func (h *handlers) deleteTask(c *fiber.Ctx) error {
	if err := h.svcs.Tasks.Delete(c.UserContext(), ownerID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) completeTask(c *fiber.Ctx) error {
	return h.setCompleted(c, true)
}

func (h *handlers) uncompleteTask(c *fiber.Ctx) error {
	return h.setCompleted(c, false)
}

func (h *handlers) setCompleted(c *fiber.Ctx, completed bool) error {
	t, err := h.svcs.Tasks.SetCompleted(c.UserContext(), ownerID(c), c.Params("id"), completed)
	if err != nil {
		return err
	}
	return c.JSON(toTaskResponse(t))
}

func (h *handlers) undoCompletion(c *fiber.Ctx) error {
	t, err := h.svcs.Tasks.UndoCompletion(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toTaskResponse(t))
}

func (h *handlers) moveToLibrary(c *fiber.Ctx) error {
	var req struct {
		InLibrary *bool `json:"in_library"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.InLibrary == nil {
		return fmt.Errorf("%w: in_library is required", domain.ErrInvalidInput)
	}
	if err := h.svcs.Tasks.MoveToLibrary(c.UserContext(), ownerID(c), c.Params("id"), *req.InLibrary); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) listSubtasks(c *fiber.Ctx) error {
	subs, err := h.svcs.Tasks.ListSubtasks(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toTaskResponses(subs))
}

func (h *handlers) addSubtask(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sub, err := h.svcs.Tasks.AddSubtask(c.UserContext(), ownerID(c), c.Params("id"), req.Title)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toTaskResponse(sub))
}

func (h *handlers) restoreSubtasks(c *fiber.Ctx) error {
	var req struct {
		States []bool `json:"states"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.svcs.Tasks.RestoreSubtaskStates(c.UserContext(), ownerID(c), c.Params("id"), req.States); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) reorderTasks(c *fiber.Ctx) error {
	var req idsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.svcs.Tasks.Reorder(c.UserContext(), ownerID(c), req.IDs); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
