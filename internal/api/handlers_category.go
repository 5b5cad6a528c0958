package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/alexanderramin/tasker/internal/domain"
)

func (h *handlers) listCategories(c *fiber.Ctx) error {
	cats, err := h.svcs.Categories.List(c.UserContext(), ownerID(c))
	if err != nil {
		return err
	}
	out := make([]categoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, toCategoryResponse(cat))
	}
	return c.JSON(out)
}

func (h *handlers) createCategory(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := parseBody(c, &req); err != nil {
		return err
	}
	cat, err := h.svcs.Categories.Create(c.UserContext(), ownerID(c), req.Name)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toCategoryResponse(cat))
}

func (h *handlers) getCategory(c *fiber.Ctx) error {
	cat, err := h.svcs.Categories.Get(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toCategoryResponse(cat))
}

func (h *handlers) updateCategory(c *fiber.Ctx) error {
	d, err := newPatchDecoder(c)
	if err != nil {
		return err
	}
	p := domain.CategoryPatch{
		Name:      patchField[string](d, "name"),
		SortOrder: patchField[int](d, "sort_order"),
		Type:      patchField[string](d, "type"),
	}
	if err := d.finish(); err != nil {
		return err
	}
	cat, err := h.svcs.Categories.Update(c.UserContext(), ownerID(c), c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(toCategoryResponse(cat))
}

func (h *handlers) deleteCategory(c *fiber.Ctx) error {
	if err := h.svcs.Categories.Delete(c.UserContext(), ownerID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) reorderCategories(c *fiber.Ctx) error {
	var req idsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.svcs.Categories.Reorder(c.UserContext(), ownerID(c), req.IDs); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
