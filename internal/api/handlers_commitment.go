package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/alexanderramin/tasker/internal/domain"
)

func (h *handlers) listCommitments(c *fiber.Ctx) error {
	f := domain.CommitmentFilter{ParentCommitmentID: queryRef(c, "parent_id")}
	if v := c.Query("task_id"); v != "" {
		f.TaskID = &v
	}
	if v := c.Query("timeframe"); v != "" {
		tf, err := domain.ParseTimeframe(v)
		if err != nil {
			return err
		}
		f.Timeframe = &tf
	}
	if v := c.Query("section"); v != "" {
		s, err := domain.ParseSection(v)
		if err != nil {
			return err
		}
		f.Section = &s
	}
	var err error
	if f.Date, err = queryTime(c, "date", parseDate); err != nil {
		return err
	}
	if f.DateFrom, err = queryTime(c, "from", parseDate); err != nil {
		return err
	}
	if f.DateTo, err = queryTime(c, "to", parseDate); err != nil {
		return err
	}

	cs, err := h.svcs.Commitments.List(c.UserContext(), ownerID(c), f)
	if err != nil {
		return err
	}
	return c.JSON(toCommitmentResponses(cs))
}

func (h *handlers) createCommitment(c *fiber.Ctx) error {
	var req createCommitmentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tf, err := domain.ParseTimeframe(req.Timeframe)
	if err != nil {
		return err
	}
	cm := &domain.Commitment{
		TaskID:          req.TaskID,
		Timeframe:       tf,
		DurationMinutes: req.DurationMinutes,
	}
	if req.Section != "" {
		if cm.Section, err = domain.ParseSection(req.Section); err != nil {
			return err
		}
	}
	if cm.CommitmentDate, err = dateOrToday(req.Date); err != nil {
		return err
	}
	if req.ScheduledTime != nil {
		at, err := domain.ParseTimeOfDay(*req.ScheduledTime)
		if err != nil {
			return err
		}
		cm.ScheduledTime = &at
	}
	if err := h.svcs.Commitments.Commit(c.UserContext(), ownerID(c), cm); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toCommitmentResponse(cm))
}

func (h *handlers) getCommitment(c *fiber.Ctx) error {
	cm, err := h.svcs.Commitments.Get(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toCommitmentResponse(cm))
}

func (h *handlers) updateCommitment(c *fiber.Ctx) error {
	d, err := newPatchDecoder(c)
	if err != nil {
		return err
	}
	p := domain.CommitmentPatch{
		Section:         patchParsed(d, "section", domain.ParseSection),
		CommitmentDate:  patchParsed(d, "commitment_date", parseDate),
		SortOrder:       patchField[int](d, "sort_order"),
		ScheduledTime:   patchNullableParsed(d, "scheduled_time", domain.ParseTimeOfDay),
		DurationMinutes: patchField[*int](d, "duration_minutes"),
	}
	if err := d.finish(); err != nil {
		return err
	}
	cm, err := h.svcs.Commitments.Update(c.UserContext(), ownerID(c), c.Params("id"), p)
	if err != nil {
		return err
	}
	return c.JSON(toCommitmentResponse(cm))
}

func (h *handlers) deleteCommitment(c *fiber.Ctx) error {
	if err := h.svcs.Commitments.Delete(c.UserContext(), ownerID(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) breakdownCommitment(c *fiber.Ctx) error {
	var req breakdownRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	tf, err := domain.ParseTimeframe(req.Timeframe)
	if err != nil {
		return err
	}
	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}
	var section domain.Section
	if req.Section != "" {
		if section, err = domain.ParseSection(req.Section); err != nil {
			return err
		}
	}
	child, err := h.svcs.Commitments.Breakdown(c.UserContext(), ownerID(c), c.Params("id"), tf, date, section)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toCommitmentResponse(child))
}

func (h *handlers) listCommitmentChildren(c *fiber.Ctx) error {
	cs, err := h.svcs.Commitments.ListChildren(c.UserContext(), ownerID(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(toCommitmentResponses(cs))
}

// scheduleCommitment places a commitment on the day timeline. A null time
// removes it.
func (h *handlers) scheduleCommitment(c *fiber.Ctx) error {
	var req scheduleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	var at *domain.TimeOfDay
	if req.Time != nil {
		tod, err := domain.ParseTimeOfDay(*req.Time)
		if err != nil {
			return err
		}
		at = &tod
	}
	cm, err := h.svcs.Commitments.Schedule(c.UserContext(), ownerID(c), c.Params("id"), at, req.DurationMinutes)
	if err != nil {
		return err
	}
	return c.JSON(toCommitmentResponse(cm))
}

func (h *handlers) reorderCommitments(c *fiber.Ctx) error {
	var req idsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.svcs.Commitments.Reorder(c.UserContext(), ownerID(c), req.IDs); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func dateOrToday(s string) (time.Time, error) {
	if s == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return parseDate(s)
}
