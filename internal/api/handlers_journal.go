package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecare/internal/services"
)

type journalPayload struct {
	Date    string   `json:"date" validate:"required,day"`
	Title   string   `json:"title"`
	Content string   `json:"content" validate:"required"`
	Mood    string   `json:"mood"`
	Tags    []string `json:"tags"`
}

func (payload journalPayload) toInput() (services.JournalInput, error) {
	day, err := services.ParseDay(payload.Date, nil)
	if err != nil {
		return services.JournalInput{}, err
	}
	return services.JournalInput{
		Date:    day,
		Title:   payload.Title,
		Content: payload.Content,
		Mood:    payload.Mood,
		Tags:    payload.Tags,
	}, nil
}

func (handler *Handler) ListJournal(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	entries, err := handler.journalService.ListEntries(user.ID)
	if err != nil {
		return handler.respondJournalError(c, err)
	}
	return c.JSON(entries)
}

func (handler *Handler) CreateJournalEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := journalPayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}
	input, err := payload.toInput()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, err := handler.journalService.CreateEntry(user.ID, input)
	if err != nil {
		return handler.respondJournalError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

func (handler *Handler) UpdateJournalEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	entryID, ok := parseIDParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	payload := journalPayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}
	input, err := payload.toInput()
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, err := handler.journalService.UpdateEntry(user.ID, entryID, input)
	if err != nil {
		return handler.respondJournalError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteJournalEntry(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	entryID, ok := parseIDParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := handler.journalService.DeleteEntry(user.ID, entryID); err != nil {
		return handler.respondJournalError(c, err)
	}
	return respondOK(c)
}

func (handler *Handler) respondJournalError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrJournalEntryNotFound):
		return apiError(c, fiber.StatusNotFound, "journal entry not found")
	case errors.Is(err, services.ErrJournalContentMissing):
		return apiError(c, fiber.StatusBadRequest, "content is required")
	case errors.Is(err, services.ErrJournalDateMissing):
		return apiError(c, fiber.StatusBadRequest, "date is required")
	case errors.Is(err, services.ErrJournalEntryTooLong):
		return apiError(c, fiber.StatusBadRequest, "journal entry too long")
	case errors.Is(err, services.ErrJournalTagsInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid tags")
	case errors.Is(err, services.ErrInvalidDayMood):
		return apiError(c, fiber.StatusBadRequest, "invalid mood")
	default:
		handler.logger.WithError(err).Error("journal request failed")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}
