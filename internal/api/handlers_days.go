package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecare/internal/services"
)

const goalNotifyTimeout = 5 * time.Second

type dayPayload struct {
	WaterIntake *int     `json:"water_intake" validate:"omitempty,min=0"`
	Mood        string   `json:"mood"`
	Symptoms    []string `json:"symptoms"`
	Notes       string   `json:"notes"`
}

type waterPayload struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

func (handler *Handler) GetDays(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := services.ParseDayRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return handler.respondDayError(c, err)
	}
	logs, err := handler.dayService.FetchLogsForRange(user.ID, from, to)
	if err != nil {
		return handler.respondDayError(c, err)
	}
	return c.JSON(logs)
}

func (handler *Handler) GetDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, ok := handler.parseDayParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	entry, err := handler.dayService.FetchLogByDate(user.ID, day)
	if err != nil {
		return handler.respondDayError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) UpsertDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, ok := handler.parseDayParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := dayPayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}
	input, err := services.NormalizeDayEntryInput(services.DayEntryInput{
		WaterIntake: payload.WaterIntake,
		Mood:        payload.Mood,
		Symptoms:    payload.Symptoms,
		Notes:       payload.Notes,
	})
	if err != nil {
		return handler.respondDayError(c, err)
	}

	entry, err := handler.dayService.UpsertDayEntry(user.ID, day, input)
	if err != nil {
		return handler.respondDayError(c, err)
	}
	return c.JSON(entry)
}

func (handler *Handler) DeleteDay(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, ok := handler.parseDayParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	if err := handler.dayService.DeleteDay(user.ID, day); err != nil {
		return handler.respondDayError(c, err)
	}
	return respondOK(c)
}

// AddWater records one serving. The serving that crosses the daily goal
// triggers the goal-reached notification; a failed notification never fails
// the request.
func (handler *Handler) AddWater(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	day, ok := handler.parseDayParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid date")
	}

	payload := waterPayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	update, err := handler.dayService.AddWater(user.ID, day, payload.Amount)
	if err != nil {
		return handler.respondDayError(c, err)
	}

	if update.GoalReached && handler.goalNotifier != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), goalNotifyTimeout)
		defer cancel()
		if err := handler.goalNotifier.NotifyGoalReached(ctx, user.ID, update.Goal); err != nil {
			handler.logger.WithField("user_id", user.ID).WithError(err).Warn("goal reached notification failed")
		}
	}
	return c.JSON(update)
}

func (handler *Handler) respondDayError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidDayMood):
		return apiError(c, fiber.StatusBadRequest, "invalid mood")
	case errors.Is(err, services.ErrInvalidDaySymptom):
		return apiError(c, fiber.StatusBadRequest, "invalid symptom")
	case errors.Is(err, services.ErrInvalidWaterIntake):
		return apiError(c, fiber.StatusBadRequest, "invalid water intake")
	case errors.Is(err, services.ErrInvalidWaterServing):
		return apiError(c, fiber.StatusBadRequest, "invalid water amount")
	case errors.Is(err, services.ErrRangeFromDateInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid from date")
	case errors.Is(err, services.ErrRangeToDateInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid to date")
	case errors.Is(err, services.ErrRangeInvalid), errors.Is(err, services.ErrInvalidDayRange):
		return apiError(c, fiber.StatusBadRequest, "invalid range")
	case errors.Is(err, services.ErrDayEntryCreateFailed),
		errors.Is(err, services.ErrDayEntryUpdateFailed),
		errors.Is(err, services.ErrDayEntryLoadFailed):
		handler.logger.WithError(err).Error("day entry persistence failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to save day")
	case errors.Is(err, services.ErrDeleteDayFailed):
		handler.logger.WithError(err).Error("day delete failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to delete day")
	default:
		handler.logger.WithError(err).Error("day request failed")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}
