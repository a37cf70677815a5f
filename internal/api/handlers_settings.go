package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecare/internal/services"
)

type settingsPayload struct {
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	ReminderDays         *int    `json:"reminder_days"`
	WaterGoal            *int    `json:"water_goal"`
	Theme                *string `json:"theme"`
	CycleLength          *int    `json:"cycle_length"`
	TelegramChatID       *int64  `json:"telegram_chat_id"`
}

func (handler *Handler) GetSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	settings, err := handler.settingsService.LoadSettings(user.ID)
	if err != nil {
		return handler.respondSettingsError(c, err)
	}
	return c.JSON(settings)
}

func (handler *Handler) UpdateSettings(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := settingsPayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	settings, err := handler.settingsService.UpdateSettings(user.ID, services.SettingsUpdate{
		NotificationsEnabled: payload.NotificationsEnabled,
		ReminderDays:         payload.ReminderDays,
		WaterGoal:            payload.WaterGoal,
		Theme:                payload.Theme,
		CycleLength:          payload.CycleLength,
		TelegramChatID:       payload.TelegramChatID,
	})
	if err != nil {
		return handler.respondSettingsError(c, err)
	}
	return c.JSON(settings)
}

func (handler *Handler) respondSettingsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrSettingsReminderDaysOutOfRange):
		return apiError(c, fiber.StatusBadRequest, "reminder days out of range")
	case errors.Is(err, services.ErrSettingsWaterGoalOutOfRange):
		return apiError(c, fiber.StatusBadRequest, "water goal out of range")
	case errors.Is(err, services.ErrSettingsCycleLengthOutOfRange):
		return apiError(c, fiber.StatusBadRequest, "cycle length out of range")
	case errors.Is(err, services.ErrSettingsThemeInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid theme")
	case errors.Is(err, services.ErrSettingsTelegramChatInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid telegram chat id")
	default:
		handler.logger.WithError(err).Error("settings request failed")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}
