package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecare/internal/services"
)

type profilePayload struct {
	Username       *string `json:"username"`
	Name           *string `json:"name"`
	ProfilePicture *string `json:"profile_picture"`
}

type changePasswordPayload struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type deleteAccountPayload struct {
	Password string `json:"password" validate:"required"`
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := profilePayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	updated, err := handler.authService.UpdateProfile(user.ID, services.ProfileUpdate{
		Username:       payload.Username,
		Name:           payload.Name,
		ProfilePicture: payload.ProfilePicture,
	})
	if err != nil {
		return handler.respondAuthServiceError(c, err)
	}
	return c.JSON(updated)
}

// ChangePassword also clears the must-change flag set by a forced reset, and
// re-issues the session so the caller stays signed in.
func (handler *Handler) ChangePassword(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := changePasswordPayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	if err := handler.authService.ChangePassword(user.ID, payload.CurrentPassword, payload.NewPassword, payload.ConfirmPassword); err != nil {
		return handler.respondAuthServiceError(c, err)
	}

	updated, err := handler.authService.FindByID(user.ID)
	if err != nil {
		return handler.respondAuthServiceError(c, err)
	}
	token, err := handler.issueSession(c, &updated, false)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.logger.WithField("user_id", user.ID).Info("password changed")
	return c.JSON(sessionResponse{User: updated, Token: token})
}

func (handler *Handler) DeleteAccount(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := deleteAccountPayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	if err := handler.authService.DeleteAccount(user.ID, payload.Password); err != nil {
		return handler.respondAuthServiceError(c, err)
	}
	handler.clearAuthCookie(c)
	handler.logger.WithField("user_id", user.ID).Info("account deleted")
	return respondOK(c)
}
