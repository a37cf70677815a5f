package api

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecare/internal/models"
	"github.com/terraincognita07/cyclecare/internal/services"
)

type registerPayload struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"`
}

type loginPayload struct {
	Email      string `json:"email" validate:"required"`
	Password   string `json:"password" validate:"required"`
	RememberMe bool   `json:"remember_me"`
}

type sessionResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

func (handler *Handler) Register(c *fiber.Ctx) error {
	payload := registerPayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	user, err := handler.authService.Register(services.RegistrationInput{
		Username: payload.Username,
		Email:    payload.Email,
		Password: payload.Password,
		Name:     payload.Name,
	})
	if err != nil {
		return handler.respondAuthServiceError(c, err)
	}

	token, err := handler.issueSession(c, &user, false)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	handler.logger.WithField("user_id", user.ID).Info("user registered")
	return c.Status(fiber.StatusCreated).JSON(sessionResponse{User: user, Token: token})
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	payload := loginPayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}

	now := handler.currentTime()
	limiterKey := loginLimiterKey(c, payload.Email)
	if blocked, retryAfter := handler.loginLimiter.blocked(limiterKey, now); blocked {
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds(retryAfter))
		return apiError(c, fiber.StatusTooManyRequests, "too many login attempts")
	}

	user, err := handler.authService.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthCredentialsInvalid) {
			handler.loginLimiter.recordFailure(limiterKey, now)
			return apiError(c, fiber.StatusUnauthorized, "invalid credentials")
		}
		handler.logger.WithError(err).Error("login failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to authenticate")
	}
	handler.loginLimiter.reset(limiterKey)

	token, err := handler.issueSession(c, &user, payload.RememberMe)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to create session")
	}
	return c.JSON(sessionResponse{User: user, Token: token})
}

func (handler *Handler) Logout(c *fiber.Ctx) error {
	handler.clearAuthCookie(c)
	return respondOK(c)
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	return c.JSON(user)
}

func (handler *Handler) respondAuthServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrAuthEmailTaken):
		return apiError(c, fiber.StatusConflict, "email already registered")
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid email or password")
	case errors.Is(err, services.ErrAuthUsernameInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid username")
	case errors.Is(err, services.ErrProfileNameTooLong):
		return apiError(c, fiber.StatusBadRequest, "name is too long")
	case errors.Is(err, services.ErrProfilePictureInvalid):
		return apiError(c, fiber.StatusBadRequest, "invalid profile picture")
	case errors.Is(err, services.ErrWeakPassword):
		return apiError(c, fiber.StatusBadRequest, "weak password")
	case errors.Is(err, services.ErrPasswordTooLong):
		return apiError(c, fiber.StatusBadRequest, "password too long")
	case errors.Is(err, services.ErrPasswordChangeInvalidInput):
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	case errors.Is(err, services.ErrPasswordMismatch):
		return apiError(c, fiber.StatusBadRequest, "password mismatch")
	case errors.Is(err, services.ErrInvalidCurrentPassword):
		return apiError(c, fiber.StatusUnauthorized, "invalid current password")
	case errors.Is(err, services.ErrNewPasswordMustDiffer):
		return apiError(c, fiber.StatusBadRequest, "new password must differ")
	case errors.Is(err, services.ErrAccountDeletePasswordRequired):
		return apiError(c, fiber.StatusBadRequest, "password is required")
	case errors.Is(err, services.ErrAuthUserNotFound):
		return apiError(c, fiber.StatusNotFound, "user not found")
	default:
		handler.logger.WithError(err).Error("auth request failed")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}

func retryAfterSeconds(wait time.Duration) string {
	seconds := int(math.Ceil(wait.Seconds()))
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}
