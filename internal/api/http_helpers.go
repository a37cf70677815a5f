package api

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecare/internal/services"
)

var errInvalidPayload = errors.New("invalid input")

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func respondOK(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"ok": true})
}

func newPayloadValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("day", func(field validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", field.Field().String())
		return err == nil
	})
	return validate
}

// parsePayload decodes the JSON body into payload and runs its validate tags.
// The returned message names the first offending field.
func (handler *Handler) parsePayload(c *fiber.Ctx, payload any) (string, error) {
	if err := c.BodyParser(payload); err != nil {
		return errInvalidPayload.Error(), errInvalidPayload
	}
	if err := handler.validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			return "invalid " + validationErrors[0].Field(), err
		}
		return errInvalidPayload.Error(), err
	}
	return "", nil
}

func (handler *Handler) parseDayParam(c *fiber.Ctx) (time.Time, bool) {
	day, err := services.ParseDay(c.Params("date"), time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func parseIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseOptionalDay(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	day, err := services.ParseDay(strings.TrimSpace(*raw), time.UTC)
	if err != nil {
		return nil, err
	}
	return &day, nil
}
