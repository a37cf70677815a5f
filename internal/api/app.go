package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	authRouteRequestLimit  = 30
	authRouteRequestWindow = time.Minute
)

// NewApp builds the fiber application with the shared middleware chain and
// every route registered.
func NewApp(handler *Handler, log *logrus.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "CycleCare",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			}
			if status >= fiber.StatusInternalServerError {
				log.WithField("request_id", c.Locals(requestid.ConfigDefault.ContextKey)).WithError(err).Error("request failed")
			}
			return apiError(c, status, err.Error())
		},
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Output: log.Writer(),
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use("/api/auth", limiter.New(limiter.Config{
		Max:        authRouteRequestLimit,
		Expiration: authRouteRequestWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return apiError(c, fiber.StatusTooManyRequests, "too many requests")
		},
	}))

	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}
