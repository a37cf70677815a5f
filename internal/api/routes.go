package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)

	profile := api.Group("/profile", handler.AuthRequired)
	profile.Patch("", handler.UpdateProfile)
	profile.Post("/password", handler.ChangePassword)
	profile.Delete("", handler.DeleteAccount)

	cycles := api.Group("/cycles", handler.AuthRequired)
	cycles.Get("", handler.ListCycles)
	cycles.Post("", handler.StartCycle)
	cycles.Put("/:id", handler.UpdateCycle)
	cycles.Delete("/:id", handler.DeleteCycle)

	api.Get("/predictions", handler.AuthRequired, handler.GetPrediction)
	api.Get("/calendar", handler.AuthRequired, handler.GetCalendar)

	days := api.Group("/days", handler.AuthRequired)
	days.Get("", handler.GetDays)
	days.Get("/:date", handler.GetDay)
	days.Put("/:date", handler.UpsertDay)
	days.Delete("/:date", handler.DeleteDay)
	days.Post("/:date/water", handler.AddWater)

	journal := api.Group("/journal", handler.AuthRequired)
	journal.Get("", handler.ListJournal)
	journal.Post("", handler.CreateJournalEntry)
	journal.Put("/:id", handler.UpdateJournalEntry)
	journal.Delete("/:id", handler.DeleteJournalEntry)

	settings := api.Group("/settings", handler.AuthRequired)
	settings.Get("", handler.GetSettings)
	settings.Put("", handler.UpdateSettings)

	insights := api.Group("/insights", handler.AuthRequired)
	insights.Get("/pattern", handler.GetPattern)
	insights.Get("/summary", handler.GetSummary)

	api.Get("/tips", handler.AuthRequired, handler.GetTips)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/summary", handler.ExportSummary)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
}

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
