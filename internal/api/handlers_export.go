package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecare/internal/models"
	"github.com/terraincognita07/cyclecare/internal/services"
)

func (handler *Handler) exportUserAndRange(c *fiber.Ctx) (*models.User, *time.Time, *time.Time, bool, error) {
	user, ok := currentUser(c)
	if !ok {
		return nil, nil, nil, false, apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	from, to, err := services.ParseDayRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return nil, nil, nil, false, handler.respondDayError(c, err)
	}
	return user, from, to, true, nil
}

func (handler *Handler) ExportSummary(c *fiber.Ctx) error {
	user, from, to, ok, response := handler.exportUserAndRange(c)
	if !ok {
		return response
	}

	summary, err := handler.exportService.BuildSummary(user.ID, from, to)
	if err != nil {
		handler.logger.WithError(err).Error("build export summary failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch logs")
	}
	return c.JSON(summary)
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	user, from, to, ok, response := handler.exportUserAndRange(c)
	if !ok {
		return response
	}

	entries, err := handler.exportService.BuildJSONEntries(user.ID, from, to)
	if err != nil {
		handler.logger.WithError(err).Error("build json export failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch logs")
	}
	now := handler.currentTime()

	serialized, err := json.MarshalIndent(fiber.Map{
		"exported_at": now.Format(time.RFC3339),
		"entries":     entries,
	}, "", "  ")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSON, buildExportFilename(now, "json"))
	return c.Send(serialized)
}

func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	user, from, to, ok, response := handler.exportUserAndRange(c)
	if !ok {
		return response
	}

	rows, err := handler.exportService.BuildCSVRows(user.ID, from, to)
	if err != nil {
		handler.logger.WithError(err).Error("build csv export failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to fetch logs")
	}

	var output bytes.Buffer
	writer := csv.NewWriter(&output)
	if err := writer.Write(services.ExportCSVHeaders); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}
	for _, row := range rows {
		if err := writer.Write(row.Columns()); err != nil {
			return apiError(c, fiber.StatusInternalServerError, "failed to build export")
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to build export")
	}

	setExportAttachmentHeaders(c, "text/csv", buildExportFilename(handler.currentTime(), "csv"))
	return c.Send(output.Bytes())
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
}

func buildExportFilename(now time.Time, extension string) string {
	return "cyclecare-export-" + services.DateKey(now) + "." + extension
}
