package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecare/internal/services"
)

type tipsResponse struct {
	Date             string               `json:"date"`
	Tips             []services.HealthTip `json:"tips"`
	MoodTip          *services.HealthTip  `json:"mood_tip"`
	RecommendedFoods []string             `json:"recommended_foods"`
	FoodsToAvoid     []string             `json:"foods_to_avoid"`
}

func (handler *Handler) GetPattern(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	pattern, found, err := handler.statsService.PatternForUser(user.ID)
	if err != nil {
		handler.logger.WithError(err).Error("load cycle pattern failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to load stats")
	}
	if !found {
		return c.JSON(fiber.Map{"show_pattern": false, "pattern": nil})
	}

	pattern.Insights = handler.localizeInsights(currentLanguage(c), pattern.Insights)
	return c.JSON(fiber.Map{"show_pattern": true, "pattern": pattern})
}

func (handler *Handler) GetSummary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	summary, err := handler.statsService.BuildSummaryForUser(user.ID)
	if err != nil {
		handler.logger.WithError(err).Error("build stats summary failed")
		return apiError(c, fiber.StatusInternalServerError, "failed to load stats")
	}
	if summary.Pattern != nil {
		pattern := *summary.Pattern
		pattern.Insights = handler.localizeInsights(currentLanguage(c), pattern.Insights)
		summary.Pattern = &pattern
	}
	return c.JSON(summary)
}

// GetTips recommends tips for the symptoms and mood logged on ?date, today by
// default.
func (handler *Handler) GetTips(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	day := services.DateAtLocation(handler.currentTime(), handler.location)
	if raw := c.Query("date"); raw != "" {
		parsed, err := services.ParseDay(raw, nil)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid date")
		}
		day = parsed
	}

	entry, err := handler.dayService.FetchLogByDate(user.ID, day)
	if err != nil {
		return handler.respondDayError(c, err)
	}

	language := currentLanguage(c)
	response := tipsResponse{
		Date:             services.DateKey(day),
		Tips:             handler.localizeTips(language, services.HealthRecommendations(entry.Symptoms)),
		RecommendedFoods: handler.translateAll(language, services.RecommendedFoods),
		FoodsToAvoid:     handler.translateAll(language, services.FoodsToAvoid),
	}
	if tip, found := services.MoodRecommendation(entry.Mood); found {
		localized := handler.localizeTips(language, []services.HealthTip{tip})[0]
		response.MoodTip = &localized
	}
	return c.JSON(response)
}

func (handler *Handler) localizeInsights(language string, insights []services.PatternInsight) []services.PatternInsight {
	localized := make([]services.PatternInsight, len(insights))
	for index, insight := range insights {
		insight.Title = handler.i18n.Translate(language, insight.Title)
		insight.Description = handler.i18n.Translatef(language, insight.Description, insight.DescriptionArgs...)
		if insight.Recommendation != "" {
			insight.Recommendation = handler.i18n.Translate(language, insight.Recommendation)
		}
		localized[index] = insight
	}
	return localized
}

func (handler *Handler) localizeTips(language string, tips []services.HealthTip) []services.HealthTip {
	localized := make([]services.HealthTip, len(tips))
	for index, tip := range tips {
		tip.Title = handler.i18n.Translate(language, tip.Title)
		tip.Description = handler.i18n.Translate(language, tip.Description)
		localized[index] = tip
	}
	return localized
}

func (handler *Handler) translateAll(language string, keys []string) []string {
	translated := make([]string, len(keys))
	for index, key := range keys {
		translated[index] = handler.i18n.Translate(language, key)
	}
	return translated
}
