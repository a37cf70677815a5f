package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/cyclecare/internal/services"
)

type startCyclePayload struct {
	StartDate string  `json:"start_date" validate:"required,day"`
	EndDate   *string `json:"end_date"`
	Length    *int    `json:"length"`
}

type updateCyclePayload struct {
	StartDate *string `json:"start_date" validate:"omitempty,day"`
	EndDate   *string `json:"end_date"`
	Length    *int    `json:"length"`
	ClearEnd  bool    `json:"clear_end"`
}

type predictionResponse struct {
	NextPeriodDate     string `json:"next_period_date"`
	OvulationDate      string `json:"ovulation_date"`
	FertileWindowStart string `json:"fertile_window_start"`
	FertileWindowEnd   string `json:"fertile_window_end"`
	CurrentCycleDay    int    `json:"current_cycle_day"`
	DaysUntilPeriod    int    `json:"days_until_period"`
	CycleLength        int    `json:"cycle_length"`
}

func (handler *Handler) ListCycles(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	cycles, err := handler.cycleService.ListCycles(user.ID)
	if err != nil {
		return handler.respondCycleError(c, err)
	}
	return c.JSON(cycles)
}

func (handler *Handler) StartCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payload := startCyclePayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}
	start, err := services.ParseDay(payload.StartDate, handler.location)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid start_date")
	}
	end, err := parseOptionalDay(payload.EndDate)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid end_date")
	}

	cycle, err := handler.cycleService.StartCycle(user.ID, services.CycleInput{
		StartDate: start,
		EndDate:   end,
		Length:    payload.Length,
	})
	if err != nil {
		return handler.respondCycleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cycle)
}

func (handler *Handler) UpdateCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	cycleID, ok := parseIDParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	payload := updateCyclePayload{}
	if message, err := handler.parsePayload(c, &payload); err != nil {
		return apiError(c, fiber.StatusBadRequest, message)
	}
	start, err := parseOptionalDay(payload.StartDate)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid start_date")
	}
	end, err := parseOptionalDay(payload.EndDate)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid end_date")
	}

	cycle, err := handler.cycleService.UpdateCycle(user.ID, cycleID, services.CyclePatch{
		StartDate: start,
		EndDate:   end,
		Length:    payload.Length,
		ClearEnd:  payload.ClearEnd,
	})
	if err != nil {
		return handler.respondCycleError(c, err)
	}
	return c.JSON(cycle)
}

func (handler *Handler) DeleteCycle(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	cycleID, ok := parseIDParam(c)
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid id")
	}

	if err := handler.cycleService.DeleteCycle(user.ID, cycleID); err != nil {
		return handler.respondCycleError(c, err)
	}
	return respondOK(c)
}

func (handler *Handler) GetPrediction(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	prediction, cycleLength, found, err := handler.predictionForUser(user.ID)
	if err != nil {
		return handler.respondCycleError(c, err)
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "no cycles recorded")
	}

	return c.JSON(predictionResponse{
		NextPeriodDate:     services.DateKey(prediction.NextPeriodDate),
		OvulationDate:      services.DateKey(prediction.OvulationDate),
		FertileWindowStart: services.DateKey(prediction.FertileWindowStart),
		FertileWindowEnd:   services.DateKey(prediction.FertileWindowEnd),
		CurrentCycleDay:    prediction.CurrentCycleDay,
		DaysUntilPeriod:    prediction.DaysUntilPeriod,
		CycleLength:        cycleLength,
	})
}

// predictionForUser projects from the user's cycles using the cycle length in
// their settings.
func (handler *Handler) predictionForUser(userID uint) (services.CyclePrediction, int, bool, error) {
	settings, err := handler.settingsService.LoadSettings(userID)
	if err != nil {
		return services.CyclePrediction{}, 0, false, err
	}
	cycleLength := services.EffectiveCycleLength(settings.CycleLength)
	prediction, found, err := handler.cycleService.Prediction(userID, cycleLength, handler.currentTime())
	if err != nil {
		return services.CyclePrediction{}, 0, false, err
	}
	return prediction, cycleLength, found, nil
}

func (handler *Handler) GetCalendar(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	now := handler.currentTime()
	month, err := services.ParseCalendarMonth(c.Query("month"), now)
	if err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid month")
	}

	cycles, err := handler.cycleService.ListCycles(user.ID)
	if err != nil {
		return handler.respondCycleError(c, err)
	}
	prediction, _, found, err := handler.predictionForUser(user.ID)
	if err != nil {
		return handler.respondCycleError(c, err)
	}
	var predictionRef *services.CyclePrediction
	if found {
		predictionRef = &prediction
	}

	days := services.BuildCalendarMonth(month, services.ExpandPeriodDates(cycles), predictionRef, now)
	return c.JSON(fiber.Map{
		"month": month.Format("2006-01"),
		"days":  days,
	})
}

func (handler *Handler) respondCycleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrCycleNotFound):
		return apiError(c, fiber.StatusNotFound, "cycle not found")
	case errors.Is(err, services.ErrCycleStartRequired):
		return apiError(c, fiber.StatusBadRequest, "start date is required")
	case errors.Is(err, services.ErrCycleEndBeforeStart):
		return apiError(c, fiber.StatusBadRequest, "end date must not be before start date")
	case errors.Is(err, services.ErrCycleLengthOutOfRange):
		return apiError(c, fiber.StatusBadRequest, "cycle length is out of range")
	case errors.Is(err, services.ErrInvalidCycleLength):
		return apiError(c, fiber.StatusBadRequest, "invalid cycle length")
	default:
		handler.logger.WithError(err).Error("cycle request failed")
		return apiError(c, fiber.StatusInternalServerError, "internal error")
	}
}
