package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"healthreg/internal/service"
)

// AnalyticsHandler handles dashboard aggregate endpoints.
type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(analyticsService service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Summary godoc
// @Summary Coverage and rollups for the caller's scope
// @Tags analytics
// @Produce json
// @Success 200 {object} service.Summary
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /analytics/summary [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	summary, err := h.analyticsService.Summary(c.Request().Context(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// Officers godoc
// @Summary Per-officer edit counts over a date range
// @Tags analytics
// @Produce json
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {array} repository.OfficerActivity
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /analytics/officers [get]
func (h *AnalyticsHandler) Officers(c echo.Context) error {
	activity, err := h.analyticsService.OfficerActivity(
		c.Request().Context(),
		ActorFrom(c),
		dateParam(c, "startDate"),
		dateParam(c, "endDate"),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, activity)
}
