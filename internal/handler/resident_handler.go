package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"healthreg/internal/service"
)

// ResidentHandler handles resident endpoints.
type ResidentHandler struct {
	residentService service.ResidentService
}

// NewResidentHandler creates a new resident handler.
func NewResidentHandler(residentService service.ResidentService) *ResidentHandler {
	return &ResidentHandler{residentService: residentService}
}

// UpdateContactRequest carries mobile/health-ID edits. Omitted fields are
// left unchanged; empty strings clear the field.
type UpdateContactRequest struct {
	MobileNumber *string `json:"mobile_number"`
	HealthID     *string `json:"health_id"`
}

// ListResponse is a paginated resident listing.
type ListResponse struct {
	Residents interface{} `json:"residents"`
	Total     int64       `json:"total"`
	Page      int         `json:"page"`
	Limit     int         `json:"limit"`
}

// List godoc
// @Summary List residents within the caller's scope
// @Tags residents
// @Produce json
// @Param mandals query string false "Comma-separated mandal names"
// @Param secretariats query string false "Comma-separated secretariat names"
// @Param phc query string false "PHC name"
// @Param mobileStatus query string false "filled or missing"
// @Param healthIdStatus query string false "filled or missing"
// @Param ruralUrban query string false "Rural or Urban"
// @Param search query string false "Name, mobile, UID or health ID"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} ListResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /residents [get]
func (h *ResidentHandler) List(c echo.Context) error {
	params := service.ListParams{
		Mandals:      csvParam(c, "mandals"),
		Secretariats: csvParam(c, "secretariats"),
		Filters:      residentFiltersFromQuery(c),
	}

	residents, total, err := h.residentService.List(c.Request().Context(), ActorFrom(c), params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ListResponse{
		Residents: residents,
		Total:     total,
		Page:      params.Filters.Page,
		Limit:     params.Filters.Limit,
	})
}

// Get godoc
// @Summary Get one resident by ID
// @Tags residents
// @Produce json
// @Param id path string true "Resident ID"
// @Success 200 {object} model.Resident
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /residents/{id} [get]
func (h *ResidentHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}
	resident, err := h.residentService.Get(c.Request().Context(), ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resident)
}

// UpdateContact godoc
// @Summary Update a resident's mobile number or health ID
// @Tags residents
// @Accept json
// @Produce json
// @Param id path string true "Resident ID"
// @Param request body UpdateContactRequest true "Fields to change"
// @Success 200 {object} model.Resident
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /residents/{id} [put]
func (h *ResidentHandler) UpdateContact(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}

	var req UpdateContactRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	update := service.ContactUpdate{
		MobileNumber: req.MobileNumber,
		HealthID:     req.HealthID,
	}
	resident, err := h.residentService.UpdateContact(c.Request().Context(), ActorFrom(c), id, update, c.RealIP())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resident)
}

// History godoc
// @Summary Change history of one resident
// @Tags residents
// @Produce json
// @Param id path string true "Resident ID"
// @Success 200 {array} model.UpdateLog
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /residents/{id}/history [get]
func (h *ResidentHandler) History(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid resident id")
	}
	logs, err := h.residentService.History(c.Request().Context(), ActorFrom(c), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

// Household godoc
// @Summary Residents sharing one household ID
// @Tags residents
// @Produce json
// @Param id path string true "Household ID"
// @Success 200 {array} model.Resident
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /households/{id} [get]
func (h *ResidentHandler) Household(c echo.Context) error {
	members, err := h.residentService.Household(c.Request().Context(), ActorFrom(c), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, members)
}
