package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"healthreg/internal/service"
)

// ExportHandler handles file export endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new export handler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Residents godoc
// @Summary Export residents as CSV or XLSX
// @Tags export
// @Produce text/csv
// @Param format query string false "csv (default) or xlsx"
// @Param mandals query string false "Comma-separated mandal names"
// @Param secretariats query string false "Comma-separated secretariat names"
// @Param officers query string false "Comma-separated officer IDs"
// @Param mobileStatus query string false "filled or missing"
// @Param healthIdStatus query string false "filled or missing"
// @Param ruralUrban query string false "Rural or Urban"
// @Param startDate query string false "YYYY-MM-DD"
// @Param endDate query string false "YYYY-MM-DD"
// @Success 200 {file} file
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /export/residents [get]
func (h *ExportHandler) Residents(c echo.Context) error {
	filters := residentFiltersFromQuery(c)
	// exports are unpaginated
	filters.Page = 0
	filters.Limit = 0

	file, err := h.exportService.Residents(c.Request().Context(), ActorFrom(c), service.ExportParams{
		Mandals:      csvParam(c, "mandals"),
		Secretariats: csvParam(c, "secretariats"),
		Filters:      filters,
		Format:       c.QueryParam("format"),
	})
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename=%q`, file.Filename))
	return c.Blob(http.StatusOK, file.ContentType, file.Content)
}
