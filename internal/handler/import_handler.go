package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"healthreg/internal/config"
	"healthreg/internal/service"
)

// ImportHandler handles bulk upload endpoints.
type ImportHandler struct {
	importService service.ImportService
	cfg           *config.Config
}

// NewImportHandler creates a new import handler.
func NewImportHandler(importService service.ImportService, cfg *config.Config) *ImportHandler {
	return &ImportHandler{importService: importService, cfg: cfg}
}

// Residents godoc
// @Summary Bulk import residents from CSV or XLSX
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Upload file"
// @Success 200 {object} service.ImportReport
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /import/residents [post]
func (h *ImportHandler) Residents(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing upload file")
	}
	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable upload file")
	}
	defer src.Close()

	report, err := h.importService.Residents(
		c.Request().Context(), ActorFrom(c), fileHeader.Filename, src, h.cfg.DistrictName)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
