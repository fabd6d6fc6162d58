package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"healthreg/internal/access"
	"healthreg/internal/service"
)

// UserHandler handles operator-account management endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// AssignmentPayload is one secretariat assignment in requests.
type AssignmentPayload struct {
	MandalName string `json:"mandalName" validate:"required"`
	SecName    string `json:"secName" validate:"required"`
}

// CreateUserRequest creates an operator account.
type CreateUserRequest struct {
	Username    string              `json:"username" validate:"required,min=3"`
	Password    string              `json:"password" validate:"required,min=6"`
	Name        string              `json:"name" validate:"required"`
	Role        string              `json:"role" validate:"required"`
	Mandal      string              `json:"mandal"`
	Assignments []AssignmentPayload `json:"assignments" validate:"dive"`
}

// UpdateUserRequest edits an operator account; omitted fields are unchanged.
type UpdateUserRequest struct {
	Password    *string             `json:"password" validate:"omitempty,min=6"`
	Name        *string             `json:"name"`
	Mandal      *string             `json:"mandal"`
	Assignments []AssignmentPayload `json:"assignments" validate:"dive"`
	Active      *bool               `json:"active"`
}

func toAssignments(payload []AssignmentPayload) []access.Assignment {
	if payload == nil {
		return nil
	}
	out := make([]access.Assignment, 0, len(payload))
	for _, p := range payload {
		out = append(out, access.Assignment{MandalName: p.MandalName, SecName: p.SecName})
	}
	return out
}

// Create godoc
// @Summary Create an operator account
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "Account data"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Create(c.Request().Context(), ActorFrom(c), service.CreateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		Name:        req.Name,
		Role:        access.Role(req.Role),
		Mandal:      req.Mandal,
		Assignments: toAssignments(req.Assignments),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Edit an operator account
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.Update(c.Request().Context(), ActorFrom(c), uint(id), service.UpdateUserInput{
		Password:    req.Password,
		Name:        req.Name,
		Mandal:      req.Mandal,
		Assignments: toAssignments(req.Assignments),
		Active:      req.Active,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// Get godoc
// @Summary Get one operator account
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	user, err := h.userService.Get(c.Request().Context(), ActorFrom(c), uint(id))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// List godoc
// @Summary List operator accounts visible to the caller
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.List(c.Request().Context(), ActorFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Me godoc
// @Summary The caller's own account
// @Tags users
// @Produce json
// @Success 200 {object} model.User
// @Security BearerAuth
// @Router /me [get]
func (h *UserHandler) Me(c echo.Context) error {
	actor := ActorFrom(c)
	user, err := h.userService.Get(c.Request().Context(), actor, actor.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
