package errors

import (
	"errors"
	"net/http"

	"healthreg/internal/access"
)

var (
	// ErrResidentNotFound is returned when a resident record is not found.
	ErrResidentNotFound = errors.New("resident not found")
	// ErrUserNotFound is returned when a user account is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccessDenied is returned when the caller may not see or manage the target.
	ErrAccessDenied = errors.New("access denied")
	// ErrUsernameTaken is returned when creating a user with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidRole is returned when a request names an unknown role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrAccountDisabled is returned when a deactivated account tries to log in.
	ErrAccountDisabled = errors.New("account is disabled")
	// ErrNothingToUpdate is returned when a mutation carries no changed fields.
	ErrNothingToUpdate = errors.New("no fields to update")
	// ErrInvalidUpload is returned when a bulk upload cannot be parsed.
	ErrInvalidUpload = errors.New("invalid upload file")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Account
// misconfiguration (a secretary without a mandal, an officer without
// assignments) is an operator fault and surfaces as 500, not 403.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrResidentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RESIDENT_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrAccessDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCESS_DENIED")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrAccountDisabled):
		return NewHTTPError(http.StatusForbidden, err.Error(), "ACCOUNT_DISABLED")
	case errors.Is(err, ErrNothingToUpdate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOTHING_TO_UPDATE")
	case errors.Is(err, ErrInvalidUpload):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_UPLOAD")
	case errors.Is(err, access.ErrNoMandalAssigned), errors.Is(err, access.ErrNoAssignments):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "ACCOUNT_MISCONFIGURED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
