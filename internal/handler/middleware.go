package handler

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"healthreg/internal/access"
	apperrors "healthreg/internal/errors"
	"healthreg/internal/repository"
)

const actorContextKey = "actor"

// ActorMiddleware resolves the authenticated token into an explicit
// access.Actor and stores it on the request context. The user row is
// re-read on every request so role or assignment changes and
// deactivations take effect immediately, not at token expiry. Business
// code below this point never touches the session or raw claims.
func ActorMiddleware(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			rawID, ok := claims["user_id"].(float64)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}

			user, err := userRepo.FindByID(c.Request().Context(), uint(rawID))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "unknown account")
			}
			if !user.Active {
				return echo.NewHTTPError(http.StatusForbidden, "account is disabled")
			}

			c.Set(actorContextKey, user.Actor())
			return next(c)
		}
	}
}

// ActorFrom returns the caller identity stored by ActorMiddleware. The
// zero Actor has an unknown role, so downstream access checks fail
// closed if the middleware was skipped.
func ActorFrom(c echo.Context) access.Actor {
	actor, _ := c.Get(actorContextKey).(access.Actor)
	return actor
}

// respondError converts a domain error into the standard JSON error body.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
