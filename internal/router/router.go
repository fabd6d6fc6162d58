package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"healthreg/internal/config"
	"healthreg/internal/handler"
	"healthreg/internal/repository"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	residentHandler *handler.ResidentHandler,
	userHandler *handler.UserHandler,
	analyticsHandler *handler.AnalyticsHandler,
	exportHandler *handler.ExportHandler,
	importHandler *handler.ImportHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// Secured routes: JWT signature gate, then actor resolution. Every
	// handler below receives an explicit access.Actor.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:" + echo.HeaderAuthorization,
		}),
		handler.ActorMiddleware(userRepo),
	)

	secured.GET("/me", userHandler.Me)

	// Resident routes
	secured.GET("/residents", residentHandler.List)
	secured.GET("/residents/:id", residentHandler.Get)
	secured.PUT("/residents/:id", residentHandler.UpdateContact)
	secured.GET("/residents/:id/history", residentHandler.History)
	secured.GET("/households/:id", residentHandler.Household)

	// User management routes (role checks live in the service)
	secured.GET("/users", userHandler.List)
	secured.POST("/users", userHandler.Create)
	secured.GET("/users/:id", userHandler.Get)
	secured.PUT("/users/:id", userHandler.Update)

	// Analytics routes
	secured.GET("/analytics/summary", analyticsHandler.Summary)
	secured.GET("/analytics/officers", analyticsHandler.Officers)

	// Export / import routes
	secured.GET("/export/residents", exportHandler.Residents)
	secured.POST("/import/residents", importHandler.Residents)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
