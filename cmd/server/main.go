package main

import (
	"log"
	"net/http"

	"healthreg/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"healthreg/internal/auth"
	"healthreg/internal/cache"
	"healthreg/internal/config"
	"healthreg/internal/db"
	"healthreg/internal/handler"
	"healthreg/internal/model"
	"healthreg/internal/repository"
	"healthreg/internal/router"
	"healthreg/internal/service"
)

// @title District Health Registry API
// @version 1.0
// @description Role-scoped resident health-registry collection and reporting for one district.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	// Swag uses this for the server URL in docs when set.
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Resident{},
		&model.UpdateLog{},
		&model.PHCMaster{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	residentRepo := repository.NewResidentRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	logRepo := repository.NewUpdateLogRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	residentService := service.NewResidentService(residentRepo, logRepo)
	userService := service.NewUserService(userRepo)
	analyticsService := service.NewAnalyticsService(residentRepo, logRepo, userRepo, cacheClient)
	exportService := service.NewExportService(residentRepo, cfg.ExportLimit)
	importService := service.NewImportService(residentRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	residentHandler := handler.NewResidentHandler(residentService)
	userHandler := handler.NewUserHandler(userService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	exportHandler := handler.NewExportHandler(exportService)
	importHandler := handler.NewImportHandler(importService, cfg)

	// Register routes
	router.Register(
		e,
		cfg,
		userRepo,
		authHandler,
		residentHandler,
		userHandler,
		analyticsHandler,
		exportHandler,
		importHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
