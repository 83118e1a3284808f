package main

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"taplink-service/internal/handler"
	"taplink-service/internal/middleware"
	"taplink-service/internal/store"
	"taplink-service/pkg/config"
	"taplink-service/pkg/database"
	"taplink-service/pkg/jwtutil"
	"taplink-service/pkg/logger"
	"taplink-service/prometheus"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting taplink service...", zap.String("environment", cfg.Server.Env))

	// Connect the database; the store handle is passed to every handler,
	// there is no ambient singleton.
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	st := store.New(db)
	jwtSvc := jwtutil.New(&cfg.JWT)

	authHandler := handler.NewAuthHandler(st, jwtSvc)
	tagHandler := handler.NewTagHandler(st)
	tapHandler := handler.NewTapHandler(st)
	adminHandler := handler.NewAdminHandler(st)
	empresaHandler := handler.NewEmpresaHandler(st)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	api := e.Group("/api")

	// Authentication and public tap flow - reachable without a session
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/public/tag-info/:tag_id", tapHandler.PublicTagInfo)
	api.POST("/tap-event", tapHandler.RegisterTap)
	api.POST("/client-log", handler.ClientLog)

	// Protected routes - every request passes the claims resolver first
	protected := api.Group("")
	protected.Use(middleware.Auth(jwtSvc))

	protected.GET("/nfc-tags", tagHandler.List)
	protected.POST("/nfc-tags", tagHandler.Create)
	protected.DELETE("/nfc-tags/:id", tagHandler.Delete)

	protected.GET("/nfc-taps", tapHandler.List)

	protected.GET("/empresa", empresaHandler.Get)

	protected.GET("/admin/users", adminHandler.ListUsers)
	protected.POST("/admin/register", adminHandler.CreateUser)
	protected.DELETE("/admin/users/:id", adminHandler.DeleteUser)

	// Start server
	log.Info("Starting server", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
