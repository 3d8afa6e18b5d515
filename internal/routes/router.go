package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"search-and-destroy/internal/config"
	"search-and-destroy/internal/database"
	"search-and-destroy/internal/delivery/http/handler"
	"search-and-destroy/internal/esp32"
	"search-and-destroy/internal/infrastructure/database/postgres"
	"search-and-destroy/internal/logger"
	"search-and-destroy/internal/middleware"
	deviceUsecase "search-and-destroy/internal/usecase/device"
	"search-and-destroy/internal/usecase/relay"
	userUsecase "search-and-destroy/internal/usecase/user"
)

func SetupRoutes(cfg *config.Config, db *database.Database) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))
	router.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	router.Use(middleware.RateLimitMiddleware(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst))

	router.GET("/health", func(c *gin.Context) {
		if err := db.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unhealthy",
				"message": "Database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	userRepository := postgres.NewUserRepository(db)
	historyRepository := postgres.NewHistoryRepository(db)
	userService := userUsecase.NewService(userRepository, historyRepository, cfg)
	userHandler := handler.NewUserHandler(userService)

	directory := postgres.NewDeviceRepository(db)
	deviceService := deviceUsecase.NewService(directory)
	deviceHandler := handler.NewDeviceHandler(deviceService)

	transport := esp32.NewClient(cfg.Relay)
	relayService := relay.NewService(directory, transport)
	relayHandler := handler.NewRelayHandler(relayService)

	v1 := router.Group("/api/v1")
	{
		userHandler.RegisterPublicRoutes(v1)
		deviceHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			userHandler.RegisterProtectedRoutes(protected)
			deviceHandler.RegisterRoutes(protected)
			relayHandler.RegisterRoutes(protected)

			admin := protected.Group("")
			admin.Use(middleware.AdminOnly())
			{
				userHandler.RegisterAdminRoutes(admin)
			}
		}
	}

	logger.Info("All routes initialized")
	return router
}
