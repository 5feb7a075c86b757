package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"schoolride-api/config"
	"schoolride-api/controllers"
	"schoolride-api/middleware"
	"schoolride-api/repositories"
	"schoolride-api/services"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config, log *zap.Logger) {
	repo := repositories.NewRepository(db)
	emailService := services.NewEmailService(cfg)
	rideRequestService := services.NewRideRequestService(repo, emailService, log)

	authController := controllers.NewAuthController(db, cfg.JWTSecret)
	rideRequestController := controllers.NewRideRequestController(rideRequestService)
	journeyController := controllers.NewJourneyController(rideRequestService)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// API version 1
	v1 := r.Group("/api/v1")

	// Auth routes (public)
	auth := v1.Group("/auth")
	auth.Use(middleware.RateLimit(30, 10))
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		rides := protected.Group("/ride-requests")
		{
			rides.POST("", rideRequestController.Create)
			rides.PUT("", rideRequestController.Update)
			rides.POST("/web", rideRequestController.CreateFromWeb)
			rides.PUT("/web", rideRequestController.UpdateFromWeb)
			rides.PUT("/status", rideRequestController.UpdateStatus)

			rides.GET("", rideRequestController.GetAll)
			rides.GET("/status/:status", rideRequestController.GetByStatus)

			rides.GET("/journey/:date", journeyController.GetJourneysForDate)
			rides.GET("/journeysByUserId", journeyController.GetTripsByUserAndDate)
			rides.GET("/drivers-journeys", journeyController.GetDriverJourneys)

			rides.GET("/user/status/:status", rideRequestController.GetByUserAndStatus)
			rides.GET("/user/date/:date", rideRequestController.GetByUserAndDate)
			rides.GET("/user/:date/:status", rideRequestController.GetByUserAndDateAndStatus)
			rides.GET("/user/:date/:status/:childName", rideRequestController.GetByUserAndDateAndChildNameAndStatus)

			rides.GET("/:id", rideRequestController.GetOne)
			rides.DELETE("/:id", rideRequestController.Delete)
		}

		v2 := protected.Group("/v2/ride-requests")
		{
			v2.GET("/journey/:date/:session", journeyController.GetTripsOrderedForSession)
			v2.GET("/user/:date/:status/:childName", rideRequestController.GetByUserAndDateAndChildNameAndStatusV2)
		}
	}
}

// SetupCORS allows the web console and mobile clients to reach the API from
// other origins.
func SetupCORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
