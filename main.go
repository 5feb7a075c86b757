package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"schoolride-api/config"
	"schoolride-api/database"
	"schoolride-api/logger"
	"schoolride-api/middleware"
	"schoolride-api/routes"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := database.Migrate(db); err != nil {
		zlog.Fatal("Failed to migrate database", zap.Error(err))
	}

	if err := database.SeedRoles(db); err != nil {
		zlog.Fatal("Failed to seed roles", zap.Error(err))
	}

	if cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(routes.SetupCORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.SecurityHeaders())

	routes.SetupRoutes(router, db, cfg, zlog)

	zlog.Info("Starting school ride API server", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
