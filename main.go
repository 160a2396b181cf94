package main

import (
	"log"

	"healthwatch-backend/config"
	"healthwatch-backend/database"
	"healthwatch-backend/handlers"
	"healthwatch-backend/services"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.LoadConfig()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	kvStore := database.NewKVStore(cfg)
	reportStore := database.NewGormReportStore(database.GetDB())

	rateLimiter := services.NewRateLimitService(cfg, kvStore)
	aiService := services.NewAIService(cfg, rateLimiter)
	geocoder := services.NewGeocodingService(
		services.NewNominatimClient(cfg.GeocodingBaseURL),
		cfg.GeocodingCountry,
	)
	syncService := services.NewSyncService(cfg, reportStore, geocoder, kvStore)
	hotspotService := services.NewHotspotService()

	chatHandler := handlers.NewChatHandler(aiService, syncService, reportStore)
	reportHandler := handlers.NewReportHandler(cfg, syncService, hotspotService, reportStore)
	statusHandler := handlers.NewStatusHandler(rateLimiter, aiService)

	r := gin.Default()
	v1 := r.Group("/api/v1")
	{
		v1.POST("/chat", chatHandler.Chat)

		v1.POST("/reports/sync", reportHandler.SyncReports)
		v1.GET("/reports", reportHandler.ListReports)
		v1.GET("/reports/stats", reportHandler.GetStats)
		v1.GET("/hotspots", reportHandler.GetHotspots)

		v1.GET("/status/ratelimit", statusHandler.GetRateLimitStatus)
		v1.POST("/status/ratelimit/reset", statusHandler.ResetRateLimit)
		v1.GET("/health", statusHandler.HealthCheck)
	}

	log.Printf("Starting healthwatch-backend on port %s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
