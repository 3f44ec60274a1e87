// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shelfsense/backend/internal/api/handlers"
	"github.com/shelfsense/backend/internal/api/middleware"
	"github.com/shelfsense/backend/internal/service"
)

type Services struct {
	Overview  *service.OverviewService
	SKU       *service.SKUService
	Transfers *service.TransferService
	PeakHours *service.PeakHourService
	Telemetry *service.TelemetryService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Overview != nil {
			overviewHandler := handlers.NewOverviewHandler(services.Overview)
			apiGroup.GET("/overview", overviewHandler.GetOverview)
			apiGroup.GET("/alerts", overviewHandler.GetAlerts)
		}

		if services.SKU != nil {
			skuHandler := handlers.NewSKUHandler(services.SKU)
			skuGroup := apiGroup.Group("/sku")
			{
				skuGroup.GET("/:store_id/:sku_id", skuHandler.GetDetail)
				skuGroup.GET("/:store_id/:sku_id/hourly", skuHandler.GetHourlyForecast)
			}
			apiGroup.POST("/cycle-counts", skuHandler.RecordCycleCount)
		}

		if services.Transfers != nil {
			transferHandler := handlers.NewTransferHandler(services.Transfers)
			transferGroup := apiGroup.Group("/transfers")
			{
				transferGroup.GET("", transferHandler.ListTransfers)
				transferGroup.GET("/recommendations", transferHandler.GetRecommendations)
				transferGroup.POST("/draft", transferHandler.CreateDraft)
				transferGroup.PATCH("/:id", transferHandler.UpdateStatus)
			}
		}

		if services.PeakHours != nil {
			peakHandler := handlers.NewPeakHourHandler(services.PeakHours)
			apiGroup.GET("/peak-hours/:store_id", peakHandler.GetDashboard)
			apiGroup.GET("/prep-schedule/:store_id", peakHandler.GetPrepSchedule)
		}

		if services.Telemetry != nil {
			telemetryHandler := handlers.NewTelemetryHandler(services.Telemetry)
			apiGroup.POST("/telemetry", telemetryHandler.Record)
			apiGroup.GET("/telemetry/:store_id", telemetryHandler.Recent)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
