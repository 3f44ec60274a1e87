package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shelfsense/backend/internal/domain"
	"github.com/shelfsense/backend/internal/service"
)

type TelemetryHandler struct {
	service *service.TelemetryService
}

func NewTelemetryHandler(service *service.TelemetryService) *TelemetryHandler {
	return &TelemetryHandler{service: service}
}

type telemetryRequest struct {
	StoreID   int64   `json:"store_id" binding:"required"`
	Sensor    string  `json:"sensor" binding:"required"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
	Timestamp string  `json:"timestamp"`
}

func (h *TelemetryHandler) Record(c *gin.Context) {
	var req telemetryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reading := domain.TelemetryReading{
		StoreID: req.StoreID,
		Sensor:  req.Sensor,
		Value:   req.Value,
		Unit:    req.Unit,
	}
	if req.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			respondError(c, fmt.Errorf("%w: timestamp must be RFC3339", domain.ErrInvalidRange))
			return
		}
		reading.TsTime = ts
	}

	stored, err := h.service.Record(c.Request.Context(), reading)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

func (h *TelemetryHandler) Recent(c *gin.Context) {
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		respondError(c, err)
		return
	}

	limit := 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && v > 0 {
		limit = v
	}

	readings, err := h.service.Recent(c.Request.Context(), storeID, c.Query("sensor"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"readings": readings, "total": len(readings)})
}
