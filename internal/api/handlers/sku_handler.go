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

type SKUHandler struct {
	service *service.SKUService
}

func NewSKUHandler(service *service.SKUService) *SKUHandler {
	return &SKUHandler{service: service}
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidRange, name)
	}
	return id, nil
}

func (h *SKUHandler) GetDetail(c *gin.Context) {
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		respondError(c, err)
		return
	}
	skuID, err := parseIDParam(c, "sku_id")
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := h.service.GetDetail(c.Request.Context(), storeID, skuID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *SKUHandler) GetHourlyForecast(c *gin.Context) {
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		respondError(c, err)
		return
	}
	skuID, err := parseIDParam(c, "sku_id")
	if err != nil {
		respondError(c, err)
		return
	}

	forecast, err := h.service.GetHourlyForecast(c.Request.Context(), storeID, skuID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, forecast)
}

type cycleCountRequest struct {
	StoreID    int64  `json:"store_id" binding:"required"`
	SKUID      int64  `json:"sku_id" binding:"required"`
	CountedQty int    `json:"counted_qty"`
	Date       string `json:"date"`
}

func (h *SKUHandler) RecordCycleCount(c *gin.Context) {
	var req cycleCountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	count := domain.CycleCount{
		StoreID:    req.StoreID,
		SKUID:      req.SKUID,
		CountedQty: req.CountedQty,
	}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respondError(c, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidRange))
			return
		}
		count.TsDate = d
	}

	if err := h.service.RecordCycleCount(c.Request.Context(), count); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "recorded"})
}
