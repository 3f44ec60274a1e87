package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shelfsense/backend/internal/domain"
	"github.com/shelfsense/backend/internal/service"
)

type OverviewHandler struct {
	service *service.OverviewService
}

func NewOverviewHandler(service *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{service: service}
}

func (h *OverviewHandler) GetOverview(c *gin.Context) {
	var filter domain.OverviewFilter

	if storeID, err := strconv.ParseInt(c.DefaultQuery("store_id", "0"), 10, 64); err == nil && storeID > 0 {
		filter.StoreID = storeID
	}
	if riskOnly, err := strconv.ParseBool(c.DefaultQuery("risk_only", "false")); err == nil {
		filter.RiskOnly = riskOnly
	}
	if minConf, err := strconv.Atoi(c.DefaultQuery("min_confidence", "0")); err == nil && minConf > 0 {
		filter.MinConfidence = minConf
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil && offset > 0 {
		filter.Offset = offset
	}

	resp, err := h.service.GetOverview(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *OverviewHandler) GetAlerts(c *gin.Context) {
	limit := 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && v > 0 {
		limit = v
	}

	resp, err := h.service.GetAlerts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
