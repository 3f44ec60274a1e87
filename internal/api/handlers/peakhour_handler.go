package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/shelfsense/backend/internal/service"
)

type PeakHourHandler struct {
	service *service.PeakHourService
}

func NewPeakHourHandler(service *service.PeakHourService) *PeakHourHandler {
	return &PeakHourHandler{service: service}
}

func (h *PeakHourHandler) GetDashboard(c *gin.Context) {
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		respondError(c, err)
		return
	}

	dashboard, err := h.service.GetDashboard(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

func (h *PeakHourHandler) GetPrepSchedule(c *gin.Context) {
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		respondError(c, err)
		return
	}

	leadHours := 0
	if v, err := strconv.Atoi(c.DefaultQuery("prep_lead_time", "0")); err == nil && v > 0 {
		leadHours = v
	}

	tasks, err := h.service.GetPrepSchedule(c.Request.Context(), storeID, leadHours)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"prep_schedule": tasks, "total": len(tasks)})
}
