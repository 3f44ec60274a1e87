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

type TransferHandler struct {
	service *service.TransferService
}

func NewTransferHandler(service *service.TransferService) *TransferHandler {
	return &TransferHandler{service: service}
}

func (h *TransferHandler) GetRecommendations(c *gin.Context) {
	var minUrgency float64
	if v, err := strconv.ParseFloat(c.DefaultQuery("min_urgency", "0"), 64); err == nil && v > 0 {
		minUrgency = v
	}
	limit := 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && v > 0 {
		limit = v
	}

	resp, err := h.service.GetRecommendations(c.Request.Context(), minUrgency, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *TransferHandler) ListTransfers(c *gin.Context) {
	var storeID int64
	if v, err := strconv.ParseInt(c.DefaultQuery("store_id", "0"), 10, 64); err == nil && v > 0 {
		storeID = v
	}
	limit := 0
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "0")); err == nil && v > 0 {
		limit = v
	}

	transfers, err := h.service.ListTransfers(c.Request.Context(), storeID, c.Query("status"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transfers": transfers, "total": len(transfers)})
}

type createDraftRequest struct {
	FromStoreID  int64  `json:"from_store_id" binding:"required"`
	ToStoreID    int64  `json:"to_store_id" binding:"required"`
	SKUID        int64  `json:"sku_id" binding:"required"`
	Qty          int    `json:"qty" binding:"required"`
	RequestedFor string `json:"requested_for"`
}

func (h *TransferHandler) CreateDraft(c *gin.Context) {
	var req createDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transfer := domain.Transfer{
		FromStoreID: req.FromStoreID,
		ToStoreID:   req.ToStoreID,
		SKUID:       req.SKUID,
		Qty:         req.Qty,
	}
	if req.RequestedFor != "" {
		d, err := time.Parse("2006-01-02", req.RequestedFor)
		if err != nil {
			respondError(c, fmt.Errorf("%w: requested_for must be YYYY-MM-DD", domain.ErrInvalidRange))
			return
		}
		transfer.RequestedFor = d
	}

	created, isNew, err := h.service.CreateDraft(c.Request.Context(), transfer)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if !isNew {
		// The same draft already exists; return it instead of duplicating.
		status = http.StatusOK
	}
	c.JSON(status, created)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *TransferHandler) UpdateStatus(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transfer, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transfer)
}
