package handler

import (
	"net/http"
	"strconv"

	"github.com/danieln3m0/POSLas4as/internal/apierror"
	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct {
	svc               service.InventoryService
	expiryWarningDays int
}

func NewInventoryHandler(svc service.InventoryService, expiryWarningDays int) *InventoryHandler {
	return &InventoryHandler{svc: svc, expiryWarningDays: expiryWarningDays}
}

// UpdateStock applies ADD, SUBTRACT or SET at one location.
// POST /v1/inventory/stock
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var req dto.UpdateStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/inventory/stock?product_id=&location_id=
func (h *InventoryHandler) StockAtLocation(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product_id"))
		return
	}
	locationID, err := uuid.Parse(c.Query("location_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid location_id"))
		return
	}
	qty, err := h.svc.StockAtLocation(c.Request.Context(), productID, locationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"product_id":  productID.String(),
		"location_id": locationID.String(),
		"quantity":    qty,
	})
}

// POST /v1/inventory/transfer
func (h *InventoryHandler) Transfer(c *gin.Context) {
	var req dto.TransferStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.TransferStock(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/inventory/low-stock
func (h *InventoryHandler) LowStock(c *gin.Context) {
	resp, err := h.svc.LowStockProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/inventory/reorder
func (h *InventoryHandler) NeedingReorder(c *gin.Context) {
	resp, err := h.svc.ProductsNeedingReorder(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Expiring lists stock expiring within ?days= (default from config).
// GET /v1/inventory/expiring
func (h *InventoryHandler) Expiring(c *gin.Context) {
	days := h.expiryWarningDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, apierror.New("days must be a non-negative integer"))
			return
		}
		days = n
	}
	resp, err := h.svc.ExpiringStock(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/inventory/movements
func (h *InventoryHandler) Movements(c *gin.Context) {
	var filter dto.MovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Alerts returns the latest low stock alerts recorded by the event worker.
// GET /v1/inventory/alerts?limit=
func (h *InventoryHandler) Alerts(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	resp, err := h.svc.RecentAlerts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
