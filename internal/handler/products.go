package handler

import (
	"net/http"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct {
	svc       service.ProductService
	inventory service.InventoryService
}

func NewProductsHandler(svc service.ProductService, inventory service.InventoryService) *ProductsHandler {
	return &ProductsHandler{svc: svc, inventory: inventory}
}

// POST /v1/products
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /v1/products/:id
func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetBySKU is the cached catalogue lookup used by the tills.
// GET /v1/products/sku/:sku
func (h *ProductsHandler) GetBySKU(c *gin.Context) {
	resp, err := h.svc.GetProductBySKU(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /v1/products/:id/reorder
func (h *ProductsHandler) Reorder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	resp, err := h.inventory.CalculateReorderQuantity(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
