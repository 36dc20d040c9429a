package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/middleware"
	"github.com/danieln3m0/POSLas4as/internal/model"
	"github.com/danieln3m0/POSLas4as/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

// fakeSales embeds the interface so only the methods a test sets are callable.
type fakeSales struct {
	service.SaleService
	create     func(cashierID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	addPayment func(id uuid.UUID, req dto.PaymentRequest) (*dto.SaleResponse, error)
	cancel     func(id uuid.UUID) (*dto.SaleResponse, error)
}

func (f *fakeSales) CreateSale(_ context.Context, cashierID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	return f.create(cashierID, req)
}

func (f *fakeSales) AddPayment(_ context.Context, id uuid.UUID, req dto.PaymentRequest) (*dto.SaleResponse, error) {
	return f.addPayment(id, req)
}

func (f *fakeSales) CancelSale(_ context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	return f.cancel(id)
}

type fakeInventory struct {
	service.InventoryService
	update func(req dto.UpdateStockRequest) (*dto.StockUpdateResponse, error)
	expiry func(days int) ([]dto.ExpiringStockResponse, error)
}

func (f *fakeInventory) UpdateStock(_ context.Context, req dto.UpdateStockRequest) (*dto.StockUpdateResponse, error) {
	return f.update(req)
}

func (f *fakeInventory) ExpiringStock(_ context.Context, days int) ([]dto.ExpiringStockResponse, error) {
	return f.expiry(days)
}

func newRouter(setup func(r *gin.Engine)) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	setup(r)
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrInvalidQuantity, http.StatusBadRequest},
		{model.NotFound("sale", "x"), http.StatusNotFound},
		{model.ErrIllegalState, http.StatusConflict},
		{model.Conflict("sku %s taken", "A-1"), http.StatusConflict},
		{model.ErrInsufficientStock, http.StatusUnprocessableEntity},
		{fmt.Errorf("wrapped: %w", model.ErrInsufficientQuantity), http.StatusUnprocessableEntity},
		{errors.New("db down"), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestCreateSale_UsesCallerAsDefaultCashier(t *testing.T) {
	cashier := uuid.New()
	var got uuid.UUID
	h := NewSalesHandler(&fakeSales{create: func(id uuid.UUID, _ dto.CreateSaleRequest) (*dto.SaleResponse, error) {
		got = id
		return &dto.SaleResponse{ID: uuid.NewString(), Status: "PENDING"}, nil
	}})
	r := newRouter(func(r *gin.Engine) {
		r.POST("/v1/sales", func(c *gin.Context) {
			c.Set(middleware.ClaimsKey, &middleware.JWTClaims{UserID: cashier.String()})
		}, h.Create)
	})

	w := do(r, http.MethodPost, "/v1/sales", map[string]any{
		"items": []map[string]any{{"product_id": uuid.NewString(), "quantity": 2}},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, cashier, got)
}

func TestCreateSale_ValidationErrorIs400(t *testing.T) {
	h := NewSalesHandler(&fakeSales{})
	r := newRouter(func(r *gin.Engine) { r.POST("/v1/sales", h.Create) })

	w := do(r, http.MethodPost, "/v1/sales", map[string]any{"items": []any{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"fields"`)
}

func TestAddPayment_DomainErrorsMapToStatus(t *testing.T) {
	saleID := uuid.New()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"closed sale", model.ErrIllegalState, http.StatusConflict},
		{"unknown sale", model.NotFound("sale", saleID), http.StatusNotFound},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSalesHandler(&fakeSales{addPayment: func(uuid.UUID, dto.PaymentRequest) (*dto.SaleResponse, error) {
				return nil, tt.err
			}})
			r := newRouter(func(r *gin.Engine) { r.POST("/v1/sales/:id/payments", h.AddPayment) })

			w := do(r, http.MethodPost, "/v1/sales/"+saleID.String()+"/payments",
				map[string]any{"method": "CASH", "amount": "10.00"})

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "connection reset")
			}
		})
	}
}

func TestAddPayment_RejectsUnknownMethod(t *testing.T) {
	h := NewSalesHandler(&fakeSales{})
	r := newRouter(func(r *gin.Engine) { r.POST("/v1/sales/:id/payments", h.AddPayment) })

	w := do(r, http.MethodPost, "/v1/sales/"+uuid.NewString()+"/payments",
		map[string]any{"method": "BITCOIN", "amount": "10.00"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancel_InvalidID(t *testing.T) {
	h := NewSalesHandler(&fakeSales{})
	r := newRouter(func(r *gin.Engine) { r.POST("/v1/sales/:id/cancel", h.Cancel) })

	w := do(r, http.MethodPost, "/v1/sales/not-a-uuid/cancel", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStock_InsufficientIs422(t *testing.T) {
	h := NewInventoryHandler(&fakeInventory{update: func(dto.UpdateStockRequest) (*dto.StockUpdateResponse, error) {
		return nil, model.ErrInsufficientQuantity
	}}, 30)
	r := newRouter(func(r *gin.Engine) { r.POST("/v1/inventory/stock", h.UpdateStock) })

	w := do(r, http.MethodPost, "/v1/inventory/stock", map[string]any{
		"product_id":  uuid.NewString(),
		"location_id": uuid.NewString(),
		"operation":   "SUBTRACT",
		"quantity":    5,
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateStock_UnknownOperationIs400(t *testing.T) {
	h := NewInventoryHandler(&fakeInventory{}, 30)
	r := newRouter(func(r *gin.Engine) { r.POST("/v1/inventory/stock", h.UpdateStock) })

	w := do(r, http.MethodPost, "/v1/inventory/stock", map[string]any{
		"product_id":  uuid.NewString(),
		"location_id": uuid.NewString(),
		"operation":   "MULTIPLY",
		"quantity":    5,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExpiring_DaysQuery(t *testing.T) {
	var gotDays int
	h := NewInventoryHandler(&fakeInventory{expiry: func(days int) ([]dto.ExpiringStockResponse, error) {
		gotDays = days
		return []dto.ExpiringStockResponse{}, nil
	}}, 30)
	r := newRouter(func(r *gin.Engine) { r.GET("/v1/inventory/expiring", h.Expiring) })

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v1/inventory/expiring", nil).Code)
	assert.Equal(t, 30, gotDays)

	require.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v1/inventory/expiring?days=7", nil).Code)
	assert.Equal(t, 7, gotDays)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/v1/inventory/expiring?days=-1", nil).Code)
}
