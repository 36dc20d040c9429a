package service

import (
	"context"
	"testing"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductRequest() dto.CreateProductRequest {
	barcode := "7750000000017"
	return dto.CreateProductRequest{
		SKU:          "ARROZ-1KG",
		Barcode:      &barcode,
		Name:         "Arroz 1kg",
		SalePrice:    decimal.RequireFromString("4.505"),
		MinimumStock: 10,
		ReorderPoint: 20,
	}
}

func TestCreateProduct(t *testing.T) {
	repo := newStubProductRepo()
	publisher := &recordingPublisher{}
	svc := NewProductService(repo, nil, publisher)

	resp, err := svc.CreateProduct(context.Background(), validProductRequest())

	require.NoError(t, err)
	assert.Equal(t, "ARROZ-1KG", resp.SKU)
	assert.Equal(t, "4.51", resp.SalePrice)
	assert.Equal(t, "unit", resp.UnitMeasure)
	assert.True(t, resp.LowStock, "a new product has no stock")
	assert.Len(t, repo.products, 1)

	require.Equal(t, []string{model.EventProductCreated}, publisher.types())
	created := publisher.events[0].(model.ProductCreated)
	assert.Equal(t, resp.ID, created.ProductID.String())
	assert.Equal(t, "ARROZ-1KG", created.SKU)
	assert.Equal(t, "4.51", created.SalePrice.String())
}

func TestCreateProduct_ConflictPublishesNothing(t *testing.T) {
	publisher := &recordingPublisher{}
	svc := NewProductService(newStubProductRepo(), nil, publisher)
	ctx := context.Background()
	_, err := svc.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, validProductRequest())

	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Len(t, publisher.events, 1)
}

func TestCreateProduct_Conflicts(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, nil)
	ctx := context.Background()
	_, err := svc.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, validProductRequest())
	assert.ErrorIs(t, err, model.ErrConflict, "duplicate sku")

	req := validProductRequest()
	req.SKU = "ARROZ-5KG"
	_, err = svc.CreateProduct(ctx, req)
	assert.ErrorIs(t, err, model.ErrConflict, "duplicate barcode")
}

func TestCreateProduct_Validation(t *testing.T) {
	svc := NewProductService(newStubProductRepo(), nil, nil)
	ctx := context.Background()

	req := validProductRequest()
	req.SKU = "arroz 1kg"
	_, err := svc.CreateProduct(ctx, req)
	assert.ErrorIs(t, err, model.ErrInvalidSKU)

	req = validProductRequest()
	req.SalePrice = decimal.NewFromInt(-1)
	_, err = svc.CreateProduct(ctx, req)
	assert.ErrorIs(t, err, model.ErrInvalidAmount)

	req = validProductRequest()
	maxStock := 5
	req.MaximumStock = &maxStock
	_, err = svc.CreateProduct(ctx, req)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestGetProductBySKU_WithoutCache(t *testing.T) {
	repo := newStubProductRepo()
	svc := NewProductService(repo, nil, nil)
	ctx := context.Background()
	created, err := svc.CreateProduct(ctx, validProductRequest())
	require.NoError(t, err)

	got, err := svc.GetProductBySKU(ctx, "arroz-1kg")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetProductBySKU(ctx, "NOPE-1")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.NoError(t, svc.InvalidateCache(ctx, "ARROZ-1KG"))
}

func TestLocations(t *testing.T) {
	svc := NewLocationService(newStubLocationRepo())
	ctx := context.Background()

	loc, err := svc.CreateLocation(ctx, dto.CreateLocationRequest{Name: "Central", Type: "warehouse"})
	require.NoError(t, err)
	assert.Equal(t, "WAREHOUSE", loc.Type)

	_, err = svc.CreateLocation(ctx, dto.CreateLocationRequest{Name: "Central", Type: "STORE"})
	assert.ErrorIs(t, err, model.ErrConflict)

	_, err = svc.CreateLocation(ctx, dto.CreateLocationRequest{Name: "Depot", Type: "GARAGE"})
	assert.ErrorIs(t, err, model.ErrValidation)

	all, err := svc.ListLocations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
