package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/model"
	"github.com/danieln3m0/POSLas4as/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const productCacheTTL = 5 * time.Minute

// ProductCacheKey is the Redis key holding the cached response for sku.
func ProductCacheKey(sku string) string { return "product:sku:" + sku }

// ProductService registers products and serves catalogue lookups.
type ProductService interface {
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	// GetProductBySKU is read-through cached in Redis.
	GetProductBySKU(ctx context.Context, sku string) (*dto.ProductResponse, error)
	InvalidateCache(ctx context.Context, sku string) error
}

type productService struct {
	repo      repository.ProductRepository
	rdb       *redis.Client
	publisher EventPublisher
	now       func() time.Time
}

func NewProductService(repo repository.ProductRepository, rdb *redis.Client, publisher EventPublisher) ProductService {
	return &productService{repo: repo, rdb: rdb, publisher: publisher, now: time.Now}
}

func (s *productService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku, err := model.NewSKU(req.SKU)
	if err != nil {
		return nil, err
	}
	price, err := model.NewMoney(req.SalePrice)
	if err != nil {
		return nil, err
	}
	if req.MaximumStock != nil && *req.MaximumStock < req.MinimumStock {
		return nil, fmt.Errorf("%w: maximum_stock is below minimum_stock", model.ErrValidation)
	}

	exists, err := s.repo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.Conflict("sku %s already exists", sku)
	}
	var barcode *string
	if req.Barcode != nil && strings.TrimSpace(*req.Barcode) != "" {
		b := strings.TrimSpace(*req.Barcode)
		exists, err := s.repo.ExistsByBarcode(ctx, b)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.Conflict("barcode %s already exists", b)
		}
		barcode = &b
	}

	unit := req.UnitMeasure
	if unit == "" {
		unit = "unit"
	}
	p := &model.Product{
		ID:           uuid.New(),
		SKU:          sku,
		Barcode:      barcode,
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		SalePrice:    price,
		UnitMeasure:  unit,
		MinimumStock: req.MinimumStock,
		MaximumStock: req.MaximumStock,
		ReorderPoint: req.ReorderPoint,
		LeadTimeDays: req.LeadTimeDays,
		Active:       true,
	}
	now := s.now()
	p.Registered(now.UTC())
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, p.PullEvents())
	return productToResponse(p, now), nil
}

func (s *productService) GetProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productToResponse(p, s.now()), nil
}

func (s *productService) GetProductBySKU(ctx context.Context, raw string) (*dto.ProductResponse, error) {
	sku, err := model.NewSKU(strings.ToUpper(raw))
	if err != nil {
		return nil, err
	}
	key := ProductCacheKey(sku.String())

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	resp := productToResponse(p, s.now())

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, key, data, productCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Str("sku", sku.String()).Msg("product cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *productService) InvalidateCache(ctx context.Context, sku string) error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Del(ctx, ProductCacheKey(sku)).Err()
}
