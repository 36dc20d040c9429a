package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/model"
	"github.com/danieln3m0/POSLas4as/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// LowStockAlertsKey is a capped Redis list of the latest low stock alerts,
// newest first. The event worker writes it; the inventory API reads it.
const LowStockAlertsKey = "alerts:low_stock"

// InventoryService defines the contract for stock adjustments and stock queries.
type InventoryService interface {
	UpdateStock(ctx context.Context, req dto.UpdateStockRequest) (*dto.StockUpdateResponse, error)
	TransferStock(ctx context.Context, req dto.TransferStockRequest) (*dto.TransferStockResponse, error)
	CalculateReorderQuantity(ctx context.Context, productID uuid.UUID) (*dto.ReorderResponse, error)
	StockAtLocation(ctx context.Context, productID, locationID uuid.UUID) (int, error)
	LowStockProducts(ctx context.Context) ([]dto.StockAlertResponse, error)
	ProductsNeedingReorder(ctx context.Context) ([]dto.StockAlertResponse, error)
	ExpiringStock(ctx context.Context, days int) ([]dto.ExpiringStockResponse, error)
	ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error)
	RecentAlerts(ctx context.Context, limit int64) ([]model.LowStockAlert, error)
}

type inventoryService struct {
	products  repository.ProductRepository
	locations repository.LocationRepository
	movements repository.StockMovementRepository
	locker    Locker
	publisher EventPublisher
	rdb       *redis.Client
	now       func() time.Time
}

func NewInventoryService(
	products repository.ProductRepository,
	locations repository.LocationRepository,
	movements repository.StockMovementRepository,
	locker Locker,
	publisher EventPublisher,
	rdb *redis.Client,
) InventoryService {
	return &inventoryService{
		products:  products,
		locations: locations,
		movements: movements,
		locker:    locker,
		publisher: publisher,
		rdb:       rdb,
		now:       time.Now,
	}
}

// ── UpdateStock ───────────────────────────────────────────────────────────────
//   1. Take the per-product lock
//   2. BEGIN TX: load product FOR UPDATE, resolve location, apply the operation,
//      save the stock items, record the movement
//   3. COMMIT, then publish StockUpdated (+ LowStockAlert)

func (s *inventoryService) UpdateStock(ctx context.Context, req dto.UpdateStockRequest) (*dto.StockUpdateResponse, error) {
	productID, err := parseID("product_id", req.ProductID)
	if err != nil {
		return nil, err
	}
	locationID, err := parseID("location_id", req.LocationID)
	if err != nil {
		return nil, err
	}
	op, err := model.ParseStockOperation(req.Operation)
	if err != nil {
		return nil, err
	}
	qty, err := model.NewQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	meta := model.StockMetadata{
		BatchNumber: req.BatchNumber,
		LotNumber:   req.LotNumber,
		Notes:       req.Notes,
	}
	if req.ExpirationDate != nil {
		d, err := parseDate("expiration_date", *req.ExpirationDate)
		if err != nil {
			return nil, err
		}
		meta.ExpirationDate = &d
	}

	release, err := lock(ctx, s.locker, productID)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.now().UTC()
	var (
		product  *model.Product
		location *model.Location
		mov      *model.StockMovement
	)
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		var err error
		if product, err = s.products.FindByIDForUpdate(ctx, tx, productID); err != nil {
			return err
		}
		if location, err = s.locations.FindByID(ctx, tx, locationID); err != nil {
			return err
		}
		if mov, err = product.ApplyStock(location, op, qty, meta, now); err != nil {
			return err
		}
		if err := s.products.Save(ctx, tx, product); err != nil {
			return err
		}
		return s.movements.CreateTx(ctx, tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	publish(ctx, s.publisher, product.PullEvents())

	item, _ := product.StockItemAt(locationID)
	return &dto.StockUpdateResponse{
		ProductID:     product.ID.String(),
		SKU:           product.SKU.String(),
		PreviousStock: mov.PreviousQuantity,
		NewStock:      mov.NewQuantity,
		TotalStock:    product.TotalStock(),
		LowStock:      product.IsLowStock(),
		Item:          stockItemToResponse(&item, location, now),
	}, nil
}

// ── TransferStock ─────────────────────────────────────────────────────────────
// Both legs run in one transaction; either both movements are recorded or
// neither is.

func (s *inventoryService) TransferStock(ctx context.Context, req dto.TransferStockRequest) (*dto.TransferStockResponse, error) {
	productID, err := parseID("product_id", req.ProductID)
	if err != nil {
		return nil, err
	}
	fromID, err := parseID("from_location_id", req.FromLocationID)
	if err != nil {
		return nil, err
	}
	toID, err := parseID("to_location_id", req.ToLocationID)
	if err != nil {
		return nil, err
	}
	if fromID == toID {
		return nil, fmt.Errorf("%w: source and destination must differ", model.ErrValidation)
	}
	qty, err := model.NewQuantity(req.Quantity)
	if err != nil {
		return nil, err
	}
	if qty.IsZero() {
		return nil, model.ErrInvalidQuantity
	}

	release, err := lock(ctx, s.locker, productID)
	if err != nil {
		return nil, err
	}
	defer release()

	now := s.now().UTC()
	ref := uuid.New()
	var product *model.Product
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		var err error
		if product, err = s.products.FindByIDForUpdate(ctx, tx, productID); err != nil {
			return err
		}
		from, err := s.locations.FindByID(ctx, tx, fromID)
		if err != nil {
			return err
		}
		to, err := s.locations.FindByID(ctx, tx, toID)
		if err != nil {
			return err
		}
		out, in, err := product.Transfer(from, to, qty, now)
		if err != nil {
			return err
		}
		reason := fmt.Sprintf("transfer %s -> %s", from.Name, to.Name)
		if req.Notes != nil {
			reason += ": " + *req.Notes
		}
		if err := s.products.Save(ctx, tx, product); err != nil {
			return err
		}
		for _, mov := range []*model.StockMovement{out, in} {
			mov.Reason = reason
			mov.ReferenceID = &ref
			if err := s.movements.CreateTx(ctx, tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	publish(ctx, s.publisher, product.PullEvents())

	return &dto.TransferStockResponse{
		ProductID:    product.ID.String(),
		Quantity:     qty.Int(),
		FromQuantity: product.StockAt(fromID),
		ToQuantity:   product.StockAt(toID),
		ReferenceID:  ref.String(),
	}, nil
}

// CalculateReorderQuantity may return a negative suggestion: callers should
// look at NeedsReorder first.
func (s *inventoryService) CalculateReorderQuantity(ctx context.Context, productID uuid.UUID) (*dto.ReorderResponse, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ReorderResponse{
		ProductID:         p.ID.String(),
		SKU:               p.SKU.String(),
		TotalStock:        p.TotalStock(),
		ReorderPoint:      p.ReorderPoint,
		NeedsReorder:      p.NeedsReorder(),
		SuggestedQuantity: p.ReorderQuantity(),
	}, nil
}

func (s *inventoryService) StockAtLocation(ctx context.Context, productID, locationID uuid.UUID) (int, error) {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if _, err := s.locations.FindByID(ctx, nil, locationID); err != nil {
		return 0, err
	}
	return p.StockAt(locationID), nil
}

func (s *inventoryService) LowStockProducts(ctx context.Context) ([]dto.StockAlertResponse, error) {
	return s.filterProducts(ctx, (*model.Product).IsLowStock)
}

func (s *inventoryService) ProductsNeedingReorder(ctx context.Context) ([]dto.StockAlertResponse, error) {
	return s.filterProducts(ctx, (*model.Product).NeedsReorder)
}

func (s *inventoryService) filterProducts(ctx context.Context, keep func(*model.Product) bool) ([]dto.StockAlertResponse, error) {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockAlertResponse, 0)
	for i := range products {
		if keep(&products[i]) {
			out = append(out, alertFor(&products[i]))
		}
	}
	return out, nil
}

// ExpiringStock lists non-empty stock items expiring within days, already
// expired ones included.
func (s *inventoryService) ExpiringStock(ctx context.Context, days int) ([]dto.ExpiringStockResponse, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", model.ErrValidation)
	}
	today := s.now().UTC()
	before := today.AddDate(0, 0, days)
	products, err := s.products.ListWithExpiringStock(ctx, before)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExpiringStockResponse, 0)
	for i := range products {
		p := &products[i]
		for j := range p.StockItems {
			si := &p.StockItems[j]
			if si.ExpirationDate == nil || si.Quantity.IsZero() {
				continue
			}
			if !si.HasExpired(today) && !si.IsExpiringSoon(days, today) {
				continue
			}
			entry := dto.ExpiringStockResponse{
				ProductID:           p.ID.String(),
				SKU:                 p.SKU.String(),
				Name:                p.Name,
				Quantity:            si.Quantity.Int(),
				ExpirationDate:      si.ExpirationDate.Format(time.DateOnly),
				DaysUntilExpiration: si.DaysUntilExpiration(today),
			}
			if si.Location != nil {
				entry.LocationName = si.Location.Name
			}
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *inventoryService) ListMovements(ctx context.Context, filter dto.MovementFilter) (*dto.MovementListResponse, error) {
	f := repository.StockMovementFilter{Page: filter.Page, Limit: filter.Limit}
	if filter.ProductID != "" {
		id, err := parseID("product_id", filter.ProductID)
		if err != nil {
			return nil, err
		}
		f.ProductID = &id
	}
	if filter.LocationID != "" {
		id, err := parseID("location_id", filter.LocationID)
		if err != nil {
			return nil, err
		}
		f.LocationID = &id
	}

	movements, total, err := s.movements.List(ctx, f)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovementResponse, 0, len(movements))
	for i := range movements {
		data = append(data, movementToResponse(&movements[i]))
	}
	return &dto.MovementListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// RecentAlerts reads the alert list kept by the event worker. Without Redis
// there is no history and the result is empty.
func (s *inventoryService) RecentAlerts(ctx context.Context, limit int64) ([]model.LowStockAlert, error) {
	if s.rdb == nil {
		return []model.LowStockAlert{}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	raw, err := s.rdb.LRange(ctx, LowStockAlertsKey, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	alerts := make([]model.LowStockAlert, 0, len(raw))
	for _, r := range raw {
		var a model.LowStockAlert
		if err := json.Unmarshal([]byte(r), &a); err != nil {
			continue
		}
		alerts = append(alerts, a)
	}
	return alerts, nil
}
