package service

import (
	"context"
	"fmt"
	"time"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/model"
	"github.com/danieln3m0/POSLas4as/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// maxSaleNumberSuffix bounds the collision counter appended to a sale number.
const maxSaleNumberSuffix = 999

type SaleService interface {
	CreateSale(ctx context.Context, cashierID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error)
	GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error)
	GetSaleByNumber(ctx context.Context, number string) (*dto.SaleResponse, error)
	ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	AddItem(ctx context.Context, saleID uuid.UUID, req dto.SaleItemRequest) (*dto.SaleResponse, error)
	UpdateItem(ctx context.Context, saleID, itemID uuid.UUID, req dto.UpdateSaleItemRequest) (*dto.SaleResponse, error)
	RemoveItem(ctx context.Context, saleID, itemID uuid.UUID) (*dto.SaleResponse, error)
	AddPayment(ctx context.Context, saleID uuid.UUID, req dto.PaymentRequest) (*dto.SaleResponse, error)
	CancelSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
	RefundSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error)
}

type saleService struct {
	sales     repository.SaleRepository
	products  repository.ProductRepository
	users     repository.UserRepository
	customers repository.CustomerRepository
	publisher EventPublisher
	now       func() time.Time
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	customers repository.CustomerRepository,
	publisher EventPublisher,
) SaleService {
	return &saleService{
		sales:     sales,
		products:  products,
		users:     users,
		customers: customers,
		publisher: publisher,
		now:       time.Now,
	}
}

// ── CreateSale ────────────────────────────────────────────────────────────────
//   1. Resolve cashier, customer and every product (NotFound on any miss)
//   2. Build the sale and its items; totals are computed by the aggregate
//   3. BEGIN TX: allocate a unique sale number, insert sale + items
//   4. COMMIT

func (s *saleService) CreateSale(ctx context.Context, cashierID uuid.UUID, req dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if req.CashierID != nil {
		id, err := parseID("cashier_id", *req.CashierID)
		if err != nil {
			return nil, err
		}
		cashierID = id
	}
	if _, err := s.users.FindByID(ctx, cashierID); err != nil {
		return nil, err
	}

	var customerID *uuid.UUID
	if req.CustomerID != nil {
		id, err := parseID("customer_id", *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if _, err := s.customers.FindByID(ctx, id); err != nil {
			return nil, err
		}
		customerID = &id
	}

	items := make([]*model.SaleItem, 0, len(req.Items))
	for _, line := range req.Items {
		item, err := s.buildItem(ctx, line)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	now := s.now()
	sale := model.NewSale("", cashierID, customerID, now.UTC())
	sale.Notes = req.Notes
	for _, item := range items {
		if err := sale.AddItem(item); err != nil {
			return nil, err
		}
	}

	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		number, err := s.nextSaleNumber(ctx, tx, now)
		if err != nil {
			return err
		}
		sale.SaleNumber = number
		return s.sales.Save(ctx, tx, sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	publish(ctx, s.publisher, sale.PullEvents())
	return saleToResponse(sale), nil
}

// nextSaleNumber returns V<yyyyMMddHHmmss>, adding a three digit suffix when
// that number is already taken.
func (s *saleService) nextSaleNumber(ctx context.Context, tx *gorm.DB, now time.Time) (string, error) {
	base := "V" + now.Format("20060102150405")
	number := base
	for suffix := 1; ; suffix++ {
		taken, err := s.sales.ExistsBySaleNumber(ctx, tx, number)
		if err != nil {
			return "", err
		}
		if !taken {
			return number, nil
		}
		if suffix > maxSaleNumberSuffix {
			return "", model.Conflict("no free sale number for %s", base)
		}
		number = fmt.Sprintf("%s%03d", base, suffix)
	}
}

func (s *saleService) buildItem(ctx context.Context, line dto.SaleItemRequest) (*model.SaleItem, error) {
	productID, err := parseID("product_id", line.ProductID)
	if err != nil {
		return nil, err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, fmt.Errorf("%w: product %s is inactive", model.ErrValidation, product.SKU)
	}

	qty, err := model.NewQuantity(line.Quantity)
	if err != nil {
		return nil, err
	}
	price := product.SalePrice
	if line.UnitPrice != nil {
		if price, err = model.NewMoney(*line.UnitPrice); err != nil {
			return nil, err
		}
	}
	discount := model.NoDiscount()
	if line.Discount != nil {
		if discount, err = model.ParseDiscount(line.Discount.Type, line.Discount.Value); err != nil {
			return nil, err
		}
	}
	return model.NewSaleItem(product, qty, price, discount)
}

func (s *saleService) GetSale(ctx context.Context, id uuid.UUID) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) GetSaleByNumber(ctx context.Context, number string) (*dto.SaleResponse, error) {
	sale, err := s.sales.FindBySaleNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	return saleToResponse(sale), nil
}

func (s *saleService) ListSales(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Status != "" {
		st, err := model.ParseSaleStatus(filter.Status)
		if err != nil {
			return nil, err
		}
		filter.Status = string(st)
	}

	sales, total, err := s.sales.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SaleResponse, 0, len(sales))
	for i := range sales {
		data = append(data, *saleToResponse(&sales[i]))
	}
	return &dto.SaleListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *saleService) AddItem(ctx context.Context, saleID uuid.UUID, req dto.SaleItemRequest) (*dto.SaleResponse, error) {
	item, err := s.buildItem(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, saleID, func(sale *model.Sale) error {
		return sale.AddItem(item)
	})
}

func (s *saleService) UpdateItem(ctx context.Context, saleID, itemID uuid.UUID, req dto.UpdateSaleItemRequest) (*dto.SaleResponse, error) {
	if req.Quantity == nil && req.Discount == nil {
		return nil, fmt.Errorf("%w: nothing to update", model.ErrValidation)
	}
	var qty *model.Quantity
	if req.Quantity != nil {
		q, err := model.NewQuantity(*req.Quantity)
		if err != nil {
			return nil, err
		}
		qty = &q
	}
	var discount *model.Discount
	if req.Discount != nil {
		d, err := model.ParseDiscount(req.Discount.Type, req.Discount.Value)
		if err != nil {
			return nil, err
		}
		discount = &d
	}

	return s.mutate(ctx, saleID, func(sale *model.Sale) error {
		if qty != nil {
			if err := sale.UpdateItemQuantity(itemID, *qty); err != nil {
				return err
			}
		}
		if discount != nil {
			return sale.UpdateItemDiscount(itemID, *discount)
		}
		return nil
	})
}

func (s *saleService) RemoveItem(ctx context.Context, saleID, itemID uuid.UUID) (*dto.SaleResponse, error) {
	return s.mutate(ctx, saleID, func(sale *model.Sale) error {
		return sale.RemoveItem(itemID)
	})
}

func (s *saleService) AddPayment(ctx context.Context, saleID uuid.UUID, req dto.PaymentRequest) (*dto.SaleResponse, error) {
	method, err := model.ParsePaymentMethod(req.Method)
	if err != nil {
		return nil, err
	}
	amount, err := model.NewMoney(req.Amount)
	if err != nil {
		return nil, err
	}
	payment, err := model.NewPayment(method, amount, req.ReferenceNumber, req.Notes)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, saleID, func(sale *model.Sale) error {
		return sale.AddPayment(payment)
	})
}

func (s *saleService) CancelSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	return s.mutate(ctx, saleID, (*model.Sale).Cancel)
}

func (s *saleService) RefundSale(ctx context.Context, saleID uuid.UUID) (*dto.SaleResponse, error) {
	return s.mutate(ctx, saleID, (*model.Sale).Refund)
}

// mutate loads the sale under a row lock, applies fn and saves the aggregate
// in one transaction. Events are published only after commit.
func (s *saleService) mutate(ctx context.Context, saleID uuid.UUID, fn func(*model.Sale) error) (*dto.SaleResponse, error) {
	var sale *model.Sale
	txErr := runTx(ctx, s.sales.DB(), func(tx *gorm.DB) error {
		var err error
		if sale, err = s.sales.FindByIDForUpdate(ctx, tx, saleID); err != nil {
			return err
		}
		if err := fn(sale); err != nil {
			return err
		}
		return s.sales.Save(ctx, tx, sale)
	})
	if txErr != nil {
		return nil, txErr
	}

	publish(ctx, s.publisher, sale.PullEvents())
	return saleToResponse(sale), nil
}
