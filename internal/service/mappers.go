package service

import (
	"time"

	"github.com/danieln3m0/POSLas4as/internal/dto"
	"github.com/danieln3m0/POSLas4as/internal/model"
)

func saleToResponse(s *model.Sale) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:            s.ID.String(),
		SaleNumber:    s.SaleNumber,
		CashierID:     s.CashierID.String(),
		SaleDate:      s.SaleDate.Format(time.RFC3339),
		Status:        string(s.Status),
		Items:         make([]dto.SaleItemResponse, 0, len(s.Items)),
		Payments:      make([]dto.PaymentResponse, 0, len(s.Payments)),
		Subtotal:      s.Subtotal.String(),
		TotalDiscount: s.TotalDiscount.String(),
		TaxAmount:     s.TaxAmount.String(),
		Total:         s.Total.String(),
		TotalPaid:     s.TotalPaid.String(),
		ChangeAmount:  s.ChangeAmount.String(),
		PendingAmount: s.PendingAmount().String(),
		TotalItems:    s.TotalItems(),
		Notes:         s.Notes,
	}
	if s.CustomerID != nil {
		id := s.CustomerID.String()
		resp.CustomerID = &id
	}
	for i := range s.Items {
		it := &s.Items[i]
		value := it.Discount.Percentage.StringFixed(2)
		if it.Discount.IsFixedAmount() {
			value = it.Discount.Amount.String()
		}
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:             it.ID.String(),
			ProductID:      it.ProductID.String(),
			SKU:            it.SKU.String(),
			ProductName:    it.ProductName,
			Quantity:       it.Quantity.Int(),
			UnitPrice:      it.UnitPrice.String(),
			DiscountType:   string(it.Discount.Type),
			DiscountValue:  value,
			DiscountAmount: it.DiscountAmount().String(),
			Subtotal:       it.Subtotal.String(),
		})
	}
	for i := range s.Payments {
		p := &s.Payments[i]
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:              p.ID.String(),
			Method:          string(p.Method),
			Amount:          p.Amount.String(),
			ReferenceNumber: p.ReferenceNumber,
			Notes:           p.Notes,
		})
	}
	return resp
}

func productToResponse(p *model.Product, today time.Time) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:           p.ID.String(),
		SKU:          p.SKU.String(),
		Barcode:      p.Barcode,
		Name:         p.Name,
		Description:  p.Description,
		SalePrice:    p.SalePrice.String(),
		UnitMeasure:  p.UnitMeasure,
		MinimumStock: p.MinimumStock,
		MaximumStock: p.MaximumStock,
		ReorderPoint: p.ReorderPoint,
		LeadTimeDays: p.LeadTimeDays,
		TotalStock:   p.TotalStock(),
		LowStock:     p.IsLowStock(),
		NeedsReorder: p.NeedsReorder(),
		Active:       p.Active,
		Stock:        make([]dto.StockItemResponse, 0, len(p.StockItems)),
	}
	for i := range p.StockItems {
		resp.Stock = append(resp.Stock, stockItemToResponse(&p.StockItems[i], p.StockItems[i].Location, today))
	}
	return resp
}

func stockItemToResponse(si *model.StockItem, loc *model.Location, today time.Time) dto.StockItemResponse {
	resp := dto.StockItemResponse{
		ID:          si.ID.String(),
		LocationID:  si.LocationID.String(),
		Quantity:    si.Quantity.Int(),
		BatchNumber: si.BatchNumber,
		LotNumber:   si.LotNumber,
		Notes:       si.Notes,
	}
	if loc != nil {
		resp.LocationName = loc.Name
	}
	if si.ExpirationDate != nil {
		d := si.ExpirationDate.Format(time.DateOnly)
		days := si.DaysUntilExpiration(today)
		resp.ExpirationDate = &d
		resp.DaysUntilExpiration = &days
	}
	return resp
}

func movementToResponse(m *model.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:               m.ID.String(),
		ProductID:        m.ProductID.String(),
		LocationID:       m.LocationID.String(),
		Operation:        string(m.Operation),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		CreatedAt:        m.CreatedAt.Format(time.RFC3339),
	}
	if m.ReferenceID != nil {
		ref := m.ReferenceID.String()
		resp.ReferenceID = &ref
	}
	return resp
}

func locationToResponse(l *model.Location) dto.LocationResponse {
	return dto.LocationResponse{
		ID:          l.ID.String(),
		Name:        l.Name,
		Type:        string(l.Type),
		Address:     l.Address,
		Description: l.Description,
		Active:      l.Active,
	}
}

func alertFor(p *model.Product) dto.StockAlertResponse {
	return dto.StockAlertResponse{
		ProductID:         p.ID.String(),
		SKU:               p.SKU.String(),
		Name:              p.Name,
		TotalStock:        p.TotalStock(),
		MinimumStock:      p.MinimumStock,
		ReorderPoint:      p.ReorderPoint,
		SuggestedQuantity: max(p.ReorderQuantity(), 0),
	}
}
