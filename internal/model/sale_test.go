package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSale() *Sale {
	return NewSale("V20260310150000", uuid.New(), nil, today)
}

func mustItem(t *testing.T, qty int, price string, d Discount) *SaleItem {
	t.Helper()
	item, err := NewSaleItem(newTestProduct(0, 0), MustQuantity(qty), MustMoney(price), d)
	require.NoError(t, err)
	return item
}

func mustPayment(t *testing.T, method PaymentMethod, amount string) *Payment {
	t.Helper()
	p, err := NewPayment(method, MustMoney(amount), nil, nil)
	require.NoError(t, err)
	return p
}

func pct(t *testing.T, v int64) Discount {
	t.Helper()
	d, err := NewPercentageDiscount(decimal.NewFromInt(v))
	require.NoError(t, err)
	return d
}

func TestSale_NewIsPendingWithZeroTotals(t *testing.T) {
	s := newTestSale()
	assert.Equal(t, SaleStatusPending, s.Status)
	assert.True(t, s.Total.IsZero())
	assert.True(t, s.TotalPaid.IsZero())
	assert.True(t, s.CanAddItems())
}

func TestSale_TotalsWithoutDiscount(t *testing.T) {
	s := newTestSale()
	require.NoError(t, s.AddItem(mustItem(t, 2, "25.00", NoDiscount())))

	assert.Equal(t, "50.00", s.Subtotal.String())
	assert.Equal(t, "0.00", s.TotalDiscount.String())
	assert.Equal(t, "9.00", s.TaxAmount.String())
	assert.Equal(t, "59.00", s.Total.String())
	assert.Equal(t, 2, s.TotalItems())
}

func TestSale_TotalsWithPercentageDiscount(t *testing.T) {
	s := newTestSale()
	require.NoError(t, s.AddItem(mustItem(t, 2, "25.00", pct(t, 10))))

	assert.Equal(t, "5.00", s.TotalDiscount.String())
	assert.Equal(t, "45.00", s.NetAmount().String())
	assert.Equal(t, "8.10", s.TaxAmount.String())
	assert.Equal(t, "53.10", s.Total.String())
	assert.Equal(t, "45.00", s.Items[0].Subtotal.String())
}

func TestSale_ExactPaymentCompletes(t *testing.T) {
	s := newTestSale()
	require.NoError(t, s.AddItem(mustItem(t, 2, "25.00", NoDiscount())))

	require.NoError(t, s.AddPayment(mustPayment(t, PaymentCash, "59.00")))

	assert.Equal(t, "59.00", s.TotalPaid.String())
	assert.Equal(t, "0.00", s.ChangeAmount.String())
	assert.Equal(t, SaleStatusCompleted, s.Status)

	events := s.PullEvents()
	require.Len(t, events, 1)
	done, ok := events[0].(SaleCompleted)
	require.True(t, ok)
	assert.Equal(t, "59.00", done.Total.String())
	require.Len(t, done.Lines, 1)
	assert.Equal(t, 2, done.Lines[0].Quantity)
}

func TestSale_OverpaymentGivesChange(t *testing.T) {
	s := newTestSale()
	require.NoError(t, s.AddItem(mustItem(t, 2, "25.00", NoDiscount())))

	require.NoError(t, s.AddPayment(mustPayment(t, PaymentCash, "60.00")))

	assert.Equal(t, "1.00", s.ChangeAmount.String())
	assert.Equal(t, SaleStatusCompleted, s.Status)
}

func TestSale_SplitPayment(t *testing.T) {
	s := newTestSale()
	require.NoError(t, s.AddItem(mustItem(t, 2, "25.00", NoDiscount())))

	require.NoError(t, s.AddPayment(mustPayment(t, PaymentDebitCard, "20.00")))
	assert.Equal(t, SaleStatusPending, s.Status)
	assert.Equal(t, "39.00", s.PendingAmount().String())
	assert.True(t, s.CanAddPayments())

	require.NoError(t, s.AddPayment(mustPayment(t, PaymentCash, "40.00")))
	assert.Equal(t, SaleStatusCompleted, s.Status)
	assert.Equal(t, "1.00", s.ChangeAmount.String())
	assert.Equal(t, 1, s.Payments[0].Position)
	assert.Equal(t, 2, s.Payments[1].Position)
}

func TestSale_FullPaymentIsIdempotent(t *testing.T) {
	s := newTestSale()
	require.NoError(t, s.AddItem(mustItem(t, 1, "10.00", NoDiscount())))
	require.NoError(t, s.AddPayment(mustPayment(t, PaymentCash, "11.80")))
	require.Equal(t, SaleStatusCompleted, s.Status)

	err := s.AddPayment(mustPayment(t, PaymentCash, "5.00"))

	assert.ErrorIs(t, err, ErrIllegalState)
	assert.Equal(t, SaleStatusCompleted, s.Status)
	assert.Equal(t, "11.80", s.TotalPaid.String())
	assert.Len(t, s.Payments, 1)
}

func TestSale_PaymentRequiresItems(t *testing.T) {
	s := newTestSale()
	err := s.AddPayment(mustPayment(t, PaymentCash, "1.00"))
	assert.ErrorIs(t, err, ErrIllegalState)
}

func TestSale_TotalInvariant(t *testing.T) {
	s := newTestSale()
	lines := []struct {
		qty   int
		price string
		d     Discount
	}{
		{3, "1.99", NoDiscount()},
		{1, "10.05", pct(t, 15)},
		{7, "0.33", NewFixedDiscount(MustMoney("0.50"))},
		{2, "99.99", pct(t, 100)},
		{5, "12.345", pct(t, 33)},
	}
	for _, l := range lines {
		require.NoError(t, s.AddItem(mustItem(t, l.qty, l.price, l.d)))

		net := s.Subtotal.Decimal().Sub(s.TotalDiscount.Decimal())
		want := net.Add(net.Mul(decimal.RequireFromString("0.18")).Round(2))
		assert.True(t, want.Equal(s.Total.Decimal()), "total %s, want %s", s.Total, want)
	}
}

func TestSale_ItemMutations(t *testing.T) {
	s := newTestSale()
	a := mustItem(t, 2, "25.00", NoDiscount())
	b := mustItem(t, 1, "10.00", NoDiscount())
	require.NoError(t, s.AddItem(a))
	require.NoError(t, s.AddItem(b))
	assert.Equal(t, "60.00", s.Subtotal.String())

	require.NoError(t, s.UpdateItemQuantity(a.ID, MustQuantity(1)))
	assert.Equal(t, "35.00", s.Subtotal.String())

	assert.ErrorIs(t, s.UpdateItemQuantity(a.ID, MustQuantity(0)), ErrInvalidQuantity)

	require.NoError(t, s.UpdateItemDiscount(b.ID, NewFixedDiscount(MustMoney("2.00"))))
	assert.Equal(t, "2.00", s.TotalDiscount.String())
	assert.Equal(t, "38.94", s.Total.String())

	require.NoError(t, s.RemoveItem(a.ID))
	require.Len(t, s.Items, 1)
	assert.Equal(t, "8.00", s.NetAmount().String())

	assert.ErrorIs(t, s.RemoveItem(uuid.New()), ErrNotFound)
}

func TestSale_RemovingItemAfterPartialPaymentCompletes(t *testing.T) {
	s := newTestSale()
	a := mustItem(t, 1, "10.00", NoDiscount())
	require.NoError(t, s.AddItem(a))
	require.NoError(t, s.AddItem(mustItem(t, 1, "50.00", NoDiscount())))
	require.NoError(t, s.AddPayment(mustPayment(t, PaymentCash, "60.00")))
	require.Equal(t, SaleStatusPending, s.Status)

	require.NoError(t, s.UpdateItemDiscount(a.ID, pct(t, 100)))

	assert.Equal(t, SaleStatusCompleted, s.Status)
	assert.Equal(t, "1.00", s.ChangeAmount.String())
}

func TestSale_StateMachine(t *testing.T) {
	completed := func(t *testing.T) *Sale {
		s := newTestSale()
		require.NoError(t, s.AddItem(mustItem(t, 1, "10.00", NoDiscount())))
		require.NoError(t, s.AddPayment(mustPayment(t, PaymentCash, "20.00")))
		return s
	}

	t.Run("cancel pending", func(t *testing.T) {
		s := newTestSale()
		require.NoError(t, s.Cancel())
		assert.Equal(t, SaleStatusCancelled, s.Status)
	})
	t.Run("cancel twice is a no-op", func(t *testing.T) {
		s := newTestSale()
		require.NoError(t, s.Cancel())
		require.NoError(t, s.Cancel())
		assert.Equal(t, SaleStatusCancelled, s.Status)
		assert.Len(t, s.PullEvents(), 1)
	})
	t.Run("cancel completed fails", func(t *testing.T) {
		s := completed(t)
		assert.ErrorIs(t, s.Cancel(), ErrIllegalState)
		assert.Equal(t, SaleStatusCompleted, s.Status)
	})
	t.Run("refund completed", func(t *testing.T) {
		s := completed(t)
		require.NoError(t, s.Refund())
		assert.Equal(t, SaleStatusRefunded, s.Status)
	})
	t.Run("cancel refunded fails", func(t *testing.T) {
		s := completed(t)
		require.NoError(t, s.Refund())
		assert.ErrorIs(t, s.Cancel(), ErrIllegalState)
		assert.Equal(t, SaleStatusRefunded, s.Status)
	})
	t.Run("refund pending fails", func(t *testing.T) {
		assert.ErrorIs(t, newTestSale().Refund(), ErrIllegalState)
	})
	t.Run("item change on completed fails", func(t *testing.T) {
		s := completed(t)
		assert.ErrorIs(t, s.AddItem(mustItem(t, 1, "1.00", NoDiscount())), ErrIllegalState)
	})
}

func TestSale_ClosedStatesAreFinal(t *testing.T) {
	cancelled := newTestSale()
	require.NoError(t, cancelled.Cancel())

	refunded := newTestSale()
	require.NoError(t, refunded.AddItem(mustItem(t, 1, "10.00", NoDiscount())))
	require.NoError(t, refunded.AddPayment(mustPayment(t, PaymentCash, "11.80")))
	require.NoError(t, refunded.Refund())

	for _, s := range []*Sale{cancelled, refunded} {
		before := s.Status
		item := mustItem(t, 1, "1.00", NoDiscount())
		assert.Error(t, s.AddItem(item))
		assert.Error(t, s.RemoveItem(item.ID))
		assert.Error(t, s.AddPayment(mustPayment(t, PaymentCash, "1.00")))
		if before == SaleStatusRefunded {
			assert.Error(t, s.Cancel())
		} else {
			assert.NoError(t, s.Cancel())
		}
		assert.Error(t, s.Refund())
		assert.Equal(t, before, s.Status)
	}
}

func TestSale_ZeroTotalCompletesOnPayment(t *testing.T) {
	tests := []struct {
		name     string
		discount Discount
		amount   string
		change   string
	}{
		{"full percentage discount", pct(t, 100), "0.00", "0.00"},
		{"fixed discount above base", NewFixedDiscount(MustMoney("15.00")), "0.00", "0.00"},
		{"positive payment gives change", pct(t, 100), "5.00", "5.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSale()
			require.NoError(t, s.AddItem(mustItem(t, 1, "10.00", tt.discount)))
			require.True(t, s.Total.IsZero())
			require.Equal(t, SaleStatusPending, s.Status)

			require.NoError(t, s.AddPayment(mustPayment(t, PaymentCash, tt.amount)))

			assert.Equal(t, SaleStatusCompleted, s.Status)
			assert.Equal(t, tt.change, s.ChangeAmount.String())
			events := s.PullEvents()
			require.Len(t, events, 1)
			assert.Equal(t, EventSaleCompleted, events[0].EventType())

			assert.ErrorIs(t, s.AddPayment(mustPayment(t, PaymentCash, "1.00")), ErrIllegalState)
		})
	}
}

func TestSale_ZeroPaymentRejectedOnPayableSale(t *testing.T) {
	s := newTestSale()
	require.NoError(t, s.AddItem(mustItem(t, 1, "10.00", NoDiscount())))

	assert.ErrorIs(t, s.AddPayment(mustPayment(t, PaymentCash, "0.00")), ErrInvalidAmount)
	assert.Empty(t, s.Payments)
	assert.Equal(t, SaleStatusPending, s.Status)
}

func TestSale_EventsCarryTimestamps(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	clock = func() time.Time { return fixed }
	t.Cleanup(func() { clock = time.Now })

	s := newTestSale()
	require.NoError(t, s.Cancel())

	events := s.PullEvents()
	require.Len(t, events, 1)
	assert.Equal(t, fixed, events[0].(SaleCancelled).OccurredAt)
}

func TestNewSaleItem_RejectsZeroQuantity(t *testing.T) {
	_, err := NewSaleItem(newTestProduct(0, 0), MustQuantity(0), MustMoney("1.00"), NoDiscount())
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestPaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("credit_card")
	require.NoError(t, err)
	p, err := NewPayment(m, MustMoney("1.00"), strPtr("AUTH-1"), nil)
	require.NoError(t, err)
	assert.True(t, p.IsCard())
	assert.False(t, p.IsCash())

	_, err = ParsePaymentMethod("BITCOIN")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}
