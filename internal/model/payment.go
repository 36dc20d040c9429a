package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod: "CASH" | "CREDIT_CARD" | "DEBIT_CARD" | "DIGITAL_PAYMENT" | "BANK_TRANSFER" | "CHECK"
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "CASH"
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentDigital      PaymentMethod = "DIGITAL_PAYMENT"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentCheck        PaymentMethod = "CHECK"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentDigital, PaymentBankTransfer, PaymentCheck:
		return m, nil
	}
	return "", ErrInvalidPaymentMethod
}

// Payment is immutable once built. Position keeps the order in which the
// client submitted it.
type Payment struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey"`
	SaleID          uuid.UUID     `gorm:"type:uuid;not null;index"`
	Position        int           `gorm:"not null"`
	Method          PaymentMethod `gorm:"type:varchar(20);not null"`
	Amount          Money         `gorm:"type:decimal(12,2);not null"`
	ReferenceNumber *string       `gorm:"type:varchar(100)"`
	Notes           *string
	CreatedAt       time.Time
}

func NewPayment(method PaymentMethod, amount Money, reference, notes *string) (*Payment, error) {
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return nil, err
	}
	return &Payment{
		ID:              uuid.New(),
		Method:          method,
		Amount:          amount,
		ReferenceNumber: reference,
		Notes:           notes,
	}, nil
}

func (p *Payment) IsCash() bool { return p.Method == PaymentCash }

func (p *Payment) IsCard() bool {
	return p.Method == PaymentCreditCard || p.Method == PaymentDebitCard
}

func (p *Payment) IsDigital() bool {
	return p.Method == PaymentDigital || p.Method == PaymentBankTransfer
}
