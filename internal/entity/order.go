package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusFailed     Status = "FAILED"
)

var ErrInvalidAmount = errors.New("invalid amount")

type Money struct {
	Amount   decimal.Decimal
	Currency string
}

type Order struct {
	ID        string
	UserID    string
	SessionID string
	Status    Status
	Subtotal  Money
	Tax       Money
	Total     Money
	ItemsJSON string
}

func (o *Order) Validate() error {
	if !o.Total.Amount.IsPositive() || o.Total.Currency == "" {
		return ErrInvalidAmount
	}
	return nil
}
