package usecase

import (
	"github.com/shopspring/decimal"

	domain "github.com/aq2208/gshop-api/internal/entity"
)

// OrderSummary is the checkout display math. Nothing here is stored on the cart.
type OrderSummary struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	GrandTotal decimal.Decimal
	ItemCount  int
}

func Summarize(cart *domain.Cart, taxRate decimal.Decimal) OrderSummary {
	subtotal := cart.Total()
	tax := subtotal.Mul(taxRate)
	return OrderSummary{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
		ItemCount:  cart.ItemCount(),
	}
}

// Display renders a figure with two decimals, half away from zero.
func Display(d decimal.Decimal) string {
	return d.StringFixed(2)
}
