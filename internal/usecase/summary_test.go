package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	domain "github.com/aq2208/gshop-api/internal/entity"
)

func TestSummarize(t *testing.T) {
	c := domain.NewCart()
	c.AddItem(domain.ProductRef{ID: "a", Price: decimal.RequireFromString("60"), ShopID: "s1"}, "s1")
	c.AddItem(domain.ProductRef{ID: "b", Price: decimal.RequireFromString("40"), ShopID: "s2"}, "s2")

	s := Summarize(c, decimal.RequireFromString("0.10"))

	assert.Equal(t, "100.00", Display(s.Subtotal))
	assert.Equal(t, "10.00", Display(s.Tax))
	assert.Equal(t, "110.00", Display(s.GrandTotal))
	assert.Equal(t, 2, s.ItemCount)
}

func TestSummarize_Rounding(t *testing.T) {
	c := domain.NewCart()
	c.AddItem(domain.ProductRef{ID: "a", Price: decimal.RequireFromString("16.99"), ShopID: "s1"}, "s1")
	c.SetQuantity("a", "s1", 3)

	s := Summarize(c, decimal.RequireFromString("0.10"))

	assert.Equal(t, "50.97", Display(s.Subtotal))
	assert.Equal(t, "5.10", Display(s.Tax)) // 5.097
	assert.Equal(t, "56.07", Display(s.GrandTotal))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(domain.NewCart(), decimal.RequireFromString("0.10"))
	assert.Equal(t, "0.00", Display(s.GrandTotal))
	assert.Equal(t, 0, s.ItemCount)
}
