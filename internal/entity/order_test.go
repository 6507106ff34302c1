package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_Validate(t *testing.T) {
	ok := Order{Total: Money{Amount: dec("11.00"), Currency: "USD"}}
	assert.NoError(t, ok.Validate())

	zero := Order{Total: Money{Amount: dec("0"), Currency: "USD"}}
	assert.ErrorIs(t, zero.Validate(), ErrInvalidAmount)

	noCurrency := Order{Total: Money{Amount: dec("5")}}
	assert.ErrorIs(t, noCurrency.Validate(), ErrInvalidAmount)
}

func TestFeatures_Apply(t *testing.T) {
	on, off := true, false
	f := DefaultFeatures().Apply(FeaturesPatch{Shipping: &on, Reviews: &off})

	assert.True(t, f.ProductListings)
	assert.True(t, f.Contact)
	assert.True(t, f.Shipping)
	assert.False(t, f.Reviews)
	assert.False(t, f.CustomOrders)
	assert.False(t, f.SocialLinks)
}

func TestProduct_RefAndCategory(t *testing.T) {
	p := Product{ID: "p1", ShopID: "s1", ShopName: "S", Name: "N", Price: dec("2.50"), Image: "i.png", Categories: []string{"Home Decor"}}
	ref := p.Ref()
	assert.Equal(t, "p1", ref.ID)
	assert.Equal(t, "s1", ref.ShopID)
	assert.True(t, ref.Price.Equal(dec("2.5")))
	assert.True(t, p.InCategory("Home Decor"))
	assert.False(t, p.InCategory("home decor"))
}
