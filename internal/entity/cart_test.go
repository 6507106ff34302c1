package domain

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	productA = ProductRef{ID: "pA", Name: "Vase", Price: dec("10"), ShopID: "S1", ShopName: "Shop One"}
	productB = ProductRef{ID: "pB", Name: "Scarf", Price: dec("5"), ShopID: "S2", ShopName: "Shop Two"}
	productC = ProductRef{ID: "pC", Name: "Mug", Price: dec("7"), ShopID: "S1", ShopName: "Shop One"}
)

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "want %s, got %s", want, got)
}

// checkInvariants asserts subtotals, aggregates, no empty groups, unique
// product ids and positive quantities.
func checkInvariants(t *testing.T, c *Cart) {
	t.Helper()
	total := decimal.Zero
	count := 0
	for _, g := range c.Groups() {
		require.NotEmpty(t, g.Items, "empty group %s", g.ShopID)
		seen := map[string]bool{}
		sub := decimal.Zero
		for _, it := range g.Items {
			require.False(t, seen[it.ProductID], "duplicate %s in %s", it.ProductID, g.ShopID)
			seen[it.ProductID] = true
			require.GreaterOrEqual(t, it.Quantity, 1)
			sub = sub.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
			count += it.Quantity
		}
		require.True(t, sub.Equal(g.Subtotal), "group %s subtotal %s != %s", g.ShopID, g.Subtotal, sub)
		total = total.Add(g.Subtotal)
	}
	require.True(t, total.Equal(c.Total()))
	require.Equal(t, count, c.ItemCount())
	require.Equal(t, len(c.Groups()), c.Len())
}

func TestCart_AddSameProductTwice(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")
	c.AddItem(productA, "S1")

	g, ok := c.Group("S1")
	require.True(t, ok)
	require.Len(t, g.Items, 1)
	assert.Equal(t, 2, g.Items[0].Quantity)
	assertDec(t, "20.00", g.Subtotal)
	assertDec(t, "20.00", c.Total())
	assert.Equal(t, 2, c.ItemCount())
	checkInvariants(t, c)
}

func TestCart_TwoShops(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")
	c.AddItem(productB, "S2")

	assert.Equal(t, 2, c.Len())
	assertDec(t, "15.00", c.Total())
	assert.Equal(t, 2, c.ItemCount())

	groups := c.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "S1", groups[0].ShopID)
	assert.Equal(t, "Shop One", groups[0].ShopName)
	assert.Equal(t, "S2", groups[1].ShopID)
	checkInvariants(t, c)
}

func TestCart_SetQuantity(t *testing.T) {
	tests := []struct {
		name      string
		qty       int
		wantTotal string
		wantCount int
		wantGroup bool
	}{
		{"zero removes group", 0, "0", 0, false},
		{"negative removes group", -4, "0", 0, false},
		{"exact quantity", 5, "50.00", 5, true},
		{"one", 1, "10", 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCart()
			c.AddItem(productA, "S1")
			c.AddItem(productA, "S1")

			c.SetQuantity("pA", "S1", tt.qty)

			g, ok := c.Group("S1")
			assert.Equal(t, tt.wantGroup, ok)
			if ok {
				assertDec(t, tt.wantTotal, g.Subtotal)
			}
			assertDec(t, tt.wantTotal, c.Total())
			assert.Equal(t, tt.wantCount, c.ItemCount())
			checkInvariants(t, c)
		})
	}
}

func TestCart_AddThenRemove(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")
	c.RemoveItem("pA", "S1")

	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Groups())
	assertDec(t, "0", c.Total())
	assert.Equal(t, 0, c.ItemCount())
}

func TestCart_TwoProductsSameShop(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")
	c.AddItem(productC, "S1")

	g, ok := c.Group("S1")
	require.True(t, ok)
	assert.Len(t, g.Items, 2)
	assertDec(t, "17.00", g.Subtotal)
	checkInvariants(t, c)
}

func TestCart_RemoveKeepsOtherLines(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")
	c.AddItem(productC, "S1")
	c.RemoveItem("pA", "S1")

	g, ok := c.Group("S1")
	require.True(t, ok)
	require.Len(t, g.Items, 1)
	assert.Equal(t, "pC", g.Items[0].ProductID)
	assertDec(t, "7", g.Subtotal)
}

func TestCart_NotFoundIsNoop(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")

	c.RemoveItem("missing", "S1")
	c.RemoveItem("pA", "S9")
	c.SetQuantity("missing", "S1", 3)
	c.SetQuantity("pA", "S9", 3)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 1, c.ItemCount())
	assertDec(t, "10", c.Total())
	checkInvariants(t, c)
}

func TestCart_ShopOverride(t *testing.T) {
	// the caller may file a product under a shop other than its own
	c := NewCart()
	c.AddItem(productA, "S2")

	_, ok := c.Group("S1")
	assert.False(t, ok)
	g, ok := c.Group("S2")
	require.True(t, ok)
	assert.Equal(t, "pA", g.Items[0].ProductID)
}

func TestCart_PriceCapturedAtAdd(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")

	repriced := productA
	repriced.Price = dec("99")
	c.AddItem(repriced, "S1")

	g, _ := c.Group("S1")
	assertDec(t, "10", g.Items[0].Price)
	assertDec(t, "20", g.Subtotal)
}

func TestCart_ClearIsIdempotent(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")
	c.AddItem(productB, "S2")

	c.Clear()
	assertDec(t, "0", c.Total())
	assert.Equal(t, 0, c.ItemCount())
	assert.True(t, c.IsEmpty())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Empty(t, c.Groups())
}

func TestCart_AccessorsReturnCopies(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")

	g, _ := c.Group("S1")
	g.Items[0].Quantity = 100
	g.Subtotal = dec("1")

	groups := c.Groups()
	groups[0].Items[0].Quantity = 50

	assert.Equal(t, 1, c.ItemCount())
	assertDec(t, "10", c.Total())
	checkInvariants(t, c)
}

func TestCart_Clone(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")
	cl := c.Clone()
	cl.AddItem(productA, "S1")
	cl.AddItem(productB, "S2")

	assert.Equal(t, 1, c.ItemCount())
	assert.Equal(t, 3, cl.ItemCount())
}

func TestCart_ZeroValueUsable(t *testing.T) {
	var c Cart
	c.RemoveItem("pA", "S1")
	c.AddItem(productA, "S1")
	assert.Equal(t, 1, c.ItemCount())
}

func TestCart_JSONRoundTrip(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")
	c.AddItem(productA, "S1")
	c.AddItem(productB, "S2")
	c.AddItem(productC, "S1")

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	back := NewCart()
	require.NoError(t, json.Unmarshal(raw, back))

	assert.Equal(t, len(c.Groups()), len(back.Groups()))
	for i, g := range c.Groups() {
		bg := back.Groups()[i]
		assert.Equal(t, g.ShopID, bg.ShopID)
		assert.Equal(t, g.ShopName, bg.ShopName)
		assert.True(t, g.Subtotal.Equal(bg.Subtotal))
		require.Len(t, bg.Items, len(g.Items))
		for j := range g.Items {
			assert.Equal(t, g.Items[j].ProductID, bg.Items[j].ProductID)
			assert.Equal(t, g.Items[j].Quantity, bg.Items[j].Quantity)
			assert.True(t, g.Items[j].Price.Equal(bg.Items[j].Price))
		}
	}
	assert.True(t, c.Total().Equal(back.Total()))
	assert.Equal(t, c.ItemCount(), back.ItemCount())
}

func TestCart_UnmarshalRepairsPayload(t *testing.T) {
	raw := `[
	  {"shopId":"S1","shopName":"Shop One","subtotal":"999","items":[
	    {"productId":"pA","name":"Vase","price":"10","quantity":2},
	    {"productId":"pA","name":"Vase","price":"10","quantity":1},
	    {"productId":"pX","name":"Gone","price":"4","quantity":0}
	  ]},
	  {"shopId":"S2","shopName":"Shop Two","subtotal":"5","items":[
	    {"productId":"pB","name":"Scarf","price":"5","quantity":-1}
	  ]}
	]`
	c := NewCart()
	require.NoError(t, json.Unmarshal([]byte(raw), c))

	checkInvariants(t, c)
	assert.Equal(t, 1, c.Len())
	g, ok := c.Group("S1")
	require.True(t, ok)
	require.Len(t, g.Items, 1)
	assert.Equal(t, 3, g.Items[0].Quantity)
	assertDec(t, "30", g.Subtotal)
}

func TestCart_UnmarshalEmpty(t *testing.T) {
	c := NewCart()
	c.AddItem(productA, "S1")
	require.NoError(t, json.Unmarshal([]byte(`[]`), c))
	assert.True(t, c.IsEmpty())

	require.Error(t, json.Unmarshal([]byte(`{"bad":true}`), c))
}

func TestCart_RandomOpsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	refs := []ProductRef{
		productA, productB, productC,
		{ID: "pD", Name: "Lamp", Price: dec("12.49"), ShopID: "S3", ShopName: "Shop Three"},
		{ID: "pE", Name: "Soap", Price: dec("3.33"), ShopID: "S2", ShopName: "Shop Two"},
	}
	shops := []string{"S1", "S2", "S3"}

	c := NewCart()
	for i := 0; i < 2000; i++ {
		p := refs[rng.Intn(len(refs))]
		shop := p.ShopID
		if rng.Intn(5) == 0 {
			shop = shops[rng.Intn(len(shops))]
		}
		switch rng.Intn(10) {
		case 0, 1, 2, 3:
			c.AddItem(p, shop)
		case 4, 5:
			c.RemoveItem(p.ID, shop)
		case 6, 7, 8:
			c.SetQuantity(p.ID, shop, rng.Intn(8)-2)
		case 9:
			if rng.Intn(20) == 0 {
				c.Clear()
			}
		}
		checkInvariants(t, c)
	}
}
