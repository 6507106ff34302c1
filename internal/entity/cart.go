package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ProductRef is what the catalog hands the cart at add time.
type ProductRef struct {
	ID       string
	Name     string
	Price    decimal.Decimal
	Image    string
	ShopID   string
	ShopName string
}

type LineItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

func (li LineItem) LineTotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type ShopGroup struct {
	ShopID   string          `json:"shopId"`
	ShopName string          `json:"shopName"`
	Items    []LineItem      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

func (g *ShopGroup) indexOf(productID string) int {
	for i := range g.Items {
		if g.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// recalc rebuilds the subtotal from the line items. Every mutation ends here.
func (g *ShopGroup) recalc() {
	sum := decimal.Zero
	for _, it := range g.Items {
		sum = sum.Add(it.LineTotal())
	}
	g.Subtotal = sum
}

func (g *ShopGroup) copy() ShopGroup {
	out := *g
	out.Items = append([]LineItem(nil), g.Items...)
	return out
}

// Cart maps shop id to its group. Not safe for concurrent use; callers
// serialize access per session.
type Cart struct {
	groups map[string]*ShopGroup
	order  []string // shop ids in creation order
}

func NewCart() *Cart {
	return &Cart{groups: make(map[string]*ShopGroup)}
}

func (c *Cart) init() {
	if c.groups == nil {
		c.groups = make(map[string]*ShopGroup)
	}
}

// AddItem files the product under shopID, incrementing the quantity when the
// product is already in that group. Price, name and image are captured now
// and never re-synced.
func (c *Cart) AddItem(p ProductRef, shopID string) {
	c.init()
	g, ok := c.groups[shopID]
	if !ok {
		g = &ShopGroup{ShopID: shopID, ShopName: p.ShopName}
		c.groups[shopID] = g
		c.order = append(c.order, shopID)
	}

	if i := g.indexOf(p.ID); i >= 0 {
		g.Items[i].Quantity++
	} else {
		g.Items = append(g.Items, LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.Image,
			Quantity:  1,
		})
	}
	g.recalc()
}

func (c *Cart) RemoveItem(productID, shopID string) {
	g, ok := c.groups[shopID]
	if !ok {
		return
	}
	if i := g.indexOf(productID); i >= 0 {
		g.Items = append(g.Items[:i], g.Items[i+1:]...)
	}
	g.recalc()
	if len(g.Items) == 0 {
		c.dropGroup(shopID)
	}
}

// SetQuantity sets an exact quantity. Anything below 1 is a removal.
func (c *Cart) SetQuantity(productID, shopID string, quantity int) {
	if quantity < 1 {
		c.RemoveItem(productID, shopID)
		return
	}
	g, ok := c.groups[shopID]
	if !ok {
		return
	}
	i := g.indexOf(productID)
	if i < 0 {
		return
	}
	g.Items[i].Quantity = quantity
	g.recalc()
}

func (c *Cart) Clear() {
	c.groups = make(map[string]*ShopGroup)
	c.order = nil
}

func (c *Cart) dropGroup(shopID string) {
	delete(c.groups, shopID)
	for i, id := range c.order {
		if id == shopID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Total is derived on every call from the group subtotals.
func (c *Cart) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, g := range c.groups {
		sum = sum.Add(g.Subtotal)
	}
	return sum
}

func (c *Cart) ItemCount() int {
	n := 0
	for _, g := range c.groups {
		for _, it := range g.Items {
			n += it.Quantity
		}
	}
	return n
}

func (c *Cart) Len() int { return len(c.groups) }

func (c *Cart) IsEmpty() bool { return len(c.groups) == 0 }

// Group returns a copy of one shop group.
func (c *Cart) Group(shopID string) (ShopGroup, bool) {
	g, ok := c.groups[shopID]
	if !ok {
		return ShopGroup{}, false
	}
	return g.copy(), true
}

// Groups returns copies of all shop groups in creation order.
func (c *Cart) Groups() []ShopGroup {
	out := make([]ShopGroup, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.groups[id].copy())
	}
	return out
}

func (c *Cart) Clone() *Cart {
	out := NewCart()
	for _, id := range c.order {
		g := c.groups[id].copy()
		out.groups[id] = &g
		out.order = append(out.order, id)
	}
	return out
}

func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Groups())
}

// UnmarshalJSON rebuilds the cart through the normal insert path, so stored
// subtotals are ignored, non-positive quantities dropped and duplicate lines merged.
func (c *Cart) UnmarshalJSON(b []byte) error {
	var groups []ShopGroup
	if err := json.Unmarshal(b, &groups); err != nil {
		return err
	}
	c.Clear()
	for _, sg := range groups {
		for _, it := range sg.Items {
			if it.Quantity < 1 {
				continue
			}
			c.restore(sg.ShopID, sg.ShopName, it)
		}
	}
	return nil
}

func (c *Cart) restore(shopID, shopName string, it LineItem) {
	g, ok := c.groups[shopID]
	if !ok {
		g = &ShopGroup{ShopID: shopID, ShopName: shopName}
		c.groups[shopID] = g
		c.order = append(c.order, shopID)
	}
	if i := g.indexOf(it.ProductID); i >= 0 {
		g.Items[i].Quantity += it.Quantity
	} else {
		g.Items = append(g.Items, it)
	}
	g.recalc()
}
