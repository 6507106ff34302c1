package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Colors struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
}

type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty" yaml:"facebook"`
	Instagram string `json:"instagram,omitempty" yaml:"instagram"`
	Twitter   string `json:"twitter,omitempty" yaml:"twitter"`
	Pinterest string `json:"pinterest,omitempty" yaml:"pinterest"`
}

// Features are the per-shop display toggles managed from the admin panel.
type Features struct {
	ProductListings bool `json:"productListings" yaml:"productListings"`
	CustomOrders    bool `json:"customOrders" yaml:"customOrders"`
	Reviews         bool `json:"reviews" yaml:"reviews"`
	Contact         bool `json:"contact" yaml:"contact"`
	Shipping        bool `json:"shipping" yaml:"shipping"`
	SocialLinks     bool `json:"socialLinks" yaml:"socialLinks"`
}

func DefaultFeatures() Features {
	return Features{ProductListings: true, Reviews: true, Contact: true}
}

// FeaturesPatch carries only the flags a caller wants to change.
type FeaturesPatch struct {
	ProductListings *bool `json:"productListings"`
	CustomOrders    *bool `json:"customOrders"`
	Reviews         *bool `json:"reviews"`
	Contact         *bool `json:"contact"`
	Shipping        *bool `json:"shipping"`
	SocialLinks     *bool `json:"socialLinks"`
}

func (f Features) Apply(p FeaturesPatch) Features {
	set := func(dst *bool, v *bool) {
		if v != nil {
			*dst = *v
		}
	}
	set(&f.ProductListings, p.ProductListings)
	set(&f.CustomOrders, p.CustomOrders)
	set(&f.Reviews, p.Reviews)
	set(&f.Contact, p.Contact)
	set(&f.Shipping, p.Shipping)
	set(&f.SocialLinks, p.SocialLinks)
	return f
}

type Shop struct {
	ID          string      `json:"id" yaml:"id"`
	Name        string      `json:"name" yaml:"name"`
	Description string      `json:"description" yaml:"description"`
	Logo        string      `json:"logo" yaml:"logo"`
	Banner      string      `json:"banner" yaml:"banner"`
	OwnerName   string      `json:"ownerName" yaml:"ownerName"`
	Email       string      `json:"email" yaml:"email"`
	Phone       string      `json:"phone" yaml:"phone"`
	Address     string      `json:"address" yaml:"address"`
	Categories  []string    `json:"categories" yaml:"categories"`
	Colors      Colors      `json:"colors" yaml:"colors"`
	SocialLinks SocialLinks `json:"socialLinks" yaml:"socialLinks"`
	CreatedAt   time.Time   `json:"createdAt" yaml:"createdAt"`
	Rating      float64     `json:"rating" yaml:"rating"`
}

type Product struct {
	ID          string          `json:"id" yaml:"id"`
	ShopID      string          `json:"shopId" yaml:"shopId"`
	ShopName    string          `json:"shopName" yaml:"shopName"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Price       decimal.Decimal `json:"price" yaml:"-"`
	Image       string          `json:"image" yaml:"image"`
	Gallery     []string        `json:"gallery" yaml:"gallery"`
	Categories  []string        `json:"categories" yaml:"categories"`
	Features    []string        `json:"features" yaml:"features"`
	Inventory   int             `json:"inventory" yaml:"inventory"`
	Rating      float64         `json:"rating" yaml:"rating"`
	ReviewCount int             `json:"reviewCount" yaml:"reviewCount"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`
}

// Ref is the snapshot the cart captures when the product is added.
func (p Product) Ref() ProductRef {
	return ProductRef{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Image:    p.Image,
		ShopID:   p.ShopID,
		ShopName: p.ShopName,
	}
}

func (p Product) InCategory(name string) bool {
	for _, c := range p.Categories {
		if c == name {
			return true
		}
	}
	return false
}

type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Image string `json:"image" yaml:"image"`
	Count int    `json:"count" yaml:"count"`
}
