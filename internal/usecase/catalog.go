package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	domain "github.com/aq2208/gshop-api/internal/entity"
)

const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
	SortRating    = "rating"
)

// ProductFilter mirrors the explore page controls. Zero values mean "any".
type ProductFilter struct {
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Search   string
	Sort     string
}

type CatalogQuery struct {
	catalog Catalog
}

func NewCatalogQuery(c Catalog) *CatalogQuery {
	return &CatalogQuery{catalog: c}
}

func (q *CatalogQuery) Explore(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	all, err := q.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]domain.Product, 0, len(all))
	for _, p := range all {
		if f.Category != "" && f.Category != "All" && !p.InCategory(f.Category) {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) &&
			!strings.Contains(strings.ToLower(p.ShopName), search) {
			continue
		}
		out = append(out, p)
	}

	switch f.Sort {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price.GreaterThan(out[j].Price) })
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out, nil
}

func (q *CatalogQuery) ShopProducts(ctx context.Context, shopID string) ([]domain.Product, error) {
	if _, err := q.Shop(ctx, shopID); err != nil {
		return nil, err
	}
	all, err := q.catalog.Products(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	for _, p := range all {
		if p.ShopID == shopID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (q *CatalogQuery) Shop(ctx context.Context, id string) (*domain.Shop, error) {
	s, err := q.catalog.Shop(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, ErrShopNotFound
	}
	return s, nil
}

func (q *CatalogQuery) Product(ctx context.Context, id string) (*domain.Product, error) {
	p, err := q.catalog.Product(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (q *CatalogQuery) Shops(ctx context.Context) ([]domain.Shop, error) {
	return q.catalog.Shops(ctx)
}

func (q *CatalogQuery) Categories(ctx context.Context) ([]domain.Category, error) {
	return q.catalog.Categories(ctx)
}

func (q *CatalogQuery) Features(ctx context.Context, shopID string) (domain.Features, error) {
	if _, err := q.Shop(ctx, shopID); err != nil {
		return domain.Features{}, err
	}
	return q.catalog.Features(ctx, shopID)
}

func (q *CatalogQuery) UpdateFeatures(ctx context.Context, shopID string, patch domain.FeaturesPatch) (domain.Features, error) {
	return q.catalog.UpdateFeatures(ctx, shopID, patch)
}

// CreateShop checks the fields the creation form marks as required.
func (q *CatalogQuery) CreateShop(ctx context.Context, shop domain.Shop, features *domain.Features) (*domain.Shop, error) {
	var missing []string
	if strings.TrimSpace(shop.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(shop.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(shop.Email) == "" {
		missing = append(missing, "email")
	}
	if len(shop.Categories) == 0 {
		missing = append(missing, "categories")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidShop, strings.Join(missing, ", "))
	}

	f := domain.DefaultFeatures()
	if features != nil {
		f = *features
	}
	return q.catalog.CreateShop(ctx, shop, f)
}
