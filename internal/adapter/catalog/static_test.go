package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/usecase"
)

func TestStatic_LoadsSeed(t *testing.T) {
	s := NewStatic(0)
	ctx := context.Background()

	shops, err := s.Shops(ctx)
	require.NoError(t, err)
	assert.Len(t, shops, 3)

	products, err := s.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)
	assert.Equal(t, "129.99", products[0].Price.StringFixed(2))
	assert.Equal(t, "TechGadgets", products[0].ShopName)

	cats, err := s.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 6)

	f, err := s.Features(ctx, "shop-3")
	require.NoError(t, err)
	assert.False(t, f.Reviews)
	assert.True(t, f.SocialLinks)
}

func TestStatic_UnknownIDsReturnNil(t *testing.T) {
	s := NewStatic(0)
	ctx := context.Background()

	shop, err := s.Shop(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, shop)

	p, err := s.Product(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestStatic_ReadsReturnCopies(t *testing.T) {
	s := NewStatic(0)
	ctx := context.Background()

	p, err := s.Product(ctx, "product-1")
	require.NoError(t, err)
	p.Name = "changed"

	again, _ := s.Product(ctx, "product-1")
	assert.Equal(t, "Smart Home Hub", again.Name)
}

func TestStatic_WaitsForLoadDelay(t *testing.T) {
	s := NewStatic(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err := s.Shops(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	start := time.Now()
	shops, err := s.Shops(context.Background())
	require.NoError(t, err)
	assert.Len(t, shops, 3)
	assert.Less(t, time.Since(start), time.Second)
}

func TestStatic_BadSeed(t *testing.T) {
	s := newStatic([]byte("products:\n  - id: p\n    price: \"ten\"\n"), 0)
	_, err := s.Products(context.Background())
	assert.ErrorContains(t, err, "price")
}

func TestStatic_CreateShopAssignsIDs(t *testing.T) {
	s := NewStatic(0)
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	ctx := context.Background()

	a, err := s.CreateShop(ctx, domain.Shop{Name: "A"}, domain.DefaultFeatures())
	require.NoError(t, err)
	b, err := s.CreateShop(ctx, domain.Shop{Name: "B"}, domain.Features{})
	require.NoError(t, err)

	assert.Equal(t, "shop-1714564800000", a.ID)
	assert.Equal(t, "shop-1714564800001", b.ID)
	assert.Equal(t, fixed, a.CreatedAt)

	got, err := s.Shop(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Name)

	f, err := s.Features(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, f.ProductListings)
}

func TestStatic_UpdateFeaturesUnknownShop(t *testing.T) {
	on := true
	_, err := NewStatic(0).UpdateFeatures(context.Background(), "nope", domain.FeaturesPatch{Reviews: &on})
	assert.ErrorIs(t, err, usecase.ErrShopNotFound)
}
