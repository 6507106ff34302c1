package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/usecase"
)

type CatalogHandler struct {
	q *usecase.CatalogQuery
}

func NewCatalogHandler(q *usecase.CatalogQuery) *CatalogHandler {
	return &CatalogHandler{q: q}
}

// catalog reads may wait for the initial load
const catalogTimeout = 3 * time.Second

func (h *CatalogHandler) ListShops(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()
	shops, err := h.q.Shops(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shops": shops})
}

func (h *CatalogHandler) GetShop(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()
	shop, err := h.q.Shop(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (h *CatalogHandler) ShopProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()
	products, err := h.q.ShopProducts(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": nonNil(products)})
}

func (h *CatalogHandler) ShopFeatures(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()
	f, err := h.q.Features(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

// GET /v1/products?category=&min_price=&max_price=&q=&sort=
func (h *CatalogHandler) Explore(c *gin.Context) {
	f := usecase.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("q"),
		Sort:     c.Query("sort"),
	}
	var ok bool
	if f.MinPrice, ok = priceParam(c, "min_price"); !ok {
		badRequest(c)
		return
	}
	if f.MaxPrice, ok = priceParam(c, "max_price"); !ok {
		badRequest(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()
	products, err := h.q.Explore(ctx, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": nonNil(products), "count": len(products)})
}

// priceParam returns nil when the bound is absent and ok=false when garbage.
func priceParam(c *gin.Context, name string) (*decimal.Decimal, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	v, err := cast.ToFloat64E(raw)
	if err != nil || v < 0 {
		return nil, false
	}
	d := decimal.NewFromFloat(v)
	return &d, true
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()
	p, err := h.q.Product(ctx, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *CatalogHandler) Categories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()
	cats, err := h.q.Categories(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

type createShopReq struct {
	domain.Shop
	Features *domain.Features `json:"features"`
}

func (h *CatalogHandler) CreateShop(c *gin.Context) {
	var req createShopReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	shop, err := h.q.CreateShop(ctx, req.Shop, req.Features)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, shop)
}

func (h *CatalogHandler) UpdateFeatures(c *gin.Context) {
	var patch domain.FeaturesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogTimeout)
	defer cancel()

	f, err := h.q.UpdateFeatures(ctx, c.Param("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func nonNil(p []domain.Product) []domain.Product {
	if p == nil {
		return []domain.Product{}
	}
	return p
}
