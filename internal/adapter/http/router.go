package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aq2208/gshop-api/internal/adapter/http/middleware"
	"github.com/aq2208/gshop-api/internal/logging"
	"github.com/aq2208/gshop-api/internal/security"
)

type Handlers struct {
	Cart    *CartHandler
	Catalog *CatalogHandler
	Orders  *OrderHandler
	Token   *TokenHandler
}

func NewRouter(h Handlers, authz *middleware.Authz, l *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Metrics(), middleware.Session(), middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		logging.From(c).Debug("health check")
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/token", h.Token.IssueToken)

		v1.GET("/shops", h.Catalog.ListShops)
		v1.GET("/shops/:id", h.Catalog.GetShop)
		v1.GET("/shops/:id/products", h.Catalog.ShopProducts)
		v1.GET("/shops/:id/features", h.Catalog.ShopFeatures)
		v1.POST("/shops", authz.Require(security.PermShopsWrite), h.Catalog.CreateShop)
		v1.GET("/products", h.Catalog.Explore)
		v1.GET("/products/:id", h.Catalog.GetProduct)
		v1.GET("/categories", h.Catalog.Categories)

		cart := v1.Group("/cart")
		cart.GET("", h.Cart.GetCart)
		cart.DELETE("", h.Cart.Clear)
		cart.POST("/items", h.Cart.AddItem)
		cart.PUT("/items/:shopId/:productId", h.Cart.SetQuantity)
		cart.DELETE("/items/:shopId/:productId", h.Cart.RemoveItem)

		v1.POST("/checkout", authz.Require(security.PermOrdersWrite), h.Orders.Checkout)
		v1.GET("/orders/:id", authz.Require(security.PermOrdersRead), h.Orders.GetOrderByID)

		v1.PATCH("/admin/shops/:id/features", authz.Require(security.PermShopsAdmin), h.Catalog.UpdateFeatures)
	}

	return r
}
