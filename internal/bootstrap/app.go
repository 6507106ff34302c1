package bootstrap

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aq2208/gshop-api/configs"
	"github.com/aq2208/gshop-api/internal/adapter/catalog"
	"github.com/aq2208/gshop-api/internal/adapter/http"
	"github.com/aq2208/gshop-api/internal/adapter/http/middleware"
	"github.com/aq2208/gshop-api/internal/adapter/memory"
	"github.com/aq2208/gshop-api/internal/adapter/observ"
	"github.com/aq2208/gshop-api/internal/adapter/queue"
	"github.com/aq2208/gshop-api/internal/logging"
	"github.com/aq2208/gshop-api/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

// Deps are the adapters behind the usecase ports. The memory and infra
// drivers differ only in how they fill this in.
type Deps struct {
	Carts     usecase.CartStore
	Catalog   usecase.Catalog
	Orders    usecase.OrderRepo
	Outbox    usecase.OutboxRepo
	Idem      usecase.IdempotencyStore
	Cache     usecase.OrderCache
	Publisher usecase.OrderPublisher
}

// MemoryDeps keeps everything in process. order.placed is delivered
// synchronously to the same handler the Rabbit consumer runs.
func MemoryDeps(cfg configs.Config, log *zap.Logger) Deps {
	orders := memory.NewOrderRepo()
	cache := memory.NewOrderCache()
	pub := &memory.Publisher{}
	pub.Subscribe(queue.NewOrderPlacedHandler(orders, cache, log.Named("order.placed")).HandlePlaced)

	static := catalog.NewStatic(cfg.Catalog.LoadDelay)
	static.Start()

	return Deps{
		Carts:     memory.NewCartStore(cfg.Session.TTL),
		Catalog:   static,
		Orders:    orders,
		Outbox:    &memory.Outbox{},
		Idem:      memory.NewIdempotencyStore(),
		Cache:     cache,
		Publisher: pub,
	}
}

// Build wires usecases, handlers and the router on top of d.
func Build(cfg configs.Config, d Deps) *App {
	rec := observ.PromRecorder{}

	carts := usecase.NewCartService(d.Carts, d.Catalog, rec)
	checkout := usecase.NewCheckout(d.Carts, d.Orders, d.Idem, d.Outbox, d.Publisher, rec,
		cfg.Checkout.TaxRate, cfg.Checkout.Currency)
	checkout.ShareLocks(carts)

	authz := middleware.NewAuthz(cfg)
	h := http.Handlers{
		Cart:    http.NewCartHandler(carts, cfg.Checkout.TaxRate),
		Catalog: http.NewCatalogHandler(usecase.NewCatalogQuery(d.Catalog)),
		Orders:  http.NewOrderHandler(checkout, usecase.NewOrderQuery(d.Orders, d.Cache)),
		Token:   http.NewTokenHandler(authz, cfg.Security.TTL),
	}
	return &App{Router: http.NewRouter(h, authz, logging.New("http"))}
}
