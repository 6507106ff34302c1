package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/aq2208/gshop-api/internal/entity"
)

// CartStore keeps one cart per browsing session.
type CartStore interface {
	Load(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, sessionID string, cart *domain.Cart) error
}

// Catalog is the read side of the static shop/product data plus the two
// admin writes the storefront supports.
type Catalog interface {
	Shops(ctx context.Context) ([]domain.Shop, error)
	Shop(ctx context.Context, id string) (*domain.Shop, error)
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id string) (*domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
	Features(ctx context.Context, shopID string) (domain.Features, error)
	UpdateFeatures(ctx context.Context, shopID string, patch domain.FeaturesPatch) (domain.Features, error)
	CreateShop(ctx context.Context, shop domain.Shop, features domain.Features) (*domain.Shop, error)
}

// Persistence shape (kept out of domain).
type OrderRecord struct {
	ID, UserID, SessionID, Status, ItemsJSON, Currency string
	IdempotencyKey                                     string
	Subtotal, Tax, Total                               decimal.Decimal
}

type OrderRepo interface {
	Create(ctx context.Context, o *OrderRecord) error
	GetByID(ctx context.Context, id string) (*OrderRecord, error)
	// GetBySessionAndIdemKey returns ErrOrderNotFound when no order carries the key.
	GetBySessionAndIdemKey(ctx context.Context, sessionID, key string) (*OrderRecord, error)
	UpdateStatusIf(ctx context.Context, id string, fromStatus, toStatus string) (bool, error)
}

type OutboxRepo interface {
	InsertOrderPlaced(ctx context.Context, payload []byte) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type OrderCache interface {
	SetStatus(ctx context.Context, orderID string, status string) error
	GetStatus(ctx context.Context, orderID string) (string, bool, error)
}

type OrderPublisher interface {
	PublishPlaced(ctx context.Context, msg OrderPlacedMsg) error
}
