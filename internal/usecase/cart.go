package usecase

import (
	"context"
	"sync"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/logging"
)

// Recorder receives business counters. A nil Recorder is allowed.
type Recorder interface {
	CartMutation(op string)
	OrderPlaced(total float64, items int)
}

const (
	OpAdd         = "add"
	OpRemove      = "remove"
	OpSetQuantity = "set_quantity"
	OpClear       = "clear"
)

// CartService applies one cart operation per call to the session's cart.
// Mutations for the same session are serialized.
type CartService struct {
	store   CartStore
	catalog Catalog
	rec     Recorder
	locks   *keyedMutex
}

func NewCartService(store CartStore, catalog Catalog, rec Recorder) *CartService {
	return &CartService{store: store, catalog: catalog, rec: rec, locks: newKeyedMutex()}
}

func (s *CartService) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.store.Load(ctx, sessionID)
}

// Add resolves the product in the catalog and files it under shopID, or the
// product's own shop when shopID is empty.
func (s *CartService) Add(ctx context.Context, sessionID, productID, shopID string) (*domain.Cart, error) {
	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	if shopID == "" {
		shopID = p.ShopID
	}
	ref := p.Ref()
	return s.mutate(ctx, sessionID, OpAdd, func(c *domain.Cart) {
		c.AddItem(ref, shopID)
	})
}

func (s *CartService) Remove(ctx context.Context, sessionID, productID, shopID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, OpRemove, func(c *domain.Cart) {
		c.RemoveItem(productID, shopID)
	})
}

func (s *CartService) SetQuantity(ctx context.Context, sessionID, productID, shopID string, qty int) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, OpSetQuantity, func(c *domain.Cart) {
		c.SetQuantity(productID, shopID, qty)
	})
}

func (s *CartService) Clear(ctx context.Context, sessionID string) (*domain.Cart, error) {
	return s.mutate(ctx, sessionID, OpClear, func(c *domain.Cart) {
		c.Clear()
	})
}

func (s *CartService) mutate(ctx context.Context, sessionID, op string, fn func(*domain.Cart)) (*domain.Cart, error) {
	unlock := s.locks.Lock(sessionID)
	defer unlock()

	cart, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	fn(cart)
	if err := s.store.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}

	if s.rec != nil {
		s.rec.CartMutation(op)
	}
	logging.FromCtx(ctx).Debug("cart mutated",
		"op", op,
		"session", sessionID,
		"shops", cart.Len(),
		"item_count", cart.ItemCount(),
		"total", Display(cart.Total()),
	)
	return cart, nil
}

// keyedMutex hands out one mutex per key and forgets it once nobody holds it.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
