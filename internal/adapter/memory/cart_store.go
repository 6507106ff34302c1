package memory

import (
	"context"
	"sync"
	"time"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/usecase"
)

type cartEntry struct {
	cart    *domain.Cart
	touched time.Time
}

// CartStore keeps session carts in process. Entries idle longer than ttl
// read back as empty carts.
type CartStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	carts map[string]cartEntry
}

func NewCartStore(ttl time.Duration) *CartStore {
	return &CartStore{ttl: ttl, now: time.Now, carts: make(map[string]cartEntry)}
}

func (s *CartStore) Load(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.carts[sessionID]
	if !ok {
		return domain.NewCart(), nil
	}
	if s.ttl > 0 && s.now().Sub(e.touched) > s.ttl {
		delete(s.carts, sessionID)
		return domain.NewCart(), nil
	}
	return e.cart.Clone(), nil
}

func (s *CartStore) Save(_ context.Context, sessionID string, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart.IsEmpty() {
		delete(s.carts, sessionID)
		return nil
	}
	s.carts[sessionID] = cartEntry{cart: cart.Clone(), touched: s.now()}
	return nil
}

var _ usecase.CartStore = (*CartStore)(nil)
