package memory

import (
	"context"
	"sync"

	"github.com/aq2208/gshop-api/internal/usecase"
)

// IdempotencyStore mirrors the redis key layout without expiry.
type IdempotencyStore struct {
	mu    sync.Mutex
	locks map[string]struct{}
	vals  map[string]string
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{locks: map[string]struct{}{}, vals: map[string]string{}}
}

func (s *IdempotencyStore) TryLock(_ context.Context, scope, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := scope + ":" + key
	if _, ok := s.locks[k]; ok {
		return false, nil
	}
	s.locks[k] = struct{}{}
	return true, nil
}

func (s *IdempotencyStore) Release(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locks, scope+":"+key)
	return nil
}

func (s *IdempotencyStore) Remember(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals[scope+":"+key] = value
	return nil
}

func (s *IdempotencyStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vals[scope+":"+key]
	return v, ok, nil
}

var _ usecase.IdempotencyStore = (*IdempotencyStore)(nil)

type OrderCache struct {
	mu     sync.RWMutex
	status map[string]string
}

func NewOrderCache() *OrderCache {
	return &OrderCache{status: map[string]string{}}
}

func (c *OrderCache) SetStatus(_ context.Context, orderID string, status string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[orderID] = status
	return nil
}

func (c *OrderCache) GetStatus(_ context.Context, orderID string) (string, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.status[orderID]
	return s, ok, nil
}

var _ usecase.OrderCache = (*OrderCache)(nil)

// Publisher delivers order.placed synchronously to in-process subscribers.
type Publisher struct {
	mu   sync.RWMutex
	subs []func(context.Context, usecase.OrderPlacedMsg) error
}

func (p *Publisher) Subscribe(fn func(context.Context, usecase.OrderPlacedMsg) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subs = append(p.subs, fn)
}

func (p *Publisher) PublishPlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	p.mu.RLock()
	subs := append([]func(context.Context, usecase.OrderPlacedMsg) error(nil), p.subs...)
	p.mu.RUnlock()
	for _, fn := range subs {
		if err := fn(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

var _ usecase.OrderPublisher = (*Publisher)(nil)
