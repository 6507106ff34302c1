package memory

import (
	"context"
	"sync"

	"github.com/aq2208/gshop-api/internal/usecase"
)

type OrderRepo struct {
	mu     sync.RWMutex
	orders map[string]usecase.OrderRecord
}

func NewOrderRepo() *OrderRepo {
	return &OrderRepo{orders: make(map[string]usecase.OrderRecord)}
}

func (r *OrderRepo) Create(_ context.Context, o *usecase.OrderRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[o.ID] = *o
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*usecase.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, usecase.ErrOrderNotFound
	}
	return &o, nil
}

func (r *OrderRepo) GetBySessionAndIdemKey(_ context.Context, sessionID, key string) (*usecase.OrderRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if key != "" && o.SessionID == sessionID && o.IdempotencyKey == key {
			return &o, nil
		}
	}
	return nil, usecase.ErrOrderNotFound
}

func (r *OrderRepo) UpdateStatusIf(_ context.Context, id string, fromStatus, toStatus string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != fromStatus {
		return false, nil
	}
	o.Status = toStatus
	r.orders[id] = o
	return true, nil
}

var _ usecase.OrderRepo = (*OrderRepo)(nil)

// Outbox records payloads; there is no relay in memory mode.
type Outbox struct {
	mu       sync.Mutex
	payloads [][]byte
}

func (o *Outbox) InsertOrderPlaced(_ context.Context, payload []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.payloads = append(o.payloads, append([]byte(nil), payload...))
	return nil
}

func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.payloads)
}

var _ usecase.OutboxRepo = (*Outbox)(nil)
