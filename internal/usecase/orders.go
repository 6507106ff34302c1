package usecase

import (
	"context"
)

type OrderQuery struct {
	repo  OrderRepo
	cache OrderCache
}

func NewOrderQuery(repo OrderRepo, cache OrderCache) *OrderQuery {
	return &OrderQuery{repo: repo, cache: cache}
}

// Get loads the order and overlays the cached status, which the consumers
// refresh ahead of the row.
func (q *OrderQuery) Get(ctx context.Context, id string) (*OrderRecord, error) {
	rec, err := q.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.cache != nil {
		if st, ok, err := q.cache.GetStatus(ctx, id); err == nil && ok {
			rec.Status = st
		}
	}
	return rec, nil
}
