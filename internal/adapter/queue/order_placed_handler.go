package queue

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/usecase"
)

// OrderPlacedHandler picks up freshly placed orders and hands them to
// fulfilment by moving them PENDING -> PROCESSING.
type OrderPlacedHandler struct {
	Repo  usecase.OrderRepo
	Cache usecase.OrderCache // optional
	Log   *zap.Logger
}

func NewOrderPlacedHandler(repo usecase.OrderRepo, cache usecase.OrderCache, log *zap.Logger) *OrderPlacedHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderPlacedHandler{Repo: repo, Cache: cache, Log: log}
}

// HandlePlaced is used with JSONHandler[usecase.OrderPlacedMsg]. Redelivery is
// harmless: a second run finds the order no longer PENDING and stops.
func (h *OrderPlacedHandler) HandlePlaced(ctx context.Context, msg usecase.OrderPlacedMsg) error {
	moved, err := h.Repo.UpdateStatusIf(ctx, msg.OrderID, string(domain.StatusPending), string(domain.StatusProcessing))
	if err != nil {
		return err
	}
	if !moved {
		h.Log.Debug("order.placed skipped", zap.String("order_id", msg.OrderID))
		return nil
	}

	if h.Cache != nil {
		if err := h.Cache.SetStatus(ctx, msg.OrderID, string(domain.StatusProcessing)); err != nil {
			h.Log.Warn("cache status", zap.String("order_id", msg.OrderID), zap.Error(err))
		}
	}
	h.Log.Info("order processing",
		zap.String("order_id", msg.OrderID),
		zap.String("total", msg.Total),
		zap.Int("items", msg.ItemCount),
		zap.Strings("shops", msg.ShopIDs),
	)
	return nil
}
