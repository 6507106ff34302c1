package kafka

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/usecase"
)

// OrderStatusChangedHandler applies fulfilment outcomes to orders that are
// PROCESSING. Late or repeated events for settled orders are ignored.
type OrderStatusChangedHandler struct {
	Repo  usecase.OrderRepo
	Cache usecase.OrderCache // optional
	Log   *zap.Logger
}

func NewOrderStatusChangedHandler(repo usecase.OrderRepo, cache usecase.OrderCache, log *zap.Logger) *OrderStatusChangedHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrderStatusChangedHandler{Repo: repo, Cache: cache, Log: log}
}

// MapStatus turns a fulfilment status into ours.
func MapStatus(external string) domain.Status {
	if external == "SUCCESS" {
		return domain.StatusConfirmed
	}
	return domain.StatusFailed
}

func (h *OrderStatusChangedHandler) Handle(ctx context.Context, ev usecase.OrderStatusChangedMsg) error {
	newStatus := MapStatus(ev.Status)

	moved, err := h.Repo.UpdateStatusIf(ctx, ev.OrderID, string(domain.StatusProcessing), string(newStatus))
	if err != nil {
		return err
	}
	if !moved {
		h.Log.Debug("status change ignored", zap.String("order_id", ev.OrderID), zap.String("status", ev.Status))
		return nil
	}

	// Cache best-effort
	if h.Cache != nil {
		_ = h.Cache.SetStatus(ctx, ev.OrderID, string(newStatus))
	}
	h.Log.Info("order settled", zap.String("order_id", ev.OrderID), zap.String("status", string(newStatus)))
	return nil
}
