package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/logging"
)

// ShippingInfo is echoed into the order snapshot as entered; the checkout
// forms are not validated.
type ShippingInfo struct {
	FullName   string `json:"fullName,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Country    string `json:"country,omitempty"`
}

type CheckoutInput struct {
	SessionID, UserID, IdempotencyKey string
	Shipping                          ShippingInfo
}

type CheckoutOutput struct {
	OrderID string
	Status  string
	Summary OrderSummary
}

type Checkout struct {
	carts    CartStore
	repo     OrderRepo
	idem     IdempotencyStore
	out      OutboxRepo
	pub      OrderPublisher
	rec      Recorder
	taxRate  decimal.Decimal
	currency string
	locks    *keyedMutex
}

func NewCheckout(carts CartStore, repo OrderRepo, idem IdempotencyStore, out OutboxRepo, pub OrderPublisher,
	rec Recorder, taxRate float64, currency string) *Checkout {
	return &Checkout{
		carts:    carts,
		repo:     repo,
		idem:     idem,
		out:      out,
		pub:      pub,
		rec:      rec,
		taxRate:  decimal.NewFromFloat(taxRate),
		currency: currency,
		locks:    newKeyedMutex(),
	}
}

// ShareLocks makes checkout serialize with cart mutations of the same session.
func (uc *Checkout) ShareLocks(cs *CartService) {
	uc.locks = cs.locks
}

type orderSnapshot struct {
	Shops    []domain.ShopGroup `json:"shops"`
	Shipping ShippingInfo       `json:"shipping"`
}

func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	scope := in.UserID
	if scope == "" {
		scope = in.SessionID
	}
	keyed := in.IdempotencyKey != ""
	l := logging.FromCtx(ctx)

	// Fast path: idempotency recall
	if keyed {
		if id, ok, _ := uc.idem.Recall(ctx, scope, in.IdempotencyKey); ok {
			return uc.replay(ctx, id)
		}
	}

	unlock := uc.locks.Lock(in.SessionID)
	defer unlock()

	// A request with the same key may have placed the order while we waited.
	if keyed {
		if out, ok, err := uc.recallLocked(ctx, scope, in); ok || err != nil {
			return out, err
		}
	}

	cart, err := uc.carts.Load(ctx, in.SessionID)
	if err != nil {
		return CheckoutOutput{}, err
	}
	if cart.IsEmpty() {
		return CheckoutOutput{}, ErrEmptyCart
	}

	// Attempt to lock
	if keyed {
		ok, err := uc.idem.TryLock(ctx, scope, in.IdempotencyKey)
		if err != nil {
			return CheckoutOutput{}, err
		}
		if !ok {
			return CheckoutOutput{}, ErrDuplicate
		}
	}
	// Until the row exists the key must stay retryable.
	orderCreated := false
	defer func() {
		if !keyed || orderCreated {
			return
		}
		if err := uc.idem.Release(context.WithoutCancel(ctx), scope, in.IdempotencyKey); err != nil {
			l.Warn("release idempotency key failed", "key", in.IdempotencyKey, "err", err)
		}
	}()

	sum := Summarize(cart, uc.taxRate)
	items, err := json.Marshal(orderSnapshot{Shops: cart.Groups(), Shipping: in.Shipping})
	if err != nil {
		return CheckoutOutput{}, fmt.Errorf("marshal order items: %w", err)
	}

	orderID := uuid.NewString()
	order := domain.Order{
		ID:        orderID,
		UserID:    in.UserID,
		SessionID: in.SessionID,
		Status:    domain.StatusPending,
		Subtotal:  domain.Money{Amount: sum.Subtotal.Round(2), Currency: uc.currency},
		Tax:       domain.Money{Amount: sum.Tax.Round(2), Currency: uc.currency},
		Total:     domain.Money{Amount: sum.GrandTotal.Round(2), Currency: uc.currency},
		ItemsJSON: string(items),
	}
	if err := order.Validate(); err != nil {
		return CheckoutOutput{}, err
	}
	rec := toRecord(order, in.IdempotencyKey)
	// Create order row
	if err := uc.repo.Create(ctx, rec); err != nil {
		return CheckoutOutput{}, fmt.Errorf("create order: %w", err)
	}
	orderCreated = true

	msg := OrderPlacedMsg{
		OrderID:   orderID,
		UserID:    in.UserID,
		Total:     Display(sum.GrandTotal),
		Currency:  uc.currency,
		ItemCount: sum.ItemCount,
	}
	for _, g := range cart.Groups() {
		msg.ShopIDs = append(msg.ShopIDs, g.ShopID)
	}

	payload, _ := json.Marshal(msg)
	if err := uc.out.InsertOrderPlaced(ctx, payload); err != nil {
		l.Warn("outbox insert failed", "order_id", orderID, "err", err)
	}
	if err := uc.pub.PublishPlaced(ctx, msg); err != nil {
		// the outbox row still carries the event
		l.Warn("publish order.placed failed", "order_id", orderID, "err", err)
	}

	if keyed {
		if err := uc.idem.Remember(ctx, scope, in.IdempotencyKey, orderID); err != nil {
			// retries from this session still find the row by its key
			l.Warn("remember idempotency key failed", "order_id", orderID, "err", err)
		}
	}

	// checkout completion resets the cart
	cart.Clear()
	if err := uc.carts.Save(ctx, in.SessionID, cart); err != nil {
		return CheckoutOutput{}, fmt.Errorf("clear cart: %w", err)
	}
	if uc.rec != nil {
		total, _ := sum.GrandTotal.Float64()
		uc.rec.OrderPlaced(total, sum.ItemCount)
	}
	l.Info("order placed", "order_id", orderID, "total", Display(sum.GrandTotal), "items", sum.ItemCount)

	return CheckoutOutput{OrderID: orderID, Status: rec.Status, Summary: sum}, nil
}

// recallLocked runs under the session lock. It falls back to the order table
// so a lost Remember still replays.
func (uc *Checkout) recallLocked(ctx context.Context, scope string, in CheckoutInput) (CheckoutOutput, bool, error) {
	if id, ok, _ := uc.idem.Recall(ctx, scope, in.IdempotencyKey); ok {
		out, err := uc.replay(ctx, id)
		return out, true, err
	}
	rec, err := uc.repo.GetBySessionAndIdemKey(ctx, in.SessionID, in.IdempotencyKey)
	if errors.Is(err, ErrOrderNotFound) {
		return CheckoutOutput{}, false, nil
	}
	if err != nil {
		return CheckoutOutput{}, false, err
	}
	if rec.UserID != in.UserID {
		return CheckoutOutput{}, false, nil
	}
	_ = uc.idem.Remember(ctx, scope, in.IdempotencyKey, rec.ID)
	return outputOf(rec), true, nil
}

func (uc *Checkout) replay(ctx context.Context, orderID string) (CheckoutOutput, error) {
	rec, err := uc.repo.GetByID(ctx, orderID)
	if err != nil {
		return CheckoutOutput{}, err
	}
	return outputOf(rec), nil
}

func outputOf(rec *OrderRecord) CheckoutOutput {
	return CheckoutOutput{
		OrderID: rec.ID,
		Status:  rec.Status,
		Summary: OrderSummary{Subtotal: rec.Subtotal, Tax: rec.Tax, GrandTotal: rec.Total},
	}
}

func toRecord(o domain.Order, idemKey string) *OrderRecord {
	return &OrderRecord{
		ID:             o.ID,
		UserID:         o.UserID,
		SessionID:      o.SessionID,
		Status:         string(o.Status),
		ItemsJSON:      o.ItemsJSON,
		Currency:       o.Total.Currency,
		IdempotencyKey: idemKey,
		Subtotal:       o.Subtotal.Amount,
		Tax:            o.Tax.Amount,
		Total:          o.Total.Amount,
	}
}
