package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aq2208/gshop-api/internal/adapter/http/middleware"
	"github.com/aq2208/gshop-api/internal/usecase"
)

type OrderHandler struct {
	checkout *usecase.Checkout
	query    *usecase.OrderQuery
}

func NewOrderHandler(checkout *usecase.Checkout, query *usecase.OrderQuery) *OrderHandler {
	return &OrderHandler{checkout: checkout, query: query}
}

// Payment fields are accepted so the form can post as-is; they are never
// stored.
type checkoutReq struct {
	Shipping usecase.ShippingInfo `json:"shipping"`
	Payment  json.RawMessage      `json:"payment"`
}

type checkoutResp struct {
	OrderID string      `json:"orderId"`
	Status  string      `json:"status"`
	Summary summaryView `json:"summary"`
}

func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
	}

	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated requests

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out, err := h.checkout.Execute(ctx, usecase.CheckoutInput{
		SessionID:      middleware.SessionID(c),
		UserID:         middleware.Subject(c),
		IdempotencyKey: idemKey,
		Shipping:       req.Shipping,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, checkoutResp{
		OrderID: out.OrderID,
		Status:  out.Status,
		Summary: newSummaryView(out.Summary),
	})
}

func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	id := c.Param("id")
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	rec, err := h.query.Get(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	// orders are private to the account that placed them
	if rec.UserID != "" && rec.UserID != middleware.Subject(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       rec.ID,
		"userId":   rec.UserID,
		"status":   rec.Status,
		"subtotal": usecase.Display(rec.Subtotal),
		"tax":      usecase.Display(rec.Tax),
		"total":    usecase.Display(rec.Total),
		"currency": rec.Currency,
		"items":    json.RawMessage(rec.ItemsJSON),
	})
}
