package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/aq2208/gshop-api/internal/adapter/http/middleware"
	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/usecase"
)

type CartHandler struct {
	carts   *usecase.CartService
	taxRate decimal.Decimal
}

func NewCartHandler(carts *usecase.CartService, taxRate float64) *CartHandler {
	return &CartHandler{carts: carts, taxRate: decimal.NewFromFloat(taxRate)}
}

type summaryView struct {
	Subtotal   string `json:"subtotal"`
	Tax        string `json:"tax"`
	GrandTotal string `json:"grandTotal"`
	ItemCount  int    `json:"itemCount"`
}

type cartView struct {
	SessionID string             `json:"sessionId"`
	Shops     []domain.ShopGroup `json:"shops"`
	Total     string             `json:"total"`
	ItemCount int                `json:"itemCount"`
	Summary   summaryView        `json:"summary"`
}

func newSummaryView(s usecase.OrderSummary) summaryView {
	return summaryView{
		Subtotal:   usecase.Display(s.Subtotal),
		Tax:        usecase.Display(s.Tax),
		GrandTotal: usecase.Display(s.GrandTotal),
		ItemCount:  s.ItemCount,
	}
}

func (h *CartHandler) view(sid string, cart *domain.Cart) cartView {
	return cartView{
		SessionID: sid,
		Shops:     cart.Groups(),
		Total:     usecase.Display(cart.Total()),
		ItemCount: cart.ItemCount(),
		Summary:   newSummaryView(usecase.Summarize(cart, h.taxRate)),
	}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	sid := middleware.SessionID(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	cart, err := h.carts.Get(ctx, sid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sid, cart))
}

type addItemReq struct {
	ProductID string `json:"productId" binding:"required"`
	ShopID    string `json:"shopId"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	sid := middleware.SessionID(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	cart, err := h.carts.Add(ctx, sid, req.ProductID, req.ShopID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sid, cart))
}

// quantity arrives as whatever the input box held; ParseQuantity sorts it out.
type setQuantityReq struct {
	Quantity any `json:"quantity"`
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req setQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	sid := middleware.SessionID(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	qty := usecase.ParseQuantity(req.Quantity)
	cart, err := h.carts.SetQuantity(ctx, sid, c.Param("productId"), c.Param("shopId"), qty)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sid, cart))
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	sid := middleware.SessionID(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	cart, err := h.carts.Remove(ctx, sid, c.Param("productId"), c.Param("shopId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sid, cart))
}

func (h *CartHandler) Clear(c *gin.Context) {
	sid := middleware.SessionID(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	cart, err := h.carts.Clear(ctx, sid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(sid, cart))
}
