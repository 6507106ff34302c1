package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/logging"
	"github.com/aq2208/gshop-api/internal/usecase"
)

// writeError maps usecase errors onto statuses. Unknown errors are logged
// and hidden behind server_error.
func writeError(c *gin.Context, err error) {
	var status int
	var code string
	switch {
	case errors.Is(err, usecase.ErrProductNotFound):
		status, code = http.StatusNotFound, "product_not_found"
	case errors.Is(err, usecase.ErrShopNotFound):
		status, code = http.StatusNotFound, "shop_not_found"
	case errors.Is(err, usecase.ErrOrderNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, usecase.ErrDuplicate):
		status, code = http.StatusConflict, "duplicate_request"
	case errors.Is(err, usecase.ErrEmptyCart):
		status, code = http.StatusBadRequest, "empty_cart"
	case errors.Is(err, usecase.ErrInvalidShop):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_shop", "detail": err.Error()})
		return
	case errors.Is(err, domain.ErrInvalidAmount):
		status, code = http.StatusBadRequest, "invalid_amount"
	case errors.Is(err, usecase.ErrInvalidCredentials):
		status, code = http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = http.StatusGatewayTimeout, "timeout"
	default:
		logging.From(c).Error("request failed", "err", err)
		status, code = http.StatusInternalServerError, "server_error"
	}
	c.JSON(status, gin.H{"error": code})
}

func badRequest(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
}
