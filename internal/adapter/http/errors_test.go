package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/aq2208/gshop-api/internal/entity"
	"github.com/aq2208/gshop-api/internal/logging"
	"github.com/aq2208/gshop-api/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
	logging.SetBase(logging.Discard())
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err  error
		code int
		body string
	}{
		{usecase.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
		{usecase.ErrShopNotFound, http.StatusNotFound, "shop_not_found"},
		{fmt.Errorf("load: %w", usecase.ErrOrderNotFound), http.StatusNotFound, "not_found"},
		{usecase.ErrDuplicate, http.StatusConflict, "duplicate_request"},
		{usecase.ErrEmptyCart, http.StatusBadRequest, "empty_cart"},
		{fmt.Errorf("%w: missing email", usecase.ErrInvalidShop), http.StatusBadRequest, "invalid_shop"},
		{domain.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{usecase.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
		{errors.New("dial tcp: refused"), http.StatusInternalServerError, "server_error"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			writeError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var out map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			assert.Equal(t, tt.body, out["error"])
			assert.NotContains(t, w.Body.String(), "refused")
		})
	}
}
