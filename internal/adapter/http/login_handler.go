package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aq2208/gshop-api/internal/adapter/http/middleware"
	"github.com/aq2208/gshop-api/internal/security"
)

type TokenHandler struct {
	authz *middleware.Authz
	ttl   time.Duration
}

func NewTokenHandler(authz *middleware.Authz, ttl time.Duration) *TokenHandler {
	return &TokenHandler{authz: authz, ttl: ttl}
}

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// POST /v1/token (form or JSON)
// Accepts: email, password
func (h *TokenHandler) IssueToken(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBind(&req); err != nil {
		badRequest(c)
		return
	}

	p, err := security.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	signed, err := h.authz.Sign(p.Subject, p.Perms, time.Now())
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": signed,
		"token_type":   "Bearer",
		"expires_in":   int64(h.ttl.Seconds()),
		"role":         p.Role,
		"perms":        p.Perms,
	})
}
