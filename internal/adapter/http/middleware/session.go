package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	SessionHeader = "X-Session-Id"
	sessionKey    = "session_id"
	maxSessionLen = 64
)

// Session pins every request to a browsing session. Clients that send no
// X-Session-Id (or an oversized one) get a fresh id echoed back.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := strings.TrimSpace(c.GetHeader(SessionHeader))
		if sid == "" || len(sid) > maxSessionLen {
			sid = uuid.NewString()
		}
		c.Set(sessionKey, sid)
		c.Header(SessionHeader, sid)
		c.Next()
	}
}

// SessionID returns the id set by Session, or "" outside it.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}
