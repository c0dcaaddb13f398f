package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/iterate-backend/pkg/helpers"
	"github.com/oksasatya/iterate-backend/pkg/response"
)

const (
	CtxClerkIDKey   = "clerkID"
	CtxSessionIDKey = "sessionID"
)

// SessionParser validates a session token and returns its claims.
type SessionParser interface {
	Parse(token string) (*helpers.SessionClaims, error)
}

// Auth gates private routes behind a Clerk session. The token comes from the
// Authorization bearer header or, for same-site browser calls, the session cookie.
// It sets clerkID and sessionID in the Gin context on success.
func Auth(sessions SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "missing session token")
			return
		}
		if sessions == nil {
			response.Abort(c, http.StatusUnauthorized, "session verification unavailable")
			return
		}
		claims, err := sessions.Parse(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "invalid session token")
			return
		}

		c.Set(CtxClerkIDKey, claims.Subject)
		c.Set(CtxSessionIDKey, claims.SessionID)
		c.Next()
	}
}

func sessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if ck, err := c.Cookie(helpers.SessionCookie); err == nil {
		return ck
	}
	return ""
}
