package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/cctvstore/internal/server/response"
	"github.com/mamadbah2/cctvstore/pkg/token"
)

const claimsKey = "claims"

// Authenticator validates session tokens.
type Authenticator interface {
	Authenticate(tokenString string) (*token.Claims, error)
}

// Auth requires a valid session token, read from the cookie first and then
// from an "Authorization: Bearer" header.
func Auth(authn Authenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c, cookieName)
		if tokenString == "" {
			response.Unauthorized(c, "authentication required")
			return
		}

		claims, err := authn.Authenticate(tokenString)
		if err != nil {
			Logger(c, nil).Warn("invalid session token", zap.Error(err))
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// Claims returns the authenticated claims set by Auth.
func Claims(c *gin.Context) (*token.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*token.Claims)
	return claims, ok
}

func tokenFromRequest(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	scheme, credentials, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(credentials)
}
