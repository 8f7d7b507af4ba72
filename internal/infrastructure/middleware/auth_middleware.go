package middleware

import (
	"strings"

	"roomcast/internal/core/ports"
	"roomcast/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	ContextKeyClaims = "session_claims"
	ContextKeyUserID = "user_id"
)

// AuthMiddleware verifies the bearer token and stores the session claims on
// the gin context. Failures are passed to ErrorHandlerMiddleware.
func AuthMiddleware(authService ports.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		claims, err := authService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(ContextKeyClaims, claims)
		c.Set(ContextKeyUserID, string(claims.UserID))
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), string(claims.UserID)))
		c.Next()
	}
}

// bearerToken returns the credential of a "Bearer <token>" header, or "" if
// the header carries no bearer credential at all.
func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ClaimsFromContext returns the claims set by AuthMiddleware
func ClaimsFromContext(c *gin.Context) (*ports.SessionClaims, bool) {
	v, exists := c.Get(ContextKeyClaims)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*ports.SessionClaims)
	return claims, ok
}
