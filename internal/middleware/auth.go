package middleware

import (
	"context"
	"net/http"
	"strings"

	"agilemate/internal/model"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// IdentityVerifier resolves a bearer credential to the caller's identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*model.Identity, error)
}

// Auth rejects requests without a bearer token (401) or whose token fails verification (403).
// It runs on every request; nothing is cached between requests.
func Auth(v IdentityVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if !strings.HasPrefix(header, "Bearer ") || token == "" {
			recordAuth("missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized: No token provided"})
			return
		}
		id, err := v.Verify(c.Request.Context(), token)
		if err != nil {
			recordAuth("rejected")
			c.AbortWithStatusJSON(http.StatusForbidden, model.ErrorResponse{Error: "Forbidden: Invalid token"})
			return
		}
		recordAuth("ok")
		c.Set(identityKey, *id)
		c.Next()
	}
}

// CurrentIdentity returns the identity attached by Auth.
func CurrentIdentity(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok
}
