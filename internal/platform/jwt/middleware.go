package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"contacts_backend/internal/feature/auth/domain/entity"
)

// ContextIdentity is the gin context key holding the resolved *entity.Identity.
const ContextIdentity = "identity"

// IdentityResolver turns an access token into the identity of the caller.
type IdentityResolver interface {
	ResolveCurrentUser(ctx context.Context, accessToken string) (*entity.Identity, error)
}

// AuthRequired returns a Gin middleware function that resolves the bearer token
// and restricts access to authenticated users only.
// isCredentialError classifies resolver errors: those it reports true for become 401,
// anything else is a server-side failure and becomes 500.
func AuthRequired(resolver IdentityResolver, isCredentialError func(error) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Get Authorization header (the scheme is case-insensitive)
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			unauthorized(c, "missing bearer token")
			return
		}

		// 2. Resolve the caller (token decode, then cache or directory)
		identity, err := resolver.ResolveCurrentUser(c.Request.Context(), tokenStr)
		if err != nil {
			if isCredentialError(err) {
				slog.Warn("bearer authentication failed", "error", err, "remote_addr", c.ClientIP())
				unauthorized(c, "Could not validate credentials")
				return
			}
			slog.Error("failed to resolve caller", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		// 3. Pass control to the next handler
		c.Set(ContextIdentity, identity)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// CurrentIdentity returns the identity stored by AuthRequired.
func CurrentIdentity(c *gin.Context) (*entity.Identity, bool) {
	v, ok := c.Get(ContextIdentity)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*entity.Identity)
	return identity, ok && identity != nil
}

func unauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
