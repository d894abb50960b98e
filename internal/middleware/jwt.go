package middleware

import (
	"context"  // Request context for lookups
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"library_system/internal/domain" // Importing domain models
	"library_system/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// TokenHeader carries the access token on protected requests
const TokenHeader = "x-access-token"

const currentUserKey = "currentUser"

// UserFinder resolves a token identity to a stored user
type UserFinder interface {
	ByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenAuthMiddleware validates the access token and loads the user it names
func TokenAuthMiddleware(secret string, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is missing!"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret) // Verify signature and expiry
		if err != nil {
			logrus.WithFields(logrus.Fields{"path": c.FullPath(), "error": err.Error()}).Debug("Token rejected")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is invalid!"})
			return
		}
		user, err := users.ByEmail(c.Request.Context(), claims.PublicID)
		if err != nil || !user.Active {
			// Deleted or disabled accounts lose access immediately
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Token is invalid!"})
			return
		}
		c.Set(currentUserKey, user) // Store the user for handlers
		c.Next()
	}
}

// extractToken reads x-access-token, falling back to a Bearer Authorization header
func extractToken(c *gin.Context) string {
	if tok := strings.TrimSpace(c.GetHeader(TokenHeader)); tok != "" {
		return tok
	}
	if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// CurrentUser returns the user loaded by TokenAuthMiddleware
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
