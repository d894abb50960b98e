package api

import (
	"errors"   // Error kind checks
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Token lifetime

	"library_system/internal/domain"     // Importing domain models
	"library_system/internal/repository" // Data access
	"library_system/internal/utils"      // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// SignupRequest is accepted as JSON or form fields
type SignupRequest struct {
	Email     string `json:"email" form:"email" binding:"required"`           // Login identity
	FirstName string `json:"first_name" form:"first_name" binding:"required"` // Given name
	LastName  string `json:"last_name" form:"last_name" binding:"required"`   // Family name
	Password  string `json:"password" form:"password" binding:"required"`     // Plaintext, hashed before storage
}

// LoginRequest is accepted as JSON or form fields
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AuthResponse carries a freshly issued token
type AuthResponse struct {
	Token string `json:"token"` // Signed access token
}

// SignupHandler registers a new user
func SignupHandler(users *repository.UserRepository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest
		if err := c.ShouldBind(&req); err != nil {
			respondError(c, "signup", bindingError(err), "User")
			return
		}
		ctx := c.Request.Context()
		// Reject duplicates before hashing, leaving the stored record untouched
		if _, err := users.ByEmail(ctx, req.Email); err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists!"})
			return
		} else if !errors.Is(err, domain.ErrNotFound) {
			respondError(c, "signup lookup", err, "User")
			return
		}
		user, err := domain.NewUser(req.Email, req.FirstName, req.LastName, req.Password)
		if err != nil {
			respondError(c, "signup", err, "User")
			return
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				// Lost a race with a concurrent signup for the same email
				c.JSON(http.StatusConflict, gin.H{"message": "User already exists!"})
				return
			}
			respondError(c, "signup create", err, "User")
			return
		}
		cache.DeletePrefix(ctx, adminUsersCachePrefix)
		logrus.WithFields(logrus.Fields{
			"user_id":   user.ID,
			"timestamp": time.Now().Format(time.RFC3339),
		}).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully!"})
	}
}

// LoginHandler authenticates a user and returns a signed token
func LoginHandler(users *repository.UserRepository, secret string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		_ = c.ShouldBind(&req) // Missing or malformed input is handled below
		if strings.TrimSpace(req.Email) == "" || req.Password == "" {
			c.Header("WWW-Authenticate", `Basic realm="Login required!"`)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Email or Password required!"})
			return
		}
		user, err := users.ByEmail(c.Request.Context(), req.Email)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && !user.Active) {
			c.Header("WWW-Authenticate", `Basic realm="User does not exist!"`)
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Credentials!"})
			return
		}
		if err != nil {
			respondError(c, "login lookup", err, "User")
			return
		}
		if !user.VerifyPassword(req.Password) {
			logrus.WithField("user_id", user.ID).Warn("Login with wrong password")
			c.Header("WWW-Authenticate", `Basic realm="Wrong Password!"`)
			c.JSON(http.StatusForbidden, gin.H{"message": "Could not verify"})
			return
		}
		token, err := utils.GenerateJWT(user.Email, secret, ttl)
		if err != nil {
			respondError(c, "login sign", err, "User")
			return
		}
		logrus.WithField("user_id", user.ID).Info("User logged in")
		c.JSON(http.StatusCreated, AuthResponse{Token: token})
	}
}
