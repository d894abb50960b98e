package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation

	"library_system/internal/domain"     // Importing domain models
	"library_system/internal/middleware" // Acting admin lookup
	"library_system/internal/repository" // Data access
	"library_system/internal/utils"      // Cache

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM query scopes
)

const (
	adminUsersCachePrefix = "admin:users:"
	adminTxCachePrefix    = "admin:txs:"
)

// UserAdminResponse represents the user data returned to admin
type UserAdminResponse struct {
	ID        uint            `json:"id"`         // User ID
	Email     string          `json:"email"`      // Login email
	FirstName string          `json:"first_name"` // First name
	LastName  string          `json:"last_name"`  // Last name
	IsAdmin   bool            `json:"is_admin"`   // Admin flag
	Active    bool            `json:"active"`     // Disabled users cannot authenticate
	Profile   *domain.Profile `json:"profile"`    // Associated profile, if any
}

// ListUsersHandler returns all users with their profile
func ListUsersHandler(users *repository.UserRepository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		// Create a cache key based on pagination parameters
		cacheKey := adminUsersCachePrefix + "page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
		var cached struct {
			Users      []UserAdminResponse `json:"users"`       // List of users
			Page       int                 `json:"page"`        // Current page
			PageSize   int                 `json:"page_size"`   // Page size
			Total      int64               `json:"total"`       // Total number of users
			TotalPages int                 `json:"total_pages"` // Total pages
		}
		// If cached data found, return it
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"users":       cached.Users,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true, // Indicate response is from cache
			})
			return
		}
		// Preload Profile relation on the requested page
		list, total, err := users.Page(ctx, page, pageSize, nil, "Profile")
		if err != nil {
			respondError(c, "admin list users", err, "User")
			return
		}
		// Map users to response format
		resp := make([]UserAdminResponse, len(list))
		for i, u := range list {
			resp[i] = UserAdminResponse{
				ID:        u.ID,
				Email:     u.Email,
				FirstName: u.FirstName,
				LastName:  u.LastName,
				IsAdmin:   u.IsAdmin,
				Active:    u.Active,
				Profile:   u.Profile,
			}
		}
		respData := gin.H{
			"users":       resp,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
			"cached":      false, // Indicate response is not from cache
		}
		_ = cache.Set(ctx, cacheKey, respData) // Cache the response for future requests
		c.JSON(http.StatusOK, respData)
	}
}

// ListTransactionsHandler returns all transactions, with optional filtering by user, payment method or date
func ListTransactionsHandler(txs *repository.Repository[domain.Transaction], cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)
		from, err := domain.ParseDate(c.Query("from"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid from date!"})
			return
		}
		to, err := domain.ParseDate(c.Query("to"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid to date!"})
			return
		}
		userID := strings.TrimSpace(c.Query("user_id"))
		if userID != "" {
			if _, err := strconv.ParseUint(userID, 10, 64); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user_id!"})
				return
			}
		}
		method := strings.TrimSpace(c.Query("payment_method"))

		// Build cache key from the normalised filters
		keyParts := []string{
			"user_id=" + userID,
			"payment_method=" + method,
			"from=" + from.String(),
			"to=" + to.String(),
			"page=" + strconv.Itoa(page),
			"page_size=" + strconv.Itoa(pageSize),
		}
		cacheKey := adminTxCachePrefix + strings.Join(keyParts, ":")
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"` // List of transactions
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total number of transactions
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}
		if found, err := cache.Get(ctx, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"transactions": cached.Transactions,
				"page":         cached.Page,
				"page_size":    cached.PageSize,
				"total":        cached.Total,
				"total_pages":  cached.TotalPages,
				"cached":       true,
			})
			return
		}
		list, total, err := txs.Page(ctx, page, pageSize, func(q *gorm.DB) *gorm.DB {
			if userID != "" {
				q = q.Where("user_id = ?", userID) // Filter by owner
			}
			if method != "" {
				q = q.Where("payment_method = ?", method) // Filter by payment method
			}
			if !from.IsZero() {
				q = q.Where("transaction_date >= ?", from) // Filter by start date
			}
			if !to.IsZero() {
				q = q.Where("transaction_date <= ?", to) // Filter by end date
			}
			return q
		})
		if err != nil {
			respondError(c, "admin list transactions", err, "Transaction")
			return
		}
		respData := gin.H{
			"transactions": list,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages(total, pageSize),
			"cached":       false,
		}
		_ = cache.Set(ctx, cacheKey, respData)
		c.JSON(http.StatusOK, respData)
	}
}

// SetActiveRequest toggles whether a user may authenticate
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetUserActiveHandler enables or disables a user account
func SetUserActiveHandler(users *repository.UserRepository, cache *utils.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req SetActiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, "admin set active", bindingError(err), "User")
			return
		}
		ctx := c.Request.Context()
		if _, err := users.Get(ctx, id); err != nil {
			respondError(c, "admin set active", err, "User")
			return
		}
		if err := users.UpdateColumns(ctx, id, map[string]any{"active": *req.Active}); err != nil {
			respondError(c, "admin set active", err, "User")
			return
		}
		cache.DeletePrefix(ctx, adminUsersCachePrefix)
		fields := logrus.Fields{"user_id": id, "active": *req.Active}
		if admin, ok := middleware.CurrentUser(c); ok {
			fields["admin_id"] = admin.ID
		}
		logrus.WithFields(fields).Info("User active flag changed")
		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully!"})
	}
}
