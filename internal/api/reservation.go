package api

import (
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Log timestamps

	"library_system/internal/domain"     // Importing domain models
	"library_system/internal/repository" // Data access
	"library_system/internal/utils"      // Cache

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

const historyCachePrefix = "reservations:user:"

func historyCacheKey(userID uint, page, pageSize int) string {
	return historyCachePrefix + strconv.FormatUint(uint64(userID), 10) +
		":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
}

// ReservationHandlers serves the reservation routes that move book copies in and out of circulation
type ReservationHandlers struct {
	Repo  *repository.ReservationRepository
	Cache *utils.Cache
}

func normalizeStatus(r *domain.Reservation) {
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	if r.Status == "" {
		r.Status = domain.StatusReserved
	}
}

// invalidate drops every cached history page of the user
func (h *ReservationHandlers) invalidate(c *gin.Context, userID uint) {
	h.Cache.DeletePrefix(c.Request.Context(), historyCachePrefix+strconv.FormatUint(uint64(userID), 10)+":")
}

// Create handles POST /add-reservation
func (h *ReservationHandlers) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	var res domain.Reservation
	if err := c.ShouldBindJSON(&res); err != nil {
		respondError(c, "create reservation", bindingError(err), "Reservation")
		return
	}
	res.ResetModel()
	res.UserID = user.ID
	normalizeStatus(&res)
	if res.ReservedDate.IsZero() {
		res.ReservedDate = domain.Today()
	}
	if err := h.Repo.Reserve(c.Request.Context(), &res); err != nil {
		respondError(c, "create reservation", err, "Reservation")
		return
	}
	h.invalidate(c, user.ID)
	logrus.WithFields(logrus.Fields{
		"user_id":        user.ID,
		"reservation_id": res.ID,
		"bookcopy_id":    res.BookCopyID,
		"status":         res.Status,
		"timestamp":      time.Now().Format(time.RFC3339),
	}).Info("Reservation created")
	c.JSON(http.StatusCreated, gin.H{"message": "Reservation created successfully!", "reservation": res})
}

// Update handles PUT /update-reservation/:id
func (h *ReservationHandlers) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	res, err := h.Repo.Get(ctx, id)
	if err != nil {
		respondError(c, "update reservation", err, "Reservation")
		return
	}
	previous := *res
	if err := c.ShouldBindJSON(res); err != nil {
		respondError(c, "update reservation", bindingError(err), "Reservation")
		return
	}
	res.UserID = previous.UserID // Ownership never moves
	normalizeStatus(res)
	if err := h.Repo.Change(ctx, &previous, res); err != nil {
		respondError(c, "update reservation", err, "Reservation")
		return
	}
	h.invalidate(c, res.UserID)
	logrus.WithFields(logrus.Fields{
		"reservation_id": id,
		"from_status":    previous.Status,
		"to_status":      res.Status,
	}).Info("Reservation updated")
	c.JSON(http.StatusOK, gin.H{"message": "Reservation updated successfully!"})
}

// Delete handles DELETE /delete-reservation/:id
func (h *ReservationHandlers) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	res, err := h.Repo.Get(ctx, id)
	if err != nil {
		respondError(c, "delete reservation", err, "Reservation")
		return
	}
	if err := h.Repo.Cancel(ctx, id); err != nil {
		respondError(c, "delete reservation", err, "Reservation")
		return
	}
	h.invalidate(c, res.UserID)
	logrus.WithField("reservation_id", id).Info("Reservation deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully!"})
}

// History handles GET /my-reservations, newest first and paginated
func (h *ReservationHandlers) History(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	page, pageSize := pagination(c)
	ctx := c.Request.Context()
	cacheKey := historyCacheKey(user.ID, page, pageSize)
	var cached struct {
		Reservations []domain.Reservation `json:"reservations"`
		Page         int                  `json:"page"`
		PageSize     int                  `json:"page_size"`
		Total        int64                `json:"total"`
		TotalPages   int                  `json:"total_pages"`
	}
	if found, err := h.Cache.Get(ctx, cacheKey, &cached); err == nil && found {
		c.JSON(http.StatusOK, gin.H{
			"reservations": cached.Reservations,
			"page":         cached.Page,
			"page_size":    cached.PageSize,
			"total":        cached.Total,
			"total_pages":  cached.TotalPages,
			"cached":       true,
		})
		return
	}
	items, total, err := h.Repo.ForUser(ctx, user.ID, page, pageSize)
	if err != nil {
		respondError(c, "reservation history", err, "Reservation")
		return
	}
	resp := gin.H{
		"reservations": items,
		"page":         page,
		"page_size":    pageSize,
		"total":        total,
		"total_pages":  totalPages(total, pageSize),
		"cached":       false,
	}
	_ = h.Cache.Set(ctx, cacheKey, resp)
	c.JSON(http.StatusOK, resp)
}
