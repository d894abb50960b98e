package api

import (
	"context" // Lookups inside hooks
	"errors"  // Error kind checks
	"strings" // String manipulation

	"library_system/internal/domain"     // Importing domain models
	"library_system/internal/repository" // Data access
	"library_system/internal/utils"      // Cache

	"github.com/gin-gonic/gin"           // Gin web framework
	"github.com/microcosm-cc/bluemonday" // HTML sanitising
)

// textPolicy strips all markup from user-written text
var textPolicy = bluemonday.StrictPolicy()

// sanitize removes markup and surrounding whitespace
func sanitize(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

// ownerID picks the owner for a user-owned entity: the caller on create, the stored owner on update
func ownerID(c *gin.Context, previous uint, creating bool) (uint, error) {
	if !creating {
		return previous, nil
	}
	user, ok := currentUser(c)
	if !ok {
		return 0, errors.New("no authenticated user in context")
	}
	return user.ID, nil
}

// mustExist turns a missing referenced row into a validation error on field
func mustExist[T any](ctx context.Context, repo *repository.Repository[T], id uint, field, label string) error {
	if _, err := repo.Get(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError(field, label+" does not exist")
		}
		return err
	}
	return nil
}

func genreResource(repos *repository.Repositories, cache *utils.Cache) *Resource[domain.Genre] {
	return &Resource[domain.Genre]{
		Name: "Genre",
		Key:  "genre",
		Repo: repos.Genres,
		Prepare: func(c *gin.Context, _, g *domain.Genre) error {
			g.Name = strings.TrimSpace(g.Name)
			if g.Name == "" {
				return domain.NewValidationError("name", requiredMessage("name"))
			}
			return nil
		},
		Changed: func(c *gin.Context, _ *domain.Genre) {
			// Cached books carry genre_id, which a genre delete nulls out
			ctx := c.Request.Context()
			cache.Delete(ctx, booksListCacheKey)
			cache.DeletePrefix(ctx, bookCacheKeyPrefix)
		},
	}
}

func copyResource(repos *repository.Repositories) *Resource[domain.BookCopy] {
	return &Resource[domain.BookCopy]{
		Name: "Book copy",
		Key:  "book_copy",
		Repo: repos.Copies,
		Omit: []string{"availability"}, // Only reservations move a copy in or out of circulation
		Prepare: func(c *gin.Context, previous, bc *domain.BookCopy) error {
			if previous == nil {
				bc.Availability = true // New copies start on the shelf
			} else {
				bc.Availability = previous.Availability // Client input never releases a held copy
			}
			if bc.Price.Valid && bc.Price.Decimal.IsNegative() {
				return domain.NewValidationError("price", "Price must not be negative")
			}
			return mustExist(c.Request.Context(), repos.Books.Repository, bc.BookID, "book_id", "Book")
		},
	}
}

func bookRequestResource(repos *repository.Repositories) *Resource[domain.BookRequest] {
	return &Resource[domain.BookRequest]{
		Name: "Book request",
		Key:  "book_request",
		Repo: repos.Requests,
		Prepare: func(c *gin.Context, previous, br *domain.BookRequest) error {
			var prevOwner uint
			if previous != nil {
				prevOwner = previous.UserID
			}
			owner, err := ownerID(c, prevOwner, previous == nil)
			if err != nil {
				return err
			}
			br.UserID = owner
			br.RequestedTitle = sanitize(br.RequestedTitle)
			br.RequestedAuthors = sanitize(br.RequestedAuthors)
			br.RequestedPublisher = sanitize(br.RequestedPublisher)
			br.Description = sanitize(br.Description)
			if br.RequestedTitle == "" || br.RequestedAuthors == "" {
				return &domain.ValidationError{Message: "Missing required fields!", Fields: map[string]string{
					"requested_title":   requiredMessage("requested_title"),
					"requested_authors": requiredMessage("requested_authors"),
				}}
			}
			return nil
		},
	}
}

func reviewResource(repos *repository.Repositories) *Resource[domain.Review] {
	return &Resource[domain.Review]{
		Name: "Review",
		Key:  "review",
		Repo: repos.Reviews,
		Prepare: func(c *gin.Context, previous, rv *domain.Review) error {
			var prevOwner uint
			if previous != nil {
				prevOwner = previous.UserID
			}
			owner, err := ownerID(c, prevOwner, previous == nil)
			if err != nil {
				return err
			}
			rv.UserID = owner
			rv.ReviewText = sanitize(rv.ReviewText)
			if rv.ReviewText == "" {
				return domain.NewValidationError("review_text", requiredMessage("review_text"))
			}
			return mustExist(c.Request.Context(), repos.Books.Repository, rv.BookID, "book_id", "Book")
		},
	}
}

func bookmarkResource(repos *repository.Repositories) *Resource[domain.Bookmark] {
	return &Resource[domain.Bookmark]{
		Name: "Bookmark",
		Key:  "bookmark",
		Repo: repos.Bookmarks,
		Prepare: func(c *gin.Context, previous, bm *domain.Bookmark) error {
			var prevOwner uint
			if previous != nil {
				prevOwner = previous.UserID
			}
			owner, err := ownerID(c, prevOwner, previous == nil)
			if err != nil {
				return err
			}
			bm.UserID = owner
			return mustExist(c.Request.Context(), repos.Books.Repository, bm.BookID, "book_id", "Book")
		},
	}
}

func transactionResource(repos *repository.Repositories, cache *utils.Cache) *Resource[domain.Transaction] {
	return &Resource[domain.Transaction]{
		Name: "Transaction",
		Key:  "transaction",
		Repo: repos.Transactions,
		Prepare: func(c *gin.Context, previous, tx *domain.Transaction) error {
			var prevOwner uint
			if previous != nil {
				prevOwner = previous.UserID
			}
			owner, err := ownerID(c, prevOwner, previous == nil)
			if err != nil {
				return err
			}
			tx.UserID = owner
			if !tx.Amount.IsPositive() {
				return domain.NewValidationError("amount", "Amount must be greater than zero")
			}
			tx.PaymentMethod = strings.TrimSpace(tx.PaymentMethod)
			if tx.TransactionDate.IsZero() {
				tx.TransactionDate = domain.Today()
			}
			if tx.ReservationID != nil {
				return mustExist(c.Request.Context(), repos.Reservations.Repository, *tx.ReservationID, "reservation_id", "Reservation")
			}
			return nil
		},
		Changed: func(c *gin.Context, _ *domain.Transaction) {
			cache.DeletePrefix(c.Request.Context(), adminTxCachePrefix)
		},
	}
}
