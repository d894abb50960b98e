package api

import (
	"errors"   // Error kind checks
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation

	"library_system/internal/domain"     // Importing domain models
	"library_system/internal/repository" // Data access
	"library_system/internal/utils"      // Cache and media store

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

const (
	booksListCacheKey  = "books:all"
	bookCacheKeyPrefix = "books:id:"
)

func bookCacheKey(id uint) string {
	return bookCacheKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

// BookHandlers serves the book routes
type BookHandlers struct {
	Books     *repository.BookRepository
	Genres    *repository.Repository[domain.Genre]
	Media     *utils.MediaStore
	Cache     *utils.Cache
	MaxMemory int64 // Multipart memory budget before spilling to disk
}

// applyBookFields copies the submitted fields onto book; absent keys leave values untouched
func applyBookFields(book *domain.Book, fields map[string]string) error {
	ve := &domain.ValidationError{Message: "Invalid book fields!", Fields: map[string]string{}}
	text := map[string]*string{
		"isbn":        &book.ISBN,
		"title":       &book.Title,
		"authors":     &book.Authors,
		"publisher":   &book.Publisher,
		"description": &book.Description,
		"language":    &book.Language,
		"cover_image": &book.CoverImage,
	}
	for key, dst := range text {
		if v, ok := fields[key]; ok {
			*dst = strings.TrimSpace(v)
		}
	}
	if v, ok := fields["publication_date"]; ok {
		d, err := domain.ParseDate(v)
		if err != nil {
			ve.Fields["publication_date"] = "Publication_date must be YYYY-MM-DD"
		} else {
			book.PublicationDate = d
		}
	}
	if v, ok := fields["num_pages"]; ok {
		v = strings.TrimSpace(v)
		if v == "" {
			book.NumPages = 0
		} else if n, err := strconv.Atoi(v); err != nil || n < 0 {
			ve.Fields["num_pages"] = "Num_pages must be a non-negative integer"
		} else {
			book.NumPages = n
		}
	}
	if v, ok := fields["genre_id"]; ok {
		v = strings.TrimSpace(v)
		if v == "" || v == "null" {
			book.GenreID = nil
		} else if n, err := strconv.ParseUint(v, 10, 64); err != nil || n == 0 {
			ve.Fields["genre_id"] = "Genre_id must be a positive integer"
		} else {
			id := uint(n)
			book.GenreID = &id
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// checkRequired reports empty mandatory book fields
func checkRequired(book *domain.Book) error {
	ve := &domain.ValidationError{Message: "Missing required fields!", Fields: map[string]string{}}
	for key, v := range map[string]string{"isbn": book.ISBN, "title": book.Title, "authors": book.Authors} {
		if v == "" {
			ve.Fields[key] = requiredMessage(key)
		}
	}
	if len(ve.Fields) > 0 {
		return ve
	}
	return nil
}

// prepare validates a book assembled from request fields and stores any uploaded cover
func (h *BookHandlers) prepare(c *gin.Context, book *domain.Book, fields map[string]string) error {
	if err := applyBookFields(book, fields); err != nil {
		return err
	}
	if err := checkRequired(book); err != nil {
		return err
	}
	if book.GenreID != nil {
		if _, err := h.Genres.Get(c.Request.Context(), *book.GenreID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.NewValidationError("genre_id", "Genre does not exist")
			}
			return err
		}
	}
	// Without a new file the stored cover path is kept
	path, err := h.Media.Save(c, utils.UploadedFile(c, "cover_image"))
	if err != nil {
		return err
	}
	if path != "" {
		book.CoverImage = path
	}
	return nil
}

func (h *BookHandlers) invalidate(c *gin.Context, id uint) {
	h.Cache.Delete(c.Request.Context(), booksListCacheKey, bookCacheKey(id))
}

// Create handles POST /add-book
func (h *BookHandlers) Create(c *gin.Context) {
	fields, err := formValues(c, h.MaxMemory)
	if err != nil {
		respondError(c, "add book", err, "Book")
		return
	}
	book := &domain.Book{}
	if err := h.prepare(c, book, fields); err != nil {
		respondError(c, "add book", err, "Book")
		return
	}
	if err := h.Books.Create(c.Request.Context(), book); err != nil {
		respondError(c, "add book", err, "Book")
		return
	}
	h.invalidate(c, book.ID)
	logrus.WithFields(logrus.Fields{"book_id": book.ID, "isbn": book.ISBN}).Info("Book created")
	c.JSON(http.StatusCreated, gin.H{"message": "Book created successfully!", "book": book})
}

// List handles GET /list-books
func (h *BookHandlers) List(c *gin.Context) {
	ctx := c.Request.Context()
	var books []domain.Book
	if found, err := h.Cache.Get(ctx, booksListCacheKey, &books); err == nil && found {
		c.JSON(http.StatusOK, books)
		return
	}
	books, err := h.Books.List(ctx)
	if err != nil {
		respondError(c, "list books", err, "Book")
		return
	}
	_ = h.Cache.Set(ctx, booksListCacheKey, books)
	c.JSON(http.StatusOK, books)
}

// Get handles GET /get-book/:id
func (h *BookHandlers) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	var cached domain.Book
	if found, err := h.Cache.Get(ctx, bookCacheKey(id), &cached); err == nil && found {
		c.JSON(http.StatusOK, cached)
		return
	}
	book, err := h.Books.Get(ctx, id)
	if err != nil {
		respondError(c, "get book", err, "Book")
		return
	}
	_ = h.Cache.Set(ctx, bookCacheKey(id), book)
	c.JSON(http.StatusOK, book)
}

// Update handles PUT /update-book/:id
func (h *BookHandlers) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	book, err := h.Books.Get(ctx, id)
	if err != nil {
		respondError(c, "update book", err, "Book")
		return
	}
	fields, err := formValues(c, h.MaxMemory)
	if err != nil {
		respondError(c, "update book", err, "Book")
		return
	}
	if err := h.prepare(c, book, fields); err != nil {
		respondError(c, "update book", err, "Book")
		return
	}
	if err := h.Books.Update(ctx, id, book); err != nil {
		respondError(c, "update book", err, "Book")
		return
	}
	h.invalidate(c, id)
	logrus.WithField("book_id", id).Info("Book updated")
	c.JSON(http.StatusOK, gin.H{"message": "Book updated successfully!"})
}

// Delete handles DELETE /delete-book/:id
func (h *BookHandlers) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.Books.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "delete book", err, "Book")
		return
	}
	h.invalidate(c, id)
	logrus.WithField("book_id", id).Info("Book deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully!"})
}

// Search handles GET /search-books?keyword=
func (h *BookHandlers) Search(c *gin.Context) {
	keyword := strings.TrimSpace(c.Query("keyword"))
	if keyword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Keyword is required!"})
		return
	}
	books, err := h.Books.Search(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, "search books", err, "Book")
		return
	}
	c.JSON(http.StatusOK, books)
}
