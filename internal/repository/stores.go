package repository

import (
	"context" // Request-scoped queries
	"errors"  // Error kind checks
	"strings" // Input normalisation

	"library_system/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Repositories groups the data access types handlers depend on
type Repositories struct {
	Users        *UserRepository
	Profiles     *ProfileRepository
	Genres       *Repository[domain.Genre]
	Books        *BookRepository
	Copies       *Repository[domain.BookCopy]
	Requests     *Repository[domain.BookRequest]
	Reviews      *Repository[domain.Review]
	Bookmarks    *Repository[domain.Bookmark]
	Reservations *ReservationRepository
	Transactions *Repository[domain.Transaction]
}

// NewRepositories wires every repository to db
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:        &UserRepository{Repository: New[domain.User](db)},
		Profiles:     &ProfileRepository{Repository: New[domain.Profile](db)},
		Genres:       New[domain.Genre](db),
		Books:        &BookRepository{Repository: New[domain.Book](db)},
		Copies:       New[domain.BookCopy](db),
		Requests:     New[domain.BookRequest](db),
		Reviews:      New[domain.Review](db),
		Bookmarks:    New[domain.Bookmark](db),
		Reservations: &ReservationRepository{Repository: New[domain.Reservation](db)},
		Transactions: New[domain.Transaction](db),
	}
}

// UserRepository adds lookups by email
type UserRepository struct {
	*Repository[domain.User]
}

// ByEmail loads the user with the given email
func (r *UserRepository) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.FindBy(ctx, "email", strings.TrimSpace(email))
}

// WithProfile loads a user and its profile, if any
func (r *UserRepository) WithProfile(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	// Preload the has-one Profile relation
	if err := r.db.WithContext(ctx).Preload("Profile").First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateColumns writes only the given columns of the user row
func (r *UserRepository) UpdateColumns(ctx context.Context, id uint, columns map[string]any) error {
	// Map updates skip zero-value filtering, so false and "" are written
	return translate(r.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(columns).Error)
}

// ProfileRepository adds lookups by owner
type ProfileRepository struct {
	*Repository[domain.Profile]
}

// ForUser returns the user's profile, or a new unsaved one when none exists
func (r *ProfileRepository) ForUser(ctx context.Context, userID uint) (*domain.Profile, bool, error) {
	profile, err := r.FindBy(ctx, "user_id", userID)
	if err == nil {
		return profile, true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Profile{UserID: userID}, false, nil // Unsaved, created on first Save
	}
	return nil, false, err
}

// Save inserts a new profile or updates an existing one
func (r *ProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == 0 {
		return r.Create(ctx, profile) // First save inserts
	}
	return r.Update(ctx, profile.ID, profile)
}

// BookRepository adds search
type BookRepository struct {
	*Repository[domain.Book]
}

// Search matches keyword against title and authors, case-insensitively
func (r *BookRepository) Search(ctx context.Context, keyword string) ([]domain.Book, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%" // Substring match
	books := []domain.Book{}
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(authors) LIKE ?", pattern, pattern).
		Order("title").
		Find(&books).Error
	if err != nil {
		return nil, translate(err)
	}
	return books, nil
}
