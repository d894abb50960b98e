// Package repository wraps GORM behind per-entity data access types.
package repository

import (
	"context" // Request-scoped queries
	"errors"  // Error kind checks
	"fmt"     // Wrapped sentinels
	"strings" // Driver message matching

	"library_system/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Repository provides create/get/list/update/delete for one model type
type Repository[T any] struct {
	db *gorm.DB
}

// New returns a Repository for T backed by db
func New[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// Create inserts entity and fills its ID and timestamps
func (r *Repository[T]) Create(ctx context.Context, entity *T) error {
	return translate(r.db.WithContext(ctx).Create(entity).Error)
}

// Get loads the row with the given ID
func (r *Repository[T]) Get(ctx context.Context, id uint) (*T, error) {
	var entity T
	// Look up by primary key
	if err := r.db.WithContext(ctx).First(&entity, id).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

// FindBy loads the first row whose column equals value
func (r *Repository[T]) FindBy(ctx context.Context, column string, value any) (*T, error) {
	var entity T
	if err := r.db.WithContext(ctx).Where(column+" = ?", value).First(&entity).Error; err != nil {
		return nil, translate(err)
	}
	return &entity, nil
}

// List returns every row, unordered and unpaginated
func (r *Repository[T]) List(ctx context.Context) ([]T, error) {
	items := []T{} // Empty slice so JSON renders [] rather than null
	if err := r.db.WithContext(ctx).Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

// Update writes every column of entity to the row with the given ID, except those named in omit
func (r *Repository[T]) Update(ctx context.Context, id uint, entity *T, omit ...string) error {
	skip := append([]string{"id", "created_at"}, omit...) // Never rewrite identity or creation time
	err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).
		Select("*").Omit(skip...).Updates(entity).Error
	return translate(err)
}

// Delete removes the row with the given ID
func (r *Repository[T]) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound // Nothing matched the ID
	}
	return nil
}

// Page returns one page of rows matching scope, newest first, plus the total count.
// Associations named in preload are loaded for the page only, never for the count.
func (r *Repository[T]) Page(ctx context.Context, page, pageSize int, scope func(*gorm.DB) *gorm.DB, preload ...string) ([]T, int64, error) {
	query := r.db.WithContext(ctx).Model(new(T))
	if scope != nil {
		query = scope(query) // Caller filters
	}
	var total int64
	// Count before limit and offset are applied
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}
	for _, assoc := range preload {
		query = query.Preload(assoc)
	}
	items := []T{}
	offset := (page - 1) * pageSize // Pages are 1-based
	if err := query.Order("created_at desc").Order("id desc").Offset(offset).Limit(pageSize).Find(&items).Error; err != nil {
		return nil, 0, translate(err)
	}
	return items, total, nil
}

// translate maps GORM and driver errors onto the domain error kinds
func translate(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound // Missing row
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", domain.ErrConflict, err) // Unique key collision
	}
	return err // Anything else is an internal error
}

// isUniqueViolation catches drivers that do not implement GORM's error translator
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
