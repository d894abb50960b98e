package repository

import (
	"context" // Request-scoped queries

	"library_system/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// ReservationRepository keeps book copy availability in step with reservations
type ReservationRepository struct {
	*Repository[domain.Reservation]
}

// Reserve inserts a reservation, taking its copy out of circulation when the status holds it
func (r *ReservationRepository) Reserve(ctx context.Context, res *domain.Reservation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if res.HoldsCopy() {
			if err := holdCopy(tx, res.BookCopyID); err != nil {
				return err // Rollback, copy missing or already held
			}
		} else if err := copyExists(tx, res.BookCopyID); err != nil {
			return err
		}
		return translate(tx.Create(res).Error) // Insert in the same transaction as the hold
	})
}

// Change persists an updated reservation and moves copy availability with its status
func (r *ReservationRepository) Change(ctx context.Context, previous, updated *domain.Reservation) error {
	if updated.Status == domain.StatusReturned && updated.ReturnedDate.IsZero() {
		updated.ReturnedDate = domain.Today() // Stamp the return
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sameCopy := previous.BookCopyID == updated.BookCopyID
		// Release the old copy when the hold ends or moves
		if previous.HoldsCopy() && (!updated.HoldsCopy() || !sameCopy) {
			if err := releaseCopy(tx, previous.BookCopyID); err != nil {
				return err
			}
		}
		// Take the new copy when a hold starts or moves
		if updated.HoldsCopy() && (!previous.HoldsCopy() || !sameCopy) {
			if err := holdCopy(tx, updated.BookCopyID); err != nil {
				return err
			}
		}
		err := tx.Model(&domain.Reservation{}).Where("id = ?", previous.ID).
			Select("*").Omit("id", "created_at").Updates(updated).Error
		return translate(err)
	})
}

// Cancel deletes a reservation and returns a held copy to circulation
func (r *ReservationRepository) Cancel(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res domain.Reservation
		// Load first so the held copy is known after delete
		if err := tx.First(&res, id).Error; err != nil {
			return translate(err)
		}
		if err := tx.Delete(&res).Error; err != nil {
			return translate(err)
		}
		if res.HoldsCopy() {
			return releaseCopy(tx, res.BookCopyID)
		}
		return nil
	})
}

// ForUser returns one page of a user's reservations, newest first
func (r *ReservationRepository) ForUser(ctx context.Context, userID uint, page, pageSize int) ([]domain.Reservation, int64, error) {
	return r.Page(ctx, page, pageSize, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

// holdCopy flips availability from true to false; the WHERE clause makes concurrent holds exclusive
func holdCopy(tx *gorm.DB, copyID uint) error {
	res := tx.Model(&domain.BookCopy{}).
		Where("id = ? AND availability = ?", copyID, true).
		Update("availability", false)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 1 {
		return nil // Hold taken
	}
	// Nothing updated: either no such copy or someone else holds it
	if err := copyExists(tx, copyID); err != nil {
		return err
	}
	return domain.ErrCopyUnavailable
}

func releaseCopy(tx *gorm.DB, copyID uint) error {
	return translate(tx.Model(&domain.BookCopy{}).Where("id = ?", copyID).Update("availability", true).Error)
}

func copyExists(tx *gorm.DB, copyID uint) error {
	var count int64
	if err := tx.Model(&domain.BookCopy{}).Where("id = ?", copyID).Count(&count).Error; err != nil {
		return translate(err)
	}
	if count == 0 {
		return domain.ErrCopyNotFound
	}
	return nil
}
