// Package owned provides database operations for per-user book tracking
// records: ownership, read status, reviews and ratings.
package owned

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/booksread/internal/entities"
)

// Ratings run from 0 to 9 inclusive.
const MaxRating = 9

// ErrRatingOutOfRange is a validation error; out-of-range ratings are
// rejected, never clamped.
var ErrRatingOutOfRange = errors.New("rating must be between 0 and 9")

// Repository handles owned-book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new owned-books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Add records that a user owns a catalog book. Adding the same book twice
// returns the existing record; the (user, book) pair stays unique.
func (r *Repository) Add(ctx context.Context, userID, bookID uint) (*entities.OwnedBook, error) {
	var owned entities.OwnedBook
	err := r.db.WithContext(ctx).
		Where(entities.OwnedBook{UserID: userID, BookID: bookID}).
		FirstOrCreate(&owned).Error
	if err != nil {
		return nil, err
	}
	return &owned, nil
}

// Remove deletes a user's tracking record. The catalog book itself stays.
func (r *Repository) Remove(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.OwnedBook{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetByID retrieves one of the user's owned books with catalog data loaded.
func (r *Repository) GetByID(ctx context.Context, id, userID uint) (*entities.OwnedBook, error) {
	var owned entities.OwnedBook
	err := r.db.WithContext(ctx).
		Preload("Book").Preload("Book.Authors").Preload("Book.Publisher").
		Where("id = ? AND user_id = ?", id, userID).
		First(&owned).Error
	if err != nil {
		return nil, err
	}
	return &owned, nil
}

// ListForUser retrieves all of a user's owned books with catalog data loaded.
func (r *Repository) ListForUser(ctx context.Context, userID uint) ([]entities.OwnedBook, error) {
	var owned []entities.OwnedBook
	err := r.db.WithContext(ctx).
		Preload("Book").Preload("Book.Authors").Preload("Book.Publisher").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&owned).Error
	return owned, err
}

// SetRating stores the user's 0-9 rating for an owned book.
func (r *Repository) SetRating(ctx context.Context, id, userID uint, rating int) error {
	if rating < 0 || rating > MaxRating {
		return ErrRatingOutOfRange
	}
	return r.updateField(ctx, id, userID, "rating", rating)
}

// SetReview stores the user's review text. An empty review is allowed.
func (r *Repository) SetReview(ctx context.Context, id, userID uint, review string) error {
	return r.updateField(ctx, id, userID, "review", review)
}

// ToggleRead flips the read flag and returns the new value.
func (r *Repository) ToggleRead(ctx context.Context, id, userID uint) (bool, error) {
	owned, err := r.GetByID(ctx, id, userID)
	if err != nil {
		return false, err
	}
	newValue := !owned.Read
	if err := r.updateField(ctx, id, userID, "read", newValue); err != nil {
		return false, err
	}
	return newValue, nil
}

func (r *Repository) updateField(ctx context.Context, id, userID uint, column string, value any) error {
	result := r.db.WithContext(ctx).
		Model(&entities.OwnedBook{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update(column, value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
