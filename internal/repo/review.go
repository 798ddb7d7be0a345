package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/models"
)

func (r *GormRepo) reviewQuery(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.Review{}).
		Select("reviews.*, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = reviews.user_id")
}

func (r *GormRepo) ListReviews(ctx context.Context, productID *uint) ([]models.Review, error) {
	q := r.reviewQuery(ctx).Order("reviews.created_at DESC").Order("reviews.id DESC")
	if productID != nil {
		q = q.Where("reviews.product_id = ?", *productID)
	}
	var out []models.Review
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	var rv models.Review
	if err := r.reviewQuery(ctx).Where("reviews.id = ?", id).First(&rv).Error; err != nil {
		return nil, translate(err, "review")
	}
	return &rv, nil
}

// CreateReview allows one review per user and product; the unique index
// catches a racing duplicate the pre-check missed.
func (r *GormRepo) CreateReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Review{}).
			Where("user_id = ? AND product_id = ?", rv.UserID, rv.ProductID).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: product already reviewed by this user", domain.ErrConflict)
		}
		return translate(tx.Create(rv).Error, "review")
	})
}

func (r *GormRepo) UpdateReview(ctx context.Context, id uint, fields map[string]any) error {
	return affected(r.DB.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Updates(fields), "review")
}

func (r *GormRepo) DeleteReview(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&models.Review{}, id), "review")
}
