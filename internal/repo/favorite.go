package repo

import (
	"context"

	"github.com/Skotchmaster/sweet_shop/internal/db"
	"github.com/Skotchmaster/sweet_shop/internal/models"
)

func (r *GormRepo) FavoriteProductIDs(ctx context.Context, userID uint) ([]uint, error) {
	ids := []uint{}
	err := r.DB.WithContext(ctx).Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Pluck("product_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// AddFavorite is idempotent; created says whether a row was inserted.
func (r *GormRepo) AddFavorite(ctx context.Context, userID, productID uint) (*models.Favorite, bool, error) {
	var existing []models.Favorite
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Limit(1).Find(&existing).Error; err != nil {
		return nil, false, err
	}
	if len(existing) > 0 {
		return &existing[0], false, nil
	}

	fav := &models.Favorite{UserID: userID, ProductID: productID}
	if err := r.DB.WithContext(ctx).Create(fav).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return r.AddFavorite(ctx, userID, productID)
		}
		return nil, false, err
	}
	return fav, true, nil
}

func (r *GormRepo) RemoveFavorite(ctx context.Context, userID, productID uint) error {
	return affected(r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{}), "favorite")
}
