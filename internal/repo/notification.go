package repo

import (
	"context"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

func (r *GormRepo) ListNotifications(ctx context.Context, userID uint) ([]models.Notification, error) {
	var out []models.Notification
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) MarkNotificationRead(ctx context.Context, userID, id uint) error {
	return affected(r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true), "notification")
}

func (r *GormRepo) MarkAllNotificationsRead(ctx context.Context, userID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}
