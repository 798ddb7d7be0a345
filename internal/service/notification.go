package service

import (
	"context"

	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
)

type NotificationService struct {
	Repo *repo.GormRepo
}

func (s *NotificationService) List(ctx context.Context, userID uint) ([]models.Notification, error) {
	return s.Repo.ListNotifications(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) error {
	return s.Repo.MarkNotificationRead(ctx, userID, id)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	return s.Repo.MarkAllNotificationsRead(ctx, userID)
}
