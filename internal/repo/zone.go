package repo

import (
	"context"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

func (r *GormRepo) ListZones(ctx context.Context, activeOnly bool) ([]models.DeliveryZone, error) {
	q := r.DB.WithContext(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []models.DeliveryZone
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetZone(ctx context.Context, id uint) (*models.DeliveryZone, error) {
	var z models.DeliveryZone
	if err := r.DB.WithContext(ctx).First(&z, id).Error; err != nil {
		return nil, translate(err, "delivery zone")
	}
	return &z, nil
}

func (r *GormRepo) CreateZone(ctx context.Context, z *models.DeliveryZone) error {
	return translate(r.DB.WithContext(ctx).Create(z).Error, "delivery zone")
}

func (r *GormRepo) SaveZone(ctx context.Context, z *models.DeliveryZone) error {
	return translate(r.DB.WithContext(ctx).Save(z).Error, "delivery zone")
}

func (r *GormRepo) DeleteZone(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&models.DeliveryZone{}, id), "delivery zone")
}
