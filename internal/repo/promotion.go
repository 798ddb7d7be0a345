package repo

import (
	"context"
	"strings"
	"time"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

// ListPromotions returns everything, or only what is redeemable at *at.
func (r *GormRepo) ListPromotions(ctx context.Context, at *time.Time) ([]models.Promotion, error) {
	q := r.DB.WithContext(ctx).Order("valid_until ASC").Order("id ASC")
	if at != nil {
		q = q.Where("is_active = ? AND valid_from <= ? AND valid_until >= ?", true, *at, *at)
	}
	var out []models.Promotion
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetPromotion(ctx context.Context, id uint) (*models.Promotion, error) {
	var p models.Promotion
	if err := r.DB.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err, "promotion")
	}
	return &p, nil
}

func (r *GormRepo) GetPromotionByCode(ctx context.Context, code string) (*models.Promotion, error) {
	var p models.Promotion
	if err := r.DB.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&p).Error; err != nil {
		return nil, translate(err, "promotion")
	}
	return &p, nil
}

func (r *GormRepo) PromotionCodeTaken(ctx context.Context, code string, exceptID uint) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Promotion{}).Where("code = ?", code)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) CreatePromotion(ctx context.Context, p *models.Promotion) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error, "promotion code")
}

func (r *GormRepo) SavePromotion(ctx context.Context, p *models.Promotion) error {
	return translate(r.DB.WithContext(ctx).Save(p).Error, "promotion code")
}

func (r *GormRepo) DeletePromotion(ctx context.Context, id uint) error {
	return affected(r.DB.WithContext(ctx).Delete(&models.Promotion{}, id), "promotion")
}
