package repo

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

// Revenue sums order totals, leaving cancelled orders out.
func (r *GormRepo) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Select("SUM(total) AS total").
		Where("status <> ?", models.StatusCancelled).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !row.Total.Valid {
		return decimal.Zero, nil
	}
	return row.Total.Decimal.Round(2), nil
}

// CountOrders counts orders, restricted to status when it is non-empty.
func (r *GormRepo) CountOrders(ctx context.Context, status models.OrderStatus) (int64, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *GormRepo) CountUsers(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}

func (r *GormRepo) CountLowStock(ctx context.Context, below int) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).
		Where("stock < ? AND is_active = ?", below, true).
		Count(&n).Error
	return n, err
}
