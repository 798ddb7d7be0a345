package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

func (r *GormRepo) ListAddresses(ctx context.Context, userID uint) ([]models.Address, error) {
	var out []models.Address
	err := r.DB.WithContext(ctx).Preload("DeliveryZone").
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepo) GetAddress(ctx context.Context, userID, id uint) (*models.Address, error) {
	var a models.Address
	if err := r.DB.WithContext(ctx).Preload("DeliveryZone").
		Where("user_id = ?", userID).First(&a, id).Error; err != nil {
		return nil, translate(err, "address")
	}
	return &a, nil
}

// CreateAddress keeps exactly one default per user: a user's first address
// is the default, and a new default demotes the previous one.
func (r *GormRepo) CreateAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAddressOwner(tx, a.UserID); err != nil {
			return err
		}
		var n int64
		if err := tx.Model(&models.Address{}).Where("user_id = ?", a.UserID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			a.IsDefault = true
		}
		if a.IsDefault {
			if err := clearDefault(tx, a.UserID, 0); err != nil {
				return err
			}
		}
		return tx.Omit("DeliveryZone").Create(a).Error
	})
}

// UpdateAddress saves a. Turning the default off is ignored while it is the
// user's only default; pick another address as default instead.
func (r *GormRepo) UpdateAddress(ctx context.Context, a *models.Address) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAddressOwner(tx, a.UserID); err != nil {
			return err
		}
		var current models.Address
		if err := tx.Where("user_id = ?", a.UserID).First(&current, a.ID).Error; err != nil {
			return translate(err, "address")
		}
		if a.IsDefault {
			if err := clearDefault(tx, a.UserID, a.ID); err != nil {
				return err
			}
		} else if current.IsDefault {
			a.IsDefault = true
		}
		return tx.Omit("DeliveryZone", "CreatedAt").Save(a).Error
	})
}

// DeleteAddress promotes the newest remaining address when the default goes.
func (r *GormRepo) DeleteAddress(ctx context.Context, userID, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockAddressOwner(tx, userID); err != nil {
			return err
		}
		var a models.Address
		if err := tx.Where("user_id = ?", userID).First(&a, id).Error; err != nil {
			return translate(err, "address")
		}
		if err := tx.Delete(&a).Error; err != nil {
			return err
		}
		if !a.IsDefault {
			return nil
		}
		var next models.Address
		err := tx.Where("user_id = ?", userID).Order("id DESC").Limit(1).Find(&next).Error
		if err != nil || next.ID == 0 {
			return err
		}
		return tx.Model(&next).Update("is_default", true).Error
	})
}

// lockAddressOwner serializes default-address changes per user on the
// user row.
func lockAddressOwner(tx *gorm.DB, userID uint) error {
	var u models.User
	if err := forUpdate(tx).Select("id").First(&u, userID).Error; err != nil {
		return translate(err, "user")
	}
	return nil
}

func clearDefault(tx *gorm.DB, userID, exceptID uint) error {
	q := tx.Model(&models.Address{}).Where("user_id = ? AND is_default = ?", userID, true)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	return q.Update("is_default", false).Error
}
