package repo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/models"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	u.Email = normalizeEmail(u.Email)
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return translate(tx.Create(u).Error, "user")
	})
}

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&u).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (r *GormRepo) ListUsers(ctx context.Context, role models.Role) ([]models.User, error) {
	q := r.DB.WithContext(ctx).Order("id ASC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser writes only the given columns.
func (r *GormRepo) UpdateUser(ctx context.Context, id uint, fields map[string]any) (*models.User, error) {
	if len(fields) > 0 {
		res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
		if err := affected(res, "user"); err != nil {
			return nil, err
		}
	}
	return r.GetUser(ctx, id)
}

// DeleteUser removes the account with its personal rows; orders stay, unlinked.
func (r *GormRepo) DeleteUser(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Order{}).Where("user_id = ?", id).Update("user_id", nil).Error; err != nil {
			return err
		}
		for _, m := range []any{
			&models.RefreshToken{}, &models.Address{}, &models.Favorite{},
			&models.Review{}, &models.Notification{},
		} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&models.ExchangeRate{}).Where("updated_by_id = ?", id).
			Update("updated_by_id", nil).Error; err != nil {
			return err
		}
		return affected(tx.Delete(&models.User{}, id), "user")
	})
}

func (r *GormRepo) SaveRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

// RotateRefreshToken revokes the live token oldJTI/oldHash and stores next.
// A token that is unknown, revoked, expired or mismatched yields ErrUnauthorized.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, oldHash string, now time.Time, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND token_hash = ? AND revoked = ? AND expires_at > ?", oldJTI, oldHash, false, now).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: refresh token expired or revoked", domain.ErrUnauthorized)
		}
		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, jti, hash string) error {
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("jti = ? AND token_hash = ? AND revoked = ?", jti, hash, false).
		Update("revoked", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: refresh token already revoked", domain.ErrUnauthorized)
	}
	return nil
}

func (r *GormRepo) RevokeUserRefreshTokens(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
