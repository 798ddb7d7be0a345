package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/sweet_shop/internal/models"
)

// ExchangeRateStore persists the single exchange rate row.
type ExchangeRateStore struct {
	Repo *GormRepo
}

func (s *ExchangeRateStore) Get(ctx context.Context) (*models.ExchangeRate, error) {
	var rate models.ExchangeRate
	if err := s.Repo.DB.WithContext(ctx).Preload("UpdatedBy").
		First(&rate, models.ExchangeRateID).Error; err != nil {
		return nil, translate(err, "exchange rate")
	}
	return &rate, nil
}

// Put inserts or overwrites the row; rate.ID is forced to ExchangeRateID.
func (s *ExchangeRateStore) Put(ctx context.Context, rate *models.ExchangeRate) error {
	rate.ID = models.ExchangeRateID
	return s.Repo.DB.WithContext(ctx).Omit("UpdatedBy").Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"usd_to_bs", "updated_by_id", "updated_at"}),
	}).Create(rate).Error
}
