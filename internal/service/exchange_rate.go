package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/models"
)

// ExchangeRateStore holds the one exchange rate row. Get returns
// domain.ErrNotFound while nothing has been stored.
type ExchangeRateStore interface {
	Get(ctx context.Context) (*models.ExchangeRate, error)
	Put(ctx context.Context, rate *models.ExchangeRate) error
}

type ExchangeRateService struct {
	Store   ExchangeRateStore
	Default decimal.Decimal
	Now     func() time.Time

	seed sync.Mutex
}

// Current returns the rate, writing Default first when the store is empty.
func (s *ExchangeRateService) Current(ctx context.Context) (*models.ExchangeRate, error) {
	rate, err := s.Store.Get(ctx)
	if !errors.Is(err, domain.ErrNotFound) {
		return rate, err
	}

	s.seed.Lock()
	defer s.seed.Unlock()
	if rate, err := s.Store.Get(ctx); !errors.Is(err, domain.ErrNotFound) {
		return rate, err
	}
	seeded := &models.ExchangeRate{UsdToBs: s.Default, UpdatedAt: now(s.Now).UTC()}
	if err := s.Store.Put(ctx, seeded); err != nil {
		return nil, err
	}
	return s.Store.Get(ctx)
}

// Update replaces the rate. Zero and negative rates are rejected.
func (s *ExchangeRateService) Update(ctx context.Context, actor Actor, usdToBs decimal.Decimal) (*models.ExchangeRate, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	ve := &domain.ValidationError{}
	checkMoney(ve, "usdToBs", usdToBs, false)
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	adminID := actor.UserID
	if err := s.Store.Put(ctx, &models.ExchangeRate{
		UsdToBs:     usdToBs,
		UpdatedByID: &adminID,
		UpdatedAt:   now(s.Now).UTC(),
	}); err != nil {
		return nil, err
	}
	return s.Store.Get(ctx)
}
