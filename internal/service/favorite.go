package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
)

type FavoriteService struct {
	Repo *repo.GormRepo
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]uint, error) {
	return s.Repo.FavoriteProductIDs(ctx, userID)
}

// Add is idempotent; created reports whether a new row was written.
func (s *FavoriteService) Add(ctx context.Context, userID, productID uint) (fav *models.Favorite, created bool, err error) {
	ok, err := s.Repo.ProductExists(ctx, productID)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, fmt.Errorf("%w: product %d", domain.ErrNotFound, productID)
	}
	return s.Repo.AddFavorite(ctx, userID, productID)
}

func (s *FavoriteService) Remove(ctx context.Context, userID, productID uint) error {
	return s.Repo.RemoveFavorite(ctx, userID, productID)
}
