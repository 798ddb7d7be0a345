package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

type ReviewService struct {
	Repo *repo.GormRepo
}

func (s *ReviewService) List(ctx context.Context, productID *uint) ([]models.Review, error) {
	return s.Repo.ListReviews(ctx, productID)
}

func (s *ReviewService) Get(ctx context.Context, id uint) (*models.Review, error) {
	return s.Repo.GetReview(ctx, id)
}

// Create marks the review as a verified purchase when the author has a
// live order containing the product.
func (s *ReviewService) Create(ctx context.Context, actor Actor, req transport.ReviewRequest) (*models.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.NewValidationError("rating", "must be between 1 and 5")
	}
	ok, err := s.Repo.ProductExists(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.NewValidationError("productId", "unknown product")
	}
	bought, err := s.Repo.HasPurchased(ctx, actor.UserID, req.ProductID)
	if err != nil {
		return nil, err
	}

	rv := &models.Review{
		UserID:             actor.UserID,
		ProductID:          req.ProductID,
		Rating:             req.Rating,
		Comment:            strings.TrimSpace(req.Comment),
		IsVerifiedPurchase: bought,
	}
	if err := s.Repo.CreateReview(ctx, rv); err != nil {
		return nil, err
	}
	return s.Repo.GetReview(ctx, rv.ID)
}

func (s *ReviewService) Update(ctx context.Context, actor Actor, id uint, req transport.PatchReviewRequest) (*models.Review, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if req.Rating != nil {
		if *req.Rating < 1 || *req.Rating > 5 {
			return nil, domain.NewValidationError("rating", "must be between 1 and 5")
		}
		fields["rating"] = *req.Rating
	}
	if req.Comment != nil {
		fields["comment"] = strings.TrimSpace(*req.Comment)
	}
	if len(fields) > 0 {
		if err := s.Repo.UpdateReview(ctx, id, fields); err != nil {
			return nil, err
		}
	}
	return s.Repo.GetReview(ctx, id)
}

func (s *ReviewService) Delete(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	return s.Repo.DeleteReview(ctx, id)
}

func (s *ReviewService) owned(ctx context.Context, actor Actor, id uint) (*models.Review, error) {
	rv, err := s.Repo.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if rv.UserID != actor.UserID && !actor.IsStaff() {
		return nil, fmt.Errorf("%w: review belongs to another user", domain.ErrForbidden)
	}
	return rv, nil
}
