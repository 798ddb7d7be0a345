package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

type PromotionService struct {
	Repo *repo.GormRepo
	Now  func() time.Time
}

// PromotionQuote is a promotion looked up by code, plus what it takes off
// Subtotal when one was given.
type PromotionQuote struct {
	models.Promotion
	Subtotal *decimal.Decimal `json:"subtotal,omitempty"`
	Discount *decimal.Decimal `json:"discount,omitempty"`
}

var hundred = decimal.NewFromInt(100)

func (s *PromotionService) ListActive(ctx context.Context) ([]models.Promotion, error) {
	at := now(s.Now).UTC()
	return s.Repo.ListPromotions(ctx, &at)
}

func (s *PromotionService) ListAll(ctx context.Context) ([]models.Promotion, error) {
	return s.Repo.ListPromotions(ctx, nil)
}

func (s *PromotionService) Get(ctx context.Context, id uint) (*models.Promotion, error) {
	return s.Repo.GetPromotion(ctx, id)
}

func (s *PromotionService) ByCode(ctx context.Context, code string, subtotal *decimal.Decimal) (*PromotionQuote, error) {
	p, err := s.Repo.GetPromotionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	at := now(s.Now)
	switch {
	case !p.IsActive:
		return nil, domain.NewValidationError("code", "promotion is not active")
	case at.Before(p.ValidFrom):
		return nil, domain.NewValidationError("code", "promotion has not started yet")
	case at.After(p.ValidUntil):
		return nil, domain.NewValidationError("code", "promotion has expired")
	}

	q := &PromotionQuote{Promotion: *p}
	if subtotal != nil {
		if subtotal.IsNegative() {
			return nil, domain.NewValidationError("subtotal", "must not be negative")
		}
		d := p.DiscountFor(*subtotal)
		q.Subtotal = subtotal
		q.Discount = &d
	}
	return q, nil
}

func (s *PromotionService) Create(ctx context.Context, req transport.PromotionRequest) (*models.Promotion, error) {
	p := &models.Promotion{
		Title:         strings.TrimSpace(req.Title),
		Description:   req.Description,
		Code:          normalizeCode(req.Code),
		DiscountType:  models.DiscountType(req.DiscountType),
		DiscountValue: req.DiscountValue,
		MinPurchase:   req.MinPurchase,
		ValidFrom:     req.ValidFrom.UTC(),
		ValidUntil:    req.ValidUntil.UTC(),
		IsActive:      boolOr(req.IsActive, true),
	}
	if err := s.check(ctx, p); err != nil {
		return nil, err
	}
	if err := s.Repo.CreatePromotion(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PromotionService) Patch(ctx context.Context, id uint, req transport.PatchPromotionRequest) (*models.Promotion, error) {
	p, err := s.Repo.GetPromotion(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Code != nil {
		p.Code = normalizeCode(*req.Code)
	}
	if req.DiscountType != nil {
		p.DiscountType = models.DiscountType(*req.DiscountType)
	}
	if req.DiscountValue != nil {
		p.DiscountValue = *req.DiscountValue
	}
	if req.MinPurchase != nil {
		p.MinPurchase = *req.MinPurchase
	}
	if req.ValidFrom != nil {
		p.ValidFrom = req.ValidFrom.UTC()
	}
	if req.ValidUntil != nil {
		p.ValidUntil = req.ValidUntil.UTC()
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if err := s.check(ctx, p); err != nil {
		return nil, err
	}
	if err := s.Repo.SavePromotion(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PromotionService) Delete(ctx context.Context, id uint) error {
	return s.Repo.DeletePromotion(ctx, id)
}

func (s *PromotionService) check(ctx context.Context, p *models.Promotion) error {
	ve := &domain.ValidationError{}
	if p.Title == "" {
		ve.Add("title", "required")
	}
	if p.Code == "" {
		ve.Add("code", "required")
	}
	switch p.DiscountType {
	case models.DiscountPercentage:
		if p.DiscountValue.GreaterThan(hundred) {
			ve.Add("discountValue", "a percentage cannot exceed 100")
		}
	case models.DiscountFixed:
	default:
		ve.Add("discountType", "must be percentage or fixed")
	}
	checkMoney(ve, "discountValue", p.DiscountValue, false)
	checkMoney(ve, "minPurchase", p.MinPurchase, true)
	if p.ValidFrom.IsZero() {
		ve.Add("validFrom", "required")
	}
	if p.ValidUntil.IsZero() {
		ve.Add("validUntil", "required")
	} else if !p.ValidUntil.After(p.ValidFrom) {
		ve.Add("validUntil", "must be after validFrom")
	}
	if err := ve.OrNil(); err != nil {
		return err
	}

	taken, err := s.Repo.PromotionCodeTaken(ctx, p.Code, p.ID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: promotion code %s already exists", domain.ErrConflict, p.Code)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
