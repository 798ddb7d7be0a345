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

type ZoneService struct {
	Repo *repo.GormRepo
}

func (s *ZoneService) List(ctx context.Context, includeInactive bool) ([]models.DeliveryZone, error) {
	return s.Repo.ListZones(ctx, !includeInactive)
}

func (s *ZoneService) Get(ctx context.Context, id uint, includeInactive bool) (*models.DeliveryZone, error) {
	z, err := s.Repo.GetZone(ctx, id)
	if err != nil {
		return nil, err
	}
	if !includeInactive && !z.IsActive {
		return nil, fmt.Errorf("%w: delivery zone", domain.ErrNotFound)
	}
	return z, nil
}

func (s *ZoneService) Create(ctx context.Context, req transport.ZoneRequest) (*models.DeliveryZone, error) {
	z := &models.DeliveryZone{
		Name:          strings.TrimSpace(req.Name),
		Price:         req.Price,
		EstimatedTime: strings.TrimSpace(req.EstimatedTime),
		IsActive:      boolOr(req.IsActive, true),
	}
	if err := checkZone(z); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateZone(ctx, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *ZoneService) Patch(ctx context.Context, id uint, req transport.PatchZoneRequest) (*models.DeliveryZone, error) {
	z, err := s.Repo.GetZone(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		z.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		z.Price = *req.Price
	}
	if req.EstimatedTime != nil {
		z.EstimatedTime = strings.TrimSpace(*req.EstimatedTime)
	}
	if req.IsActive != nil {
		z.IsActive = *req.IsActive
	}
	if err := checkZone(z); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveZone(ctx, z); err != nil {
		return nil, err
	}
	return z, nil
}

func (s *ZoneService) Delete(ctx context.Context, id uint) error {
	return s.Repo.DeleteZone(ctx, id)
}

func checkZone(z *models.DeliveryZone) error {
	ve := &domain.ValidationError{}
	if z.Name == "" {
		ve.Add("name", "required")
	}
	checkMoney(ve, "price", z.Price, true)
	return ve.OrNil()
}
