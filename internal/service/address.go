package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/sweet_shop/internal/domain"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
)

type AddressService struct {
	Repo *repo.GormRepo
}

func (s *AddressService) List(ctx context.Context, userID uint) ([]models.Address, error) {
	return s.Repo.ListAddresses(ctx, userID)
}

func (s *AddressService) Get(ctx context.Context, userID, id uint) (*models.Address, error) {
	return s.Repo.GetAddress(ctx, userID, id)
}

func (s *AddressService) Create(ctx context.Context, userID uint, req transport.AddressRequest) (*models.Address, error) {
	a := &models.Address{
		UserID:         userID,
		Label:          strings.TrimSpace(req.Label),
		Address:        strings.TrimSpace(req.Address),
		DeliveryZoneID: req.DeliveryZoneID,
		Reference:      strings.TrimSpace(req.Reference),
		IsDefault:      req.IsDefault,
	}
	if err := s.check(ctx, a); err != nil {
		return nil, err
	}
	if err := s.Repo.CreateAddress(ctx, a); err != nil {
		return nil, err
	}
	return s.Repo.GetAddress(ctx, userID, a.ID)
}

func (s *AddressService) Update(ctx context.Context, userID, id uint, req transport.PatchAddressRequest) (*models.Address, error) {
	a, err := s.Repo.GetAddress(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if req.Label != nil {
		a.Label = strings.TrimSpace(*req.Label)
	}
	if req.Address != nil {
		a.Address = strings.TrimSpace(*req.Address)
	}
	if req.DeliveryZoneID != nil {
		a.DeliveryZoneID = req.DeliveryZoneID
	}
	if req.Reference != nil {
		a.Reference = strings.TrimSpace(*req.Reference)
	}
	if req.IsDefault != nil {
		a.IsDefault = *req.IsDefault
	}
	if err := s.check(ctx, a); err != nil {
		return nil, err
	}
	a.DeliveryZone = nil
	if err := s.Repo.UpdateAddress(ctx, a); err != nil {
		return nil, err
	}
	return s.Repo.GetAddress(ctx, userID, id)
}

func (s *AddressService) Delete(ctx context.Context, userID, id uint) error {
	return s.Repo.DeleteAddress(ctx, userID, id)
}

func (s *AddressService) check(ctx context.Context, a *models.Address) error {
	ve := &domain.ValidationError{}
	if a.Label == "" {
		ve.Add("label", "required")
	}
	if a.Address == "" {
		ve.Add("address", "required")
	}
	if a.DeliveryZoneID != nil {
		_, err := s.Repo.GetZone(ctx, *a.DeliveryZoneID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			ve.Add("deliveryZoneId", "unknown delivery zone")
		case err != nil:
			return err
		}
	}
	return ve.OrNil()
}
