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

// UserService is the admin view over accounts.
type UserService struct {
	Repo *repo.GormRepo
}

func (s *UserService) List(ctx context.Context, role string) ([]models.User, error) {
	r := models.Role(role)
	if role != "" && !r.Valid() {
		return nil, domain.NewValidationError("role", "unknown role")
	}
	return s.Repo.ListUsers(ctx, r)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.Repo.GetUser(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.Repo.GetUserByEmail(ctx, email)
}

func (s *UserService) Update(ctx context.Context, actor Actor, id uint, req transport.AdminUpdateUserRequest) (*models.User, error) {
	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Role != nil {
		r := models.Role(*req.Role)
		if !r.Valid() {
			return nil, domain.NewValidationError("role", "unknown role")
		}
		if id == actor.UserID && r != models.RoleAdmin {
			return nil, fmt.Errorf("%w: admins cannot demote themselves", domain.ErrConflict)
		}
		fields["role"] = r
	}
	if req.IsActive != nil {
		if id == actor.UserID && !*req.IsActive {
			return nil, fmt.Errorf("%w: admins cannot disable themselves", domain.ErrConflict)
		}
		fields["is_active"] = *req.IsActive
	}
	return s.Repo.UpdateUser(ctx, id, fields)
}

func (s *UserService) Delete(ctx context.Context, actor Actor, id uint) error {
	if id == actor.UserID {
		return fmt.Errorf("%w: admins cannot delete themselves", domain.ErrConflict)
	}
	return s.Repo.DeleteUser(ctx, id)
}
