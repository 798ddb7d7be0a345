package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/sweet_shop/internal/dbtest"
	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
	"github.com/Skotchmaster/sweet_shop/internal/transport"
	"github.com/Skotchmaster/sweet_shop/internal/util"
)

func newRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	return repo.New(dbtest.New(t))
}

func seedProduct(t *testing.T, r *repo.GormRepo, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:      name,
		Slug:      util.Slugify(name),
		BasePrice: decimal.RequireFromString(price),
		Stock:     stock,
		IsActive:  true,
		Unit:      "unidad",
	}
	require.NoError(t, r.CreateProduct(context.Background(), p))
	return p
}

func seedUser(t *testing.T, r *repo.GormRepo, email string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{Email: email, Name: "Test " + string(role), Role: role, PasswordHash: "-", IsActive: true}
	require.NoError(t, r.CreateUser(context.Background(), u))
	return u
}

func seedZone(t *testing.T, r *repo.GormRepo, name, price string) *models.DeliveryZone {
	t.Helper()
	z := &models.DeliveryZone{Name: name, Price: decimal.RequireFromString(price), EstimatedTime: "30-45 min", IsActive: true}
	require.NoError(t, r.CreateZone(context.Background(), z))
	return z
}

func stockOf(t *testing.T, r *repo.GormRepo, productID uint) int {
	t.Helper()
	p, err := r.GetProduct(context.Background(), productID, false)
	require.NoError(t, err)
	return p.Stock
}

func item(productID uint, qty int) transport.OrderItemRequest {
	return transport.OrderItemRequest{ProductID: productID, Quantity: qty}
}

func pickupOrder(items ...transport.OrderItemRequest) transport.PlaceOrderRequest {
	return transport.PlaceOrderRequest{
		CustomerName:  "María Pérez",
		CustomerEmail: "maria@example.com",
		CustomerPhone: "04141234567",
		DeliveryType:  string(models.DeliveryPickup),
		PaymentMethod: string(models.PaymentCash),
		Items:         items,
	}
}

func customer(u *models.User) Actor { return Actor{UserID: u.ID, Role: u.Role} }
