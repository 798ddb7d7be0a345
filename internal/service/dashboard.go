package service

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Skotchmaster/sweet_shop/internal/models"
	"github.com/Skotchmaster/sweet_shop/internal/repo"
)

// LowStockThreshold is the stock level under which an active product is reported.
const LowStockThreshold = 5

type DashboardStats struct {
	TotalRevenue     decimal.Decimal `json:"totalRevenue"`
	TotalOrders      int64           `json:"totalOrders"`
	PendingOrders    int64           `json:"pendingOrders"`
	PreparingOrders  int64           `json:"preparingOrders"`
	CompletedOrders  int64           `json:"completedOrders"`
	TotalUsers       int64           `json:"totalUsers"`
	LowStockProducts int64           `json:"lowStockProducts"`
}

type DashboardService struct {
	Repo *repo.GormRepo
}

func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var st DashboardStats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.TotalRevenue, err = s.Repo.Revenue(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.TotalOrders, err = s.Repo.CountOrders(ctx, "")
		return err
	})
	g.Go(func() (err error) {
		st.PendingOrders, err = s.Repo.CountOrders(ctx, models.StatusReceived)
		return err
	})
	g.Go(func() (err error) {
		st.PreparingOrders, err = s.Repo.CountOrders(ctx, models.StatusPreparing)
		return err
	})
	g.Go(func() (err error) {
		st.CompletedOrders, err = s.Repo.CountOrders(ctx, models.StatusDelivered)
		return err
	})
	g.Go(func() (err error) {
		st.TotalUsers, err = s.Repo.CountUsers(ctx, models.RoleCustomer)
		return err
	})
	g.Go(func() (err error) {
		st.LowStockProducts, err = s.Repo.CountLowStock(ctx, LowStockThreshold)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}
